package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"slices"
	"strings"
)

// Body is a request payload.
type Body interface {
	// open returns the payload stream and its content type.
	open() (io.ReadCloser, string, error)
}

type rawBody struct {
	r           io.Reader
	contentType string
}

// Raw sends r as is. The reader is not closed.
func Raw(r io.Reader, contentType string) Body {
	return rawBody{r: r, contentType: contentType}
}

func (b rawBody) open() (io.ReadCloser, string, error) {
	return io.NopCloser(b.r), b.contentType, nil
}

type jsonBody struct{ v any }

// JSON encodes v as the payload.
func JSON(v any) Body { return jsonBody{v: v} }

func (b jsonBody) open() (io.ReadCloser, string, error) {
	data, err := json.Marshal(b.v)
	if err != nil {
		return nil, "", fmt.Errorf("httpclient: encode json: %w", err)
	}
	return io.NopCloser(bytes.NewReader(data)), "application/json", nil
}

// Form is a multipart/form-data payload with one file part. The file is
// written after the fields.
type Form struct {
	Fields map[string]string

	FileField   string
	FileName    string
	ContentType string
	File        io.Reader
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// open streams the form through a pipe. The writer goroutine ends when the
// transport reads to EOF or closes the body.
func (f *Form) open() (io.ReadCloser, string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(f.write(mw))
	}()
	return pr, mw.FormDataContentType(), nil
}

func (f *Form) write(mw *multipart.Writer) error {
	keys := make([]string, 0, len(f.Fields))
	for k := range f.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if err := mw.WriteField(k, f.Fields[k]); err != nil {
			return err
		}
	}

	if f.File != nil {
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(f.FileField), quoteEscaper.Replace(f.FileName)))
		h.Set("Content-Type", ct)
		part, err := mw.CreatePart(h)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, f.File); err != nil {
			return fmt.Errorf("httpclient: copy %s: %w", f.FileName, err)
		}
	}
	return mw.Close()
}
