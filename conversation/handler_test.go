package conversation

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/kbukum/recorder/logger"
	"github.com/kbukum/recorder/server"
	"github.com/kbukum/recorder/server/middleware"
)

type apiFixture struct {
	handler http.Handler
	blobs   *memBlobs
	tr      *fakeTranscriber
	srv     *server.Server
}

func newAPI(t *testing.T, text string, cfg server.Config) *apiFixture {
	t.Helper()
	cfg.ApplyDefaults()
	srv := server.New(cfg, logger.Nop())
	srv.ApplyMiddleware()
	srv.RegisterDefaultEndpoints("recorder", "Conversation Recorder API is running", nil)

	repo := NewRepository(newTestDB(t))
	blobs := newMemBlobs()
	tr := &fakeTranscriber{text: text}
	ing := NewIngester(repo, blobs, tr, logger.Nop(), WithTempDir(t.TempDir()))
	svc := NewService(repo, ing, blobs, logger.Nop())
	NewHandler(svc, srv.Registry()).Register(srv.GinEngine(), middleware.RateLimit(cfg.RateLimit))

	return &apiFixture{handler: srv.Handler(), blobs: blobs, tr: tr, srv: srv}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   struct {
		Code string `json:"code"`
	} `json:"error"`
}

func (a *apiFixture) do(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s: %v", w.Body.String(), err)
		}
	}
	return w, env
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func uploadRequest(t *testing.T, id, field, contentType string, audio []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("note", "ignored")
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="recording.webm"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	_, _ = part.Write(audio)
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/conversations/"+id+"/audio", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeConversation(t *testing.T, env envelope) Conversation {
	t.Helper()
	var c Conversation
	if err := json.Unmarshal(env.Data, &c); err != nil {
		t.Fatalf("decode conversation: %v", err)
	}
	return c
}

func TestConversationLifecycle(t *testing.T) {
	api := newAPI(t, "hello world foo bar", server.Config{})

	w, env := api.do(t, jsonRequest(http.MethodPost, "/api/conversations/", `{"title":"t1"}`))
	if w.Code != http.StatusCreated || !env.Success || env.Message != "Conversation created successfully" {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	created := decodeConversation(t, env)
	if created.Title != "t1" || created.Content != "" || created.Duration != 0 {
		t.Errorf("unexpected new conversation %+v", created)
	}
	if !strings.Contains(w.Body.String(), `"content":""`) {
		t.Errorf("content must serialize as empty string: %s", w.Body.String())
	}

	audio := []byte("webm bytes")
	w, env = api.do(t, uploadRequest(t, created.ID, AudioField, "audio/webm;codecs=opus", audio))
	if w.Code != http.StatusOK || env.Message != "Audio processed successfully" {
		t.Fatalf("upload: %d %s", w.Code, w.Body.String())
	}
	ingested := decodeConversation(t, env)
	if ingested.Content != "hello world foo bar" || ingested.Duration != 2 {
		t.Errorf("ingested %+v", ingested)
	}

	w, _ = api.do(t, httptest.NewRequest(http.MethodGet, "/api/conversations/"+created.ID+"/audio", nil))
	if w.Code != http.StatusOK || !bytes.Equal(w.Body.Bytes(), audio) {
		t.Errorf("audio download: %d %q", w.Code, w.Body.String())
	}

	for _, path := range []string{"/api/conversations", "/api/conversations/"} {
		w, env = api.do(t, httptest.NewRequest(http.MethodGet, path, nil))
		var list []Conversation
		_ = json.Unmarshal(env.Data, &list)
		if w.Code != http.StatusOK || len(list) != 1 {
			t.Errorf("list %s: %d %s", path, w.Code, w.Body.String())
		}
	}

	w, env = api.do(t, httptest.NewRequest(http.MethodDelete, "/api/conversations/"+created.ID, nil))
	if w.Code != http.StatusOK || env.Message != "Conversation deleted successfully" {
		t.Fatalf("delete: %d %s", w.Code, w.Body.String())
	}
	if _, ok := api.blobs.object(BlobKey(created.ID)); !ok {
		t.Error("delete should keep the audio blob")
	}

	w, env = api.do(t, httptest.NewRequest(http.MethodGet, "/api/conversations/"+created.ID, nil))
	if w.Code != http.StatusNotFound || env.Success || env.Message != "Conversation not found" {
		t.Errorf("get after delete: %d %s", w.Code, w.Body.String())
	}
}

func TestCreateValidation(t *testing.T) {
	api := newAPI(t, "", server.Config{})
	for _, body := range []string{`{}`, `{"title":"   "}`, `not json`} {
		w, env := api.do(t, jsonRequest(http.MethodPost, "/api/conversations", body))
		if w.Code != http.StatusBadRequest || env.Error.Code != "INVALID_INPUT" {
			t.Errorf("body %s: %d %s", body, w.Code, w.Body.String())
		}
	}
}

func TestUploadErrors(t *testing.T) {
	api := newAPI(t, "words", server.Config{MaxBodySize: "1KB"})
	_, env := api.do(t, jsonRequest(http.MethodPost, "/api/conversations", `{"title":"t"}`))
	id := decodeConversation(t, env).ID

	tests := []struct {
		name string
		req  *http.Request
		code int
		err  string
	}{
		{"unknown conversation", uploadRequest(t, "missing", AudioField, "audio/webm", []byte("a")), http.StatusNotFound, "NOT_FOUND"},
		{"wrong field", uploadRequest(t, id, "file", "audio/webm", []byte("a")), http.StatusBadRequest, "MISSING_FIELD"},
		{"not multipart", jsonRequest(http.MethodPost, "/api/conversations/"+id+"/audio", `{}`), http.StatusBadRequest, "INVALID_INPUT"},
		{"too large", uploadRequest(t, id, AudioField, "audio/webm", bytes.Repeat([]byte("x"), 4096)), http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, env := api.do(t, tc.req)
			if w.Code != tc.code || env.Error.Code != tc.err {
				t.Errorf("got %d %s, want %d %s", w.Code, env.Error.Code, tc.code, tc.err)
			}
		})
	}
	if api.tr.calls != 0 {
		t.Errorf("transcriber called %d times for rejected uploads", api.tr.calls)
	}

	w := httptest.NewRecorder()
	api.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	for _, line := range []string{
		`recorder_audio_uploads_total{result="not_found"} 1`,
		`recorder_audio_uploads_total{result="payload_too_large"} 1`,
	} {
		if !strings.Contains(w.Body.String(), line) {
			t.Errorf("metrics missing %s", line)
		}
	}
}

func TestUploadTranscriptionFailure(t *testing.T) {
	api := newAPI(t, "", server.Config{})
	api.tr.err = io.ErrUnexpectedEOF
	_, env := api.do(t, jsonRequest(http.MethodPost, "/api/conversations", `{"title":"t"}`))
	id := decodeConversation(t, env).ID

	w, env := api.do(t, uploadRequest(t, id, AudioField, "audio/webm", []byte("a")))
	if w.Code != http.StatusInternalServerError || env.Success || env.Error.Code != "TRANSCRIPTION_FAILED" {
		t.Errorf("got %d %s", w.Code, w.Body.String())
	}
	if env.Message == "" {
		t.Error("failure envelope needs a human-readable message")
	}
}

func TestUploadRateLimited(t *testing.T) {
	cfg := server.Config{RateLimit: middleware.RateLimitConfig{RequestsPerMinute: 1, Burst: 1}}
	api := newAPI(t, "hi there", cfg)
	_, env := api.do(t, jsonRequest(http.MethodPost, "/api/conversations", `{"title":"t"}`))
	id := decodeConversation(t, env).ID

	if w, _ := api.do(t, uploadRequest(t, id, AudioField, "audio/webm", []byte("a"))); w.Code != http.StatusOK {
		t.Fatalf("first upload: %d", w.Code)
	}
	w, env := api.do(t, uploadRequest(t, id, AudioField, "audio/webm", []byte("a")))
	if w.Code != http.StatusTooManyRequests || env.Error.Code != "RATE_LIMITED" {
		t.Errorf("second upload: %d %s", w.Code, w.Body.String())
	}
	// Reads are not limited.
	if w, _ := api.do(t, httptest.NewRequest(http.MethodGet, "/api/conversations/"+id, nil)); w.Code != http.StatusOK {
		t.Errorf("get: %d", w.Code)
	}
}

func TestAudioMissing(t *testing.T) {
	api := newAPI(t, "", server.Config{})
	_, env := api.do(t, jsonRequest(http.MethodPost, "/api/conversations", `{"title":"t"}`))
	id := decodeConversation(t, env).ID

	w, env := api.do(t, httptest.NewRequest(http.MethodGet, "/api/conversations/"+id+"/audio", nil))
	if w.Code != http.StatusNotFound || env.Message != "Recording not found" {
		t.Errorf("got %d %s", w.Code, w.Body.String())
	}
}
