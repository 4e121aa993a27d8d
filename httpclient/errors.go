package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// snippetLimit caps how much of an error body is kept in the message.
const snippetLimit = 200

// StatusError is a non-2xx reply.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("httpclient: HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	if len(e.Body) == 0 {
		return msg
	}
	body := string(e.Body)
	if len(body) > snippetLimit {
		body = body[:snippetLimit] + "..."
	}
	return msg + ": " + body
}

// TransportError is a failure before any status was received.
type TransportError struct {
	Timeout bool
	Err     error
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return "httpclient: timeout: " + e.Err.Error()
	}
	return "httpclient: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusCode returns the upstream status carried by err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

func IsTimeout(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Timeout
}

// IsUnauthorized reports a rejected credential.
func IsUnauthorized(err error) bool {
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// Temporary reports failures worth retrying later: timeouts, connection
// errors, 429 and 5xx.
func Temporary(err error) bool {
	var te *TransportError
	if errors.As(err, &te) {
		return true
	}
	code := StatusCode(err)
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
