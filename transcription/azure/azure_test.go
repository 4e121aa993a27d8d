package azure

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/kbukum/recorder/transcription"
)

func writeAudio(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("RIFF....WAVE"), 0o600); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	return path
}

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	p, err := NewProvider(Config{Key: "k", Region: "westeurope", Endpoint: srv.URL})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	return p
}

func TestTranscribeSuccess(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != recognitionPath {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get(keyHeader); got != "k" {
			t.Errorf("key = %q", got)
		}
		if got := r.URL.Query().Get("language"); got != "en-US" {
			t.Errorf("language = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "audio/wav; codecs=audio/pcm; samplerate=16000" {
			t.Errorf("content type = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "RIFF....WAVE" {
			t.Errorf("body = %q", body)
		}
		_, _ = io.WriteString(w, `{"RecognitionStatus":"Success","DisplayText":"hello world foo bar"}`)
	})

	resp, err := p.Transcribe(context.Background(), transcription.TranscriptionRequest{AudioPath: writeAudio(t, "a.wav")})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if resp.Text != "hello world foo bar" {
		t.Errorf("text = %q", resp.Text)
	}
}

func TestTranscribeNoSpeech(t *testing.T) {
	for _, status := range []string{StatusNoMatch, StatusInitialSilenceTimeout} {
		p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `{"RecognitionStatus":"`+status+`"}`)
		})
		resp, err := p.Transcribe(context.Background(), transcription.TranscriptionRequest{AudioPath: writeAudio(t, "a.webm")})
		if err != nil {
			t.Fatalf("%s: unexpected error %v", status, err)
		}
		if !resp.NoSpeech() {
			t.Errorf("%s: expected no speech, got %q", status, resp.Text)
		}
	}
}

func TestTranscribeHardErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"unauthorized", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusUnauthorized) }},
		{"error status", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `{"RecognitionStatus":"Error"}`)
		}},
		{"bad json", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "<html>") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, tt.handler)
			if _, err := p.Transcribe(context.Background(), transcription.TranscriptionRequest{AudioPath: writeAudio(t, "a.wav")}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestFactoryRequiresCredentials(t *testing.T) {
	_, err := Factory()(map[string]any{"region": "westeurope"})
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
	p, err := Factory()(map[string]any{"key": "k", "region": "westeurope", "timeout": "30"})
	if err != nil {
		t.Fatalf("Factory: %v", err)
	}
	if p.Name() != ProviderName || !p.IsAvailable(context.Background()) {
		t.Error("unexpected provider state")
	}
}

func TestRegisteredInDefaultRegistry(t *testing.T) {
	if !transcription.DefaultRegistry().Has(ProviderName) {
		t.Fatal("azure backend not registered")
	}
}

func TestAudioContentType(t *testing.T) {
	tests := []struct{ path, declared, want string }{
		{"x.wav", "", "audio/wav; codecs=audio/pcm; samplerate=16000"},
		{"x.ogg", "audio/ogg", "audio/ogg; codecs=opus"},
		{"x.webm", "", "audio/webm; codecs=opus"},
		{"x.mp3", "audio/mpeg", "audio/mpeg"},
		{"x.bin", "", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := audioContentType(tt.path, tt.declared); got != tt.want {
			t.Errorf("audioContentType(%q, %q) = %q, want %q", tt.path, tt.declared, got, tt.want)
		}
	}
}

func TestTranscribeWebmRejected(t *testing.T) {
	var gotType string
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusBadRequest)
	})
	_, err := p.Transcribe(context.Background(), transcription.TranscriptionRequest{AudioPath: writeAudio(t, "a.webm")})
	if err == nil {
		t.Fatal("expected error for unsupported webm audio")
	}
	if gotType != "audio/webm; codecs=opus" {
		t.Errorf("Content-Type = %q", gotType)
	}
}
