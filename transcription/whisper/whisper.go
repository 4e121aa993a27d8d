// Package whisper transcribes audio through a faster-whisper HTTP sidecar.
package whisper

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kbukum/recorder/httpclient"
	"github.com/kbukum/recorder/provider"
	"github.com/kbukum/recorder/transcription"
)

const (
	ProviderName = "whisper"

	defaultURL     = "http://localhost:8387"
	defaultModel   = "base"
	defaultTimeout = 120 * time.Second
)

func init() {
	transcription.Register(ProviderName, Factory())
}

// Config holds sidecar settings.
type Config struct {
	URL      string
	Model    string
	Language string
	Timeout  time.Duration
}

// Provider implements transcription.Provider.
type Provider struct {
	cfg    Config
	client *httpclient.Client
}

func NewProvider(cfg Config) (*Provider, error) {
	if cfg.URL == "" {
		cfg.URL = defaultURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	client, err := httpclient.New(httpclient.Config{BaseURL: cfg.URL, Timeout: cfg.Timeout})
	if err != nil {
		return nil, fmt.Errorf("whisper: %w", err)
	}
	return &Provider{cfg: cfg, client: client}, nil
}

// Factory builds providers from the "whisper" options section.
func Factory() provider.Factory[transcription.Provider] {
	return func(opts map[string]any) (transcription.Provider, error) {
		timeout, err := provider.Duration(opts, "timeout")
		if err != nil {
			return nil, fmt.Errorf("whisper: %w", err)
		}
		return NewProvider(Config{
			URL:      provider.String(opts, "url"),
			Model:    provider.String(opts, "model"),
			Language: provider.String(opts, "language"),
			Timeout:  timeout,
		})
	}
}

func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks the sidecar's health endpoint.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	resp, err := p.client.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: "/health"})
	return err == nil && resp.StatusCode == http.StatusOK
}

type whisperResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

func (p *Provider) Transcribe(ctx context.Context, req transcription.TranscriptionRequest) (*transcription.TranscriptionResponse, error) {
	f, err := os.Open(req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("whisper: open audio: %w", err)
	}
	defer func() { _ = f.Close() }()

	fields := map[string]string{"model": p.cfg.Model}
	if lang := whisperLanguage(p.cfg.Language, req.Language); lang != "" {
		fields["language"] = lang
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/transcribe",
		Body: &httpclient.Form{
			Fields:      fields,
			FileField:   "audio",
			FileName:    filepath.Base(req.AudioPath),
			ContentType: req.ContentType,
			File:        f,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("whisper: transcribe: %w", err)
	}

	var result whisperResponse
	if err := resp.DecodeJSON(&result); err != nil {
		return nil, fmt.Errorf("whisper: %w", err)
	}
	return &transcription.TranscriptionResponse{
		Text:     strings.TrimSpace(result.Text),
		Language: result.Language,
	}, nil
}

// whisperLanguage reduces a locale such as "en-US" to the ISO 639-1 code
// whisper expects. The request value wins over the configured one.
func whisperLanguage(configured, requested string) string {
	lang := configured
	if requested != "" {
		lang = requested
	}
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	return strings.ToLower(lang)
}

var _ transcription.Provider = (*Provider)(nil)
