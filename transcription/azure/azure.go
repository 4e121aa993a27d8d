// Package azure transcribes audio with the Azure Speech short-audio REST API.
package azure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kbukum/recorder/httpclient"
	"github.com/kbukum/recorder/provider"
	"github.com/kbukum/recorder/transcription"
)

const (
	ProviderName = "azure"

	recognitionPath = "/speech/recognition/conversation/cognitiveservices/v1"
	keyHeader       = "Ocp-Apim-Subscription-Key"
	defaultTimeout  = 60 * time.Second
)

// Recognition statuses returned by the service.
const (
	StatusSuccess               = "Success"
	StatusNoMatch               = "NoMatch"
	StatusInitialSilenceTimeout = "InitialSilenceTimeout"
	StatusBabbleTimeout         = "BabbleTimeout"
)

// ErrMissingCredentials is returned at construction when key or region is absent.
var ErrMissingCredentials = errors.New("azure speech: key and region are required")

func init() {
	transcription.Register(ProviderName, Factory())
}

// Config holds Azure Speech settings.
type Config struct {
	Key      string
	Region   string
	Language string
	// Endpoint overrides the regional endpoint, e.g. for a container deployment.
	Endpoint string
	Timeout  time.Duration
}

// Provider implements transcription.Provider.
type Provider struct {
	cfg    Config
	client *httpclient.Client
}

// NewProvider fails with ErrMissingCredentials when key or region is empty.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Key == "" || (cfg.Region == "" && cfg.Endpoint == "") {
		return nil, ErrMissingCredentials
	}
	if cfg.Language == "" {
		cfg.Language = transcription.DefaultLanguage
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = fmt.Sprintf("https://%s.stt.speech.microsoft.com", cfg.Region)
	}

	client, err := httpclient.New(httpclient.Config{
		BaseURL: cfg.Endpoint,
		Timeout: cfg.Timeout,
		Headers: map[string]string{
			"Accept":  "application/json",
			keyHeader: cfg.Key,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("azure speech: %w", err)
	}
	return &Provider{cfg: cfg, client: client}, nil
}

// Factory builds providers from the "azure" options section.
func Factory() provider.Factory[transcription.Provider] {
	return func(opts map[string]any) (transcription.Provider, error) {
		timeout, err := provider.Duration(opts, "timeout")
		if err != nil {
			return nil, fmt.Errorf("azure speech: %w", err)
		}
		return NewProvider(Config{
			Key:      provider.String(opts, "key"),
			Region:   provider.String(opts, "region"),
			Language: provider.String(opts, "language"),
			Endpoint: provider.String(opts, "endpoint"),
			Timeout:  timeout,
		})
	}
}

func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether credentials are configured. It makes no call.
func (p *Provider) IsAvailable(_ context.Context) bool {
	return p.cfg.Key != ""
}

type recognitionResult struct {
	RecognitionStatus string `json:"RecognitionStatus"`
	DisplayText       string `json:"DisplayText"`
	Offset            int64  `json:"Offset"`
	Duration          int64  `json:"Duration"`
}

func (p *Provider) Transcribe(ctx context.Context, req transcription.TranscriptionRequest) (*transcription.TranscriptionResponse, error) {
	f, err := os.Open(req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("azure speech: open audio: %w", err)
	}
	defer func() { _ = f.Close() }()

	lang := p.cfg.Language
	if req.Language != "" {
		lang = req.Language
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   recognitionPath,
		Query:  url.Values{"language": {lang}, "format": {"simple"}},
		Body:   httpclient.Raw(f, audioContentType(req.AudioPath, req.ContentType)),
	})
	if err != nil {
		return nil, fmt.Errorf("azure speech: recognize: %w", err)
	}

	var result recognitionResult
	if err := resp.DecodeJSON(&result); err != nil {
		return nil, fmt.Errorf("azure speech: %w", err)
	}

	switch result.RecognitionStatus {
	case StatusSuccess:
		return &transcription.TranscriptionResponse{Text: result.DisplayText, Language: lang, Status: result.RecognitionStatus}, nil
	case StatusNoMatch, StatusInitialSilenceTimeout, StatusBabbleTimeout:
		return &transcription.TranscriptionResponse{Language: lang, Status: result.RecognitionStatus}, nil
	default:
		return nil, fmt.Errorf("azure speech: recognition status %q", result.RecognitionStatus)
	}
}

// audioContentType picks the header the service expects for the staged file.
// The file suffix wins over the declared type since it was chosen for the backend.
func audioContentType(path, declared string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return "audio/wav; codecs=audio/pcm; samplerate=16000"
	case ".ogg":
		return "audio/ogg; codecs=opus"
	case ".webm":
		// The short-audio endpoint only decodes WAV/PCM and OGG/Opus, so
		// webm uploads are rejected there and surface as a failed transcription.
		return "audio/webm; codecs=opus"
	}
	if declared != "" {
		return declared
	}
	return "application/octet-stream"
}

var _ transcription.Provider = (*Provider)(nil)
