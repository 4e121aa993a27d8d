package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/recorder/component"
	"github.com/kbukum/recorder/logger"
)

type memStorage struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memStorage) Upload(_ context.Context, path string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[path] = b
	return "mem://" + path, nil
}

func (m *memStorage) Download(_ context.Context, path string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *memStorage) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, path)
	return nil
}

func (m *memStorage) Exists(_ context.Context, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[path]
	return ok, nil
}

func init() {
	RegisterFactory("mem", func(_ context.Context, _ Config, _ *logger.Logger) (Storage, error) {
		return &memStorage{data: map[string][]byte{}}, nil
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"azure needs connection string", Config{Provider: ProviderAzure}, "connection_string is required"},
		{"azure ok", Config{Provider: ProviderAzure, ConnectionString: "x"}, ""},
		{"local ok", Config{Provider: ProviderLocal}, ""},
		{"s3 half credentials", Config{Provider: ProviderS3, AccessKey: "a"}, "must be set together"},
		{"unknown provider", Config{Provider: "ftp"}, "unsupported provider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.ApplyDefaults()
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Provider != ProviderAzure || cfg.Container != "conversations" {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestNewUnregisteredProvider(t *testing.T) {
	cfg := Config{Provider: ProviderS3}
	// s3 is valid config but its package is not imported here.
	_, err := New(context.Background(), cfg, logger.Nop())
	if err == nil || !strings.Contains(err.Error(), "not registered") {
		t.Fatalf("expected not registered error, got %v", err)
	}
}

func TestComponentLifecycle(t *testing.T) {
	// "mem" is not a configurable provider, so bypass Validate through the factory map.
	c := &Component{cfg: Config{Provider: "mem", Container: "c"}, log: logger.Nop()}
	if h := c.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("health before start = %s", h.Status)
	}

	f := factories["mem"]
	s, err := f(context.Background(), c.cfg, logger.Nop())
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	c.backend = s

	if h := c.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("health = %s (%s)", h.Status, h.Message)
	}
	if d := c.Describe(); d.Type != "mem" || d.Details != "container=c" {
		t.Errorf("description = %+v", d)
	}

	if _, err := s.Download(context.Background(), "nope"); !IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if c.Storage() != nil {
		t.Error("storage should be nil after stop")
	}
}

func TestIsNotFoundWrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", fmt.Errorf("%w: k", ErrNotFound))
	if !IsNotFound(err) || IsNotFound(errors.New("other")) {
		t.Error("IsNotFound mismatch")
	}
}

type unreachable struct{ memStorage }

func (*unreachable) Exists(context.Context, string) (bool, error) {
	return false, errors.New("dial tcp: connection refused")
}

func TestComponentHealthDegradedAndCached(t *testing.T) {
	c := NewComponent(Config{Provider: ProviderLocal}, nil)
	c.backend = &unreachable{}

	h := c.Health(context.Background())
	if h.Status != component.StatusDegraded || !strings.Contains(h.Message, "connection refused") {
		t.Fatalf("health = %+v", h)
	}

	// Within the probe TTL the cached result is reused.
	c.backend = &memStorage{data: map[string][]byte{}}
	if h := c.Health(context.Background()); h.Status != component.StatusDegraded {
		t.Errorf("expected cached degraded status, got %s", h.Status)
	}
	c.lastProbe = time.Time{}
	if h := c.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy after re-probe, got %s", h.Status)
	}
}
