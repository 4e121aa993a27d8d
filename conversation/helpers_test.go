package conversation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/kbukum/recorder/database"
	"github.com/kbukum/recorder/storage"
	"github.com/kbukum/recorder/transcription"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	ctx := context.Background()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.New(ctx, database.Config{DSN: dsn, LogLevel: "silent"}, nil)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := database.NewRunner(db.GormDB, nil, Migrations()...).Run(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// memBlobs is an in-memory blob store that can be told to fail.
type memBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    error
	uploads int
}

func newMemBlobs() *memBlobs {
	return &memBlobs{objects: make(map[string][]byte)}
}

func (m *memBlobs) Upload(_ context.Context, key string, r io.Reader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads++
	if m.fail != nil {
		return "", m.fail
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.objects[key] = data
	return "mem://" + key, nil
}

func (m *memBlobs) Download(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("download %s: %w", key, storage.ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memBlobs) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memBlobs) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok, nil
}

func (m *memBlobs) object(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	return data, ok
}

// fakeTranscriber returns a fixed text and records what it was given.
type fakeTranscriber struct {
	text  string
	err   error
	calls int
	paths []string
	audio [][]byte
}

func (f *fakeTranscriber) Name() string                     { return "fake" }
func (f *fakeTranscriber) IsAvailable(context.Context) bool { return true }

func (f *fakeTranscriber) Transcribe(_ context.Context, req transcription.TranscriptionRequest) (*transcription.TranscriptionResponse, error) {
	f.calls++
	f.paths = append(f.paths, req.AudioPath)
	data, err := os.ReadFile(req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("staged audio unreadable: %w", err)
	}
	f.audio = append(f.audio, data)
	if f.err != nil {
		return nil, f.err
	}
	return &transcription.TranscriptionResponse{Text: f.text, Status: "Success"}, nil
}

// failingStore fails UpdateTranscript and delegates everything else.
type failingStore struct {
	Store
}

func (failingStore) UpdateTranscript(context.Context, string, string, int) (*Conversation, error) {
	return nil, errors.New("disk I/O error")
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read temp dir: %v", err)
	}
	if len(entries) != 0 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("staged files leaked: %v", names)
	}
}
