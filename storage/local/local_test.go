package local

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/recorder/storage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(filepath.Join(t.TempDir(), "conversations"), nil)
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	return s
}

func TestUploadOverwritesAndDownloads(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	loc, err := s.Upload(ctx, "abc/recording.webm", strings.NewReader("first"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(loc, "file://") || !strings.HasSuffix(loc, "abc/recording.webm") {
		t.Errorf("locator = %q", loc)
	}
	if _, err := s.Upload(ctx, "abc/recording.webm", strings.NewReader("second")); err != nil {
		t.Fatalf("second Upload: %v", err)
	}

	rc, err := s.Download(ctx, "abc/recording.webm")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}
}

func TestDownloadMissing(t *testing.T) {
	s := newTestStorage(t)
	_, err := s.Download(context.Background(), "nope/recording.webm")
	if !storage.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRejectsEscapingKeys(t *testing.T) {
	s := newTestStorage(t)
	if _, err := s.Upload(context.Background(), "../outside.webm", strings.NewReader("x")); err == nil {
		t.Fatal("expected error for key outside root")
	}
}

func TestExistsDelete(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	for _, k := range []string{"a/recording.webm", "a/recording.wav", "b/recording.webm"} {
		if _, err := s.Upload(ctx, k, strings.NewReader(k)); err != nil {
			t.Fatalf("Upload %s: %v", k, err)
		}
	}

	if ok, err := s.Exists(ctx, "b/recording.webm"); err != nil || !ok {
		t.Errorf("Exists = %v, %v", ok, err)
	}

	if err := s.Delete(ctx, "a/recording.webm"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "a/recording.webm"); err != nil {
		t.Errorf("deleting a missing key should succeed: %v", err)
	}
	ok, err := s.Exists(ctx, "a/recording.webm")
	if err != nil || ok {
		t.Errorf("Exists after delete = %v, %v", ok, err)
	}
}

func TestNoPendingFilesLeft(t *testing.T) {
	s := newTestStorage(t)
	if _, err := s.Upload(context.Background(), "c/recording.webm", strings.NewReader("data")); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(s.root, "c"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the committed file, got %d entries", len(entries))
	}
}
