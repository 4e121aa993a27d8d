package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned (wrapped) by Download when no object exists at the key.
var ErrNotFound = errors.New("storage: object not found")

// Storage is an object store addressed by key.
type Storage interface {
	// Upload writes the reader to path, replacing any existing object, and
	// returns a locator for the stored object.
	Upload(ctx context.Context, path string, reader io.Reader) (string, error)

	// Download returns a reader for the object at path. The caller closes it.
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object at path. Missing objects are not an error.
	Delete(ctx context.Context, path string) error

	Exists(ctx context.Context, path string) (bool, error)
}

// IsNotFound reports whether err means the object does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
