// Package azure stores blobs in an Azure Storage container.
package azure

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/kbukum/recorder/logger"
	"github.com/kbukum/recorder/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderAzure, func(ctx context.Context, cfg storage.Config, log *logger.Logger) (storage.Storage, error) {
		s, err := NewStorage(cfg.ConnectionString, cfg.Container, log)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureContainer(ctx); err != nil {
			return nil, err
		}
		return s, nil
	})
}

// Storage implements storage.Storage on one container.
type Storage struct {
	client    *azblob.Client
	container string
	log       *logger.Logger
}

func NewStorage(connectionString, container string, log *logger.Logger) (*Storage, error) {
	if connectionString == "" {
		return nil, fmt.Errorf("storage: azure connection string is empty")
	}
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: azure client: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Storage{client: client, container: container, log: log}, nil
}

// EnsureContainer creates the container. An existing container is not an error.
func (s *Storage) EnsureContainer(ctx context.Context) error {
	_, err := s.client.CreateContainer(ctx, s.container, nil)
	if err == nil {
		s.log.Info("container created", map[string]interface{}{"container": s.container})
		return nil
	}
	if bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return nil
	}
	return fmt.Errorf("storage: azure create container: %w", err)
}

// Upload buffers the payload and writes it as a single block blob, replacing
// any existing blob at key.
func (s *Storage) Upload(ctx context.Context, key string, reader io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return "", fmt.Errorf("storage: azure read payload: %w", err)
	}
	if _, err := s.client.UploadBuffer(ctx, s.container, key, buf.Bytes(), nil); err != nil {
		return "", fmt.Errorf("storage: azure upload: %w", err)
	}
	return s.blobURL(key), nil
}

func (s *Storage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
		}
		return nil, fmt.Errorf("storage: azure download: %w", err)
	}
	return resp.Body, nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteBlob(ctx, s.container, key, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.BlobNotFound) {
		return fmt.Errorf("storage: azure delete: %w", err)
	}
	return nil
}

func (s *Storage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.blobClient(key).GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("storage: azure get properties: %w", err)
	}
	return true, nil
}

func (s *Storage) blobClient(key string) *blob.Client {
	return s.client.ServiceClient().NewContainerClient(s.container).NewBlobClient(key)
}

// blobURL appends the key unescaped so the locator keeps the key's path
// segments; the SDK's blob URL escapes the slash.
func (s *Storage) blobURL(key string) string {
	base := s.client.ServiceClient().NewContainerClient(s.container).URL()
	return strings.TrimRight(base, "/") + "/" + key
}

var _ storage.Storage = (*Storage)(nil)
