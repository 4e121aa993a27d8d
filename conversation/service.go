package conversation

import (
	"context"
	"io"
	"strings"

	apperrors "github.com/kbukum/recorder/errors"
	"github.com/kbukum/recorder/logger"
	"github.com/kbukum/recorder/storage"
	"github.com/kbukum/recorder/validation"
)

// Service is the conversation use-case layer behind the HTTP handler.
type Service struct {
	store    Store
	ingester *Ingester
	blobs    storage.Storage
	log      *logger.Logger
}

func NewService(store Store, ingester *Ingester, blobs storage.Storage, log *logger.Logger) *Service {
	return &Service{store: store, ingester: ingester, blobs: blobs, log: log.WithComponent("conversation")}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Conversation, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	c, err := s.store.Create(ctx, strings.TrimSpace(req.Title))
	if err != nil {
		return nil, err
	}
	s.log.WithContext(ctx).Info("conversation created", logger.Fields(logger.FieldConversationID, c.ID))
	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Conversation, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Conversation, error) {
	return s.store.List(ctx)
}

// Delete removes the record only; stored audio is kept.
func (s *Service) Delete(ctx context.Context, id string) (*Conversation, error) {
	c, err := s.store.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.WithContext(ctx).Info("conversation deleted", logger.Fields(logger.FieldConversationID, id))
	return c, nil
}

// Ingest runs the ingestion pipeline for id.
func (s *Service) Ingest(ctx context.Context, id string, audio io.Reader, contentType string) (*Conversation, error) {
	return s.ingester.Ingest(ctx, id, audio, contentType)
}

// Audio opens the stored recording of id. The caller closes it.
func (s *Service) Audio(ctx context.Context, id string) (io.ReadCloser, error) {
	if _, err := s.store.GetByID(ctx, id); err != nil {
		return nil, err
	}
	rc, err := s.blobs.Download(ctx, BlobKey(id))
	if storage.IsNotFound(err) {
		return nil, apperrors.NotFound("recording", id)
	}
	if err != nil {
		return nil, apperrors.StorageUnavailable("download", err)
	}
	return rc, nil
}
