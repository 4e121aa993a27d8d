package conversation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"strings"
	"time"

	apperrors "github.com/kbukum/recorder/errors"
	"github.com/kbukum/recorder/logger"
	"github.com/kbukum/recorder/observability"
	"github.com/kbukum/recorder/storage"
	"github.com/kbukum/recorder/transcription"
)

// DefaultSuffix names staged audio whose type is unknown.
const DefaultSuffix = ".webm"

var suffixByType = map[string]string{
	"audio/webm":      ".webm",
	"video/webm":      ".webm",
	"audio/wav":       ".wav",
	"audio/wave":      ".wav",
	"audio/x-wav":     ".wav",
	"audio/vnd.wave":  ".wav",
	"audio/ogg":       ".ogg",
	"application/ogg": ".ogg",
	"audio/mpeg":      ".mp3",
	"audio/mp3":       ".mp3",
	"audio/mp4":       ".m4a",
	"audio/x-m4a":     ".m4a",
	"audio/m4a":       ".m4a",
	"video/mp4":       ".mp4",
	"audio/flac":      ".flac",
	"audio/x-flac":    ".flac",
}

// SuffixFor maps a declared content type to a file suffix. Parameters such
// as codecs are ignored; unknown or missing types get DefaultSuffix.
func SuffixFor(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return DefaultSuffix
	}
	if s, ok := suffixByType[strings.ToLower(mt)]; ok {
		return s
	}
	return DefaultSuffix
}

// BlobKey is where a conversation's audio lives in the blob store. There is
// one key per conversation so a re-upload overwrites the previous audio.
func BlobKey(id string) string {
	return id + "/recording" + DefaultSuffix
}

// EstimateDuration is floor(words/2): about two spoken words per second.
func EstimateDuration(transcript string) int {
	return len(strings.Fields(transcript)) / 2
}

// Ingester runs the audio ingestion pipeline.
type Ingester struct {
	store       Store
	blobs       storage.Storage
	transcriber transcription.Provider
	log         *logger.Logger
	metrics     *observability.Metrics
	tempDir     string
	backend     string
}

// IngesterOption configures an Ingester.
type IngesterOption func(*Ingester)

// WithMetrics records ingest outcomes on m.
func WithMetrics(m *observability.Metrics) IngesterOption {
	return func(i *Ingester) { i.metrics = m }
}

// WithTempDir stages uploads under dir instead of os.TempDir.
func WithTempDir(dir string) IngesterOption {
	return func(i *Ingester) { i.tempDir = dir }
}

// WithBlobBackend names the blob backend in metrics.
func WithBlobBackend(name string) IngesterOption {
	return func(i *Ingester) { i.backend = name }
}

func NewIngester(store Store, blobs storage.Storage, transcriber transcription.Provider, log *logger.Logger, opts ...IngesterOption) *Ingester {
	i := &Ingester{
		store:       store,
		blobs:       blobs,
		transcriber: transcriber,
		log:         log.WithComponent("ingest"),
		backend:     "unknown",
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Ingest attaches audio to conversation id and commits its transcript.
//
// The conversation must exist. A blob upload failure is logged and does not
// fail the call. A transcription or commit failure does, and the record is
// left as it was. Concurrent calls for the same id are not serialized; the
// last commit wins. Once started, the call is not cancelled with ctx;
// provider and store clients enforce their own timeouts.
func (i *Ingester) Ingest(ctx context.Context, id string, audio io.Reader, contentType string) (_ *Conversation, err error) {
	start := time.Now()
	ctx = context.WithoutCancel(ctx)
	ctx, span := observability.StartSpan(ctx, "conversation.ingest")
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrConversationID, id)
	observability.SetSpanAttribute(ctx, observability.AttrContentType, contentType)

	log := i.log.WithContext(ctx).WithFields(logger.Fields(logger.FieldConversationID, id))
	outcome := observability.OutcomeFailed
	var size int64
	defer func() {
		switch {
		case apperrors.HasCode(err, apperrors.ErrCodeNotFound):
			log.Debug("ingest for unknown conversation")
		case err != nil:
			observability.SetSpanError(ctx, err)
			log.Error("ingest failed", logger.Fields(logger.FieldError, err.Error()))
		}
		if i.metrics != nil {
			i.metrics.RecordIngest(ctx, outcome, size, time.Since(start))
		}
	}()

	if _, err := i.store.GetByID(ctx, id); err != nil {
		return nil, err
	}

	staged, err := stage(i.tempDir, audio, SuffixFor(contentType))
	if err != nil {
		return nil, apperrors.StagingFailed(err)
	}
	defer staged.release(log)
	size = staged.size
	observability.SetSpanAttribute(ctx, observability.AttrAudioBytes, size)
	log.Debug("audio staged", logger.Fields("path", staged.path, "bytes", size))

	i.upload(ctx, log, id, staged.path)

	resp, err := i.transcriber.Transcribe(ctx, transcription.TranscriptionRequest{
		AudioPath:   staged.path,
		ContentType: contentType,
	})
	if err != nil {
		return nil, transcriptionError(i.transcriber.Name(), err)
	}

	text := ""
	if !resp.NoSpeech() {
		text = resp.Text
	}
	duration := EstimateDuration(text)
	observability.SetSpanAttribute(ctx, observability.AttrWordCount, len(strings.Fields(text)))
	log.Debug("audio transcribed", logger.Fields("words", len(strings.Fields(text)), "duration", duration))

	conv, err := i.store.UpdateTranscript(ctx, id, text, duration)
	if err != nil {
		return nil, err
	}

	outcome = observability.OutcomeTranscribed
	if text == "" {
		outcome = observability.OutcomeNoSpeech
	}
	log.Info("audio ingested", logger.Fields(
		"bytes", size,
		"duration", duration,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return conv, nil
}

// upload stores the staged audio. Failures are logged and counted only.
func (i *Ingester) upload(ctx context.Context, log *logger.Logger, id, path string) {
	key := BlobKey(id)
	observability.SetSpanAttribute(ctx, observability.AttrBlobKey, key)

	err := func() error {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = i.blobs.Upload(ctx, key, f)
		return err
	}()
	if err != nil {
		log.Warn("blob upload failed, continuing without stored audio", logger.Fields(
			logger.FieldKey, key,
			logger.FieldError, err.Error(),
		))
		if i.metrics != nil {
			i.metrics.RecordBlobFailure(ctx, i.backend)
		}
		return
	}
	log.Debug("audio uploaded", logger.Fields(logger.FieldKey, key))
}

func transcriptionError(providerName string, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code == apperrors.ErrCodeTranscriptionFailed {
		return appErr
	}
	return apperrors.TranscriptionFailed(providerName, err)
}

// stagedAudio is a temporary file owned by one Ingest call.
type stagedAudio struct {
	path string
	size int64
}

func stage(dir string, audio io.Reader, suffix string) (*stagedAudio, error) {
	f, err := os.CreateTemp(dir, "recording-*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	n, copyErr := io.Copy(f, audio)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	return &stagedAudio{path: f.Name(), size: n}, nil
}

func (s *stagedAudio) release(log *logger.Logger) {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("failed to remove staged audio", logger.Fields("path", s.path, logger.FieldError, err.Error()))
	}
}
