package conversation

import (
	"bufio"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/kbukum/recorder/errors"
	"github.com/kbukum/recorder/server"
)

// AudioField is the multipart field carrying the recording.
const AudioField = "audio_file"

const (
	msgCreated   = "Conversation created successfully"
	msgProcessed = "Audio processed successfully"
	msgDeleted   = "Conversation deleted successfully"
)

// Handler serves /api/conversations.
type Handler struct {
	svc     *Service
	uploads *prometheus.CounterVec
}

// NewHandler registers its upload counter with reg.
func NewHandler(svc *Service, reg prometheus.Registerer) *Handler {
	return &Handler{
		svc: svc,
		uploads: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "recorder",
			Name:      "audio_uploads_total",
			Help:      "Audio uploads by result code.",
		}, []string{"result"}),
	}
}

// Register mounts the routes on r. uploadMiddleware runs only in front of
// the audio upload, e.g. a rate limiter.
func (h *Handler) Register(r gin.IRouter, uploadMiddleware ...gin.HandlerFunc) {
	g := r.Group("/api/conversations")
	for _, root := range []string{"", "/"} {
		g.GET(root, h.List)
		g.POST(root, h.Create)
	}
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Delete)
	g.GET("/:id/audio", h.Audio)
	g.POST("/:id/audio", append(uploadMiddleware, h.Upload)...)
}

func (h *Handler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, list, "")
}

func (h *Handler) Get(c *gin.Context) {
	conv, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, conv, "")
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, bodyError(err, "body", "request body must be JSON with a title"))
		return
	}
	conv, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, conv, msgCreated)
}

func (h *Handler) Delete(c *gin.Context) {
	conv, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, conv, msgDeleted)
}

// Upload streams the audio_file part straight into the pipeline.
func (h *Handler) Upload(c *gin.Context) {
	conv, err := h.upload(c)
	if err != nil {
		code := string(apperrors.ErrCodeInternal)
		if appErr, ok := apperrors.AsAppError(err); ok {
			code = string(appErr.Code)
		}
		h.uploads.WithLabelValues(strings.ToLower(code)).Inc()
		server.RespondWithError(c, err)
		return
	}
	h.uploads.WithLabelValues("ok").Inc()
	server.RespondOK(c, conv, msgProcessed)
}

func (h *Handler) upload(c *gin.Context) (*Conversation, error) {
	mr, err := c.Request.MultipartReader()
	if err != nil {
		return nil, apperrors.InvalidInput(AudioField, "expected a multipart/form-data upload")
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, apperrors.MissingField(AudioField)
		}
		if err != nil {
			return nil, bodyError(err, AudioField, "malformed multipart body")
		}
		if part.FormName() != AudioField {
			_ = part.Close()
			continue
		}
		conv, err := h.svc.Ingest(c.Request.Context(), c.Param("id"), part, part.Header.Get("Content-Type"))
		_ = part.Close()
		if err != nil {
			return nil, bodyError(err, AudioField, "")
		}
		return conv, nil
	}
}

// Audio streams the stored recording.
func (h *Handler) Audio(c *gin.Context) {
	rc, err := h.svc.Audio(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	defer rc.Close()

	br := bufio.NewReader(rc)
	head, _ := br.Peek(512)
	contentType := http.DetectContentType(head)
	if contentType == "application/octet-stream" {
		contentType = "audio/webm"
	}
	c.DataFromReader(http.StatusOK, -1, contentType, br, map[string]string{
		"Content-Disposition": `inline; filename="recording.webm"`,
	})
}

// bodyError maps an oversized body to 413. Other errors become
// INVALID_INPUT with reason, or pass through when reason is empty.
func bodyError(err error, field, reason string) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return apperrors.PayloadTooLarge(mbe.Limit)
	}
	if reason == "" {
		return err
	}
	return apperrors.InvalidInput(field, reason).WithCause(err)
}
