package transcription

import (
	"context"

	"github.com/kbukum/recorder/provider"
)

// Provider is implemented by speech-to-text backends.
type Provider interface {
	provider.Provider

	// Transcribe recognizes the audio at req.AudioPath as a single utterance.
	Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error)
}

// TranscriptionRequest holds parameters for a transcription call.
type TranscriptionRequest struct {
	// AudioPath is a local file that stays readable for the whole call.
	AudioPath string `json:"audio_path"`
	// ContentType is the declared media type of the audio, if known.
	ContentType string `json:"content_type,omitempty"`
	// Language overrides the configured recognition language.
	Language string `json:"language,omitempty"`
}

// TranscriptionResponse holds the result of a transcription call.
type TranscriptionResponse struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
	// Status is the backend's own recognition status, for diagnostics.
	Status string `json:"status,omitempty"`
}

// NoSpeech reports whether the backend recognized nothing.
func (r *TranscriptionResponse) NoSpeech() bool {
	return r == nil || r.Text == ""
}
