package transcription

import (
	"context"

	"github.com/kbukum/recorder/provider"
)

// Executor exposes p as a RequestResponse so provider middleware applies.
func Executor(p Provider) provider.RequestResponse[TranscriptionRequest, *TranscriptionResponse] {
	return &executor{p: p}
}

type executor struct {
	p Provider
}

func (e *executor) Name() string                         { return e.p.Name() }
func (e *executor) IsAvailable(ctx context.Context) bool { return e.p.IsAvailable(ctx) }

func (e *executor) Execute(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error) {
	return e.p.Transcribe(ctx, req)
}

// Wrap returns p with middlewares applied, the first outermost.
func Wrap(p Provider, middlewares ...provider.Middleware[TranscriptionRequest, *TranscriptionResponse]) Provider {
	if len(middlewares) == 0 {
		return p
	}
	return &wrapped{rr: provider.Chain(middlewares...)(Executor(p))}
}

type wrapped struct {
	rr provider.RequestResponse[TranscriptionRequest, *TranscriptionResponse]
}

func (w *wrapped) Name() string                         { return w.rr.Name() }
func (w *wrapped) IsAvailable(ctx context.Context) bool { return w.rr.IsAvailable(ctx) }

func (w *wrapped) Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error) {
	return w.rr.Execute(ctx, req)
}
