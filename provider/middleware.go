package provider

import (
	"context"
	"time"

	"github.com/kbukum/recorder/logger"
	"github.com/kbukum/recorder/observability"
)

// Middleware wraps a RequestResponse with cross-cutting behavior.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain composes middlewares; the first is outermost.
//
// Chain(a, b, c)(p) is a(b(c(p))).
func Chain[I, O any](middlewares ...Middleware[I, O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		return inner
	}
}

// intercepted keeps the wrapped provider's identity and replaces Execute.
type intercepted[I, O any] struct {
	RequestResponse[I, O]
	call func(ctx context.Context, input I) (O, error)
}

func (w *intercepted[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return w.call(ctx, input)
}

func intercept[I, O any](next RequestResponse[I, O], call func(context.Context, I) (O, error)) RequestResponse[I, O] {
	return &intercepted[I, O]{RequestResponse: next, call: call}
}

// WithLogging logs each call with its duration. Failures log at error.
func WithLogging[I, O any](log *logger.Logger) Middleware[I, O] {
	return func(next RequestResponse[I, O]) RequestResponse[I, O] {
		return intercept(next, func(ctx context.Context, input I) (O, error) {
			start := time.Now()
			out, err := next.Execute(ctx, input)

			fields := logger.DurationFields("execute", time.Since(start))
			fields[logger.FieldProvider] = next.Name()
			if err != nil {
				fields[logger.FieldError] = err.Error()
				log.WithContext(ctx).Error("provider call failed", fields)
			} else {
				log.WithContext(ctx).Debug("provider call ok", fields)
			}
			return out, err
		})
	}
}

// WithTracing opens a span named "{scope}.{provider}" around each call.
func WithTracing[I, O any](scope string) Middleware[I, O] {
	return func(next RequestResponse[I, O]) RequestResponse[I, O] {
		spanName := scope + "." + next.Name()
		return intercept(next, func(ctx context.Context, input I) (O, error) {
			ctx, span := observability.StartSpan(ctx, spanName)
			defer span.End()
			observability.SetSpanAttribute(ctx, observability.AttrProvider, next.Name())

			out, err := next.Execute(ctx, input)
			if err != nil {
				observability.SetSpanError(ctx, err)
			}
			return out, err
		})
	}
}

// WithMetrics records call latency and failures per provider. A nil metrics
// set leaves the provider unwrapped.
func WithMetrics[I, O any](metrics *observability.Metrics) Middleware[I, O] {
	return func(next RequestResponse[I, O]) RequestResponse[I, O] {
		if metrics == nil {
			return next
		}
		return intercept(next, func(ctx context.Context, input I) (O, error) {
			start := time.Now()
			out, err := next.Execute(ctx, input)
			metrics.RecordProviderCall(ctx, next.Name(), err, time.Since(start))
			return out, err
		})
	}
}
