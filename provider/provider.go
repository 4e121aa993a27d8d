package provider

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Provider is the base interface all providers implement.
type Provider interface {
	Name() string
	IsAvailable(ctx context.Context) bool
}

// RequestResponse is a provider with one input and one output per call.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (O, error)
}

// Factory creates a provider from a loosely typed config map, as decoded
// from a YAML section or assembled from environment variables.
type Factory[T Provider] func(cfg map[string]any) (T, error)

// String reads a string option from cfg. Non-string values are formatted.
func String(cfg map[string]any, key string) string {
	v, ok := cfg[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Duration reads a duration option given as time.Duration, a
// time.ParseDuration string, or a number of seconds.
func Duration(cfg map[string]any, key string) (time.Duration, error) {
	switch v := cfg[key].(type) {
	case nil:
		return 0, nil
	case time.Duration:
		return v, nil
	case int:
		return time.Duration(v) * time.Second, nil
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	case string:
		if v == "" {
			return 0, nil
		}
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second, nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("option %s: %w", key, err)
		}
		return d, nil
	default:
		return 0, fmt.Errorf("option %s: unsupported type %T", key, v)
	}
}
