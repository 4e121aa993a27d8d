package component

import "context"

// HealthStatus is a component's reported state.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// Health is one component's report at a point in time.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Overall folds reports into one status: unhealthy beats degraded beats
// healthy. No reports is healthy.
func Overall(reports []Health) HealthStatus {
	overall := StatusHealthy
	for _, h := range reports {
		switch h.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			overall = StatusDegraded
		}
	}
	return overall
}

// Component is infrastructure the app starts before serving and stops on
// shutdown: the record store, the blob store, the HTTP server.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is the startup summary line for a component.
type Description struct {
	Name    string
	Type    string
	Details string
}

// Describable components contribute a line to the startup summary.
type Describable interface {
	Describe() Description
}
