package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kbukum/recorder/component"
)

// RouteInfo is one HTTP route in the summary.
type RouteInfo struct {
	Method  string
	Path    string
	Handler string
}

// Summary prints what a service started with.
type Summary struct {
	serviceName     string
	version         string
	out             io.Writer
	startupDuration time.Duration
	routes          []RouteInfo
}

// NewSummary writes to out, or stdout when out is nil.
func NewSummary(serviceName, version string, out io.Writer) *Summary {
	if out == nil {
		out = os.Stdout
	}
	return &Summary{serviceName: serviceName, version: version, out: out}
}

func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackRoute records an HTTP route.
func (s *Summary) TrackRoute(method, path, handler string) {
	s.routes = append(s.routes, RouteInfo{Method: method, Path: path, Handler: handler})
}

// Display writes infrastructure descriptions, routes and live health.
func (s *Summary) Display(ctx context.Context, registry *component.Registry) {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s %s started in %.2fs\n", s.serviceName, s.version, s.startupDuration.Seconds())

	if registry != nil {
		if descs := registry.Descriptions(); len(descs) > 0 {
			b.WriteString("\nInfrastructure\n")
			for i, d := range descs {
				fmt.Fprintf(&b, "   %s %s [%s]: %s\n", branch(i, len(descs)), d.Name, d.Type, d.Details)
			}
		}
	}

	if len(s.routes) > 0 {
		fmt.Fprintf(&b, "\nRoutes (%d)\n", len(s.routes))
		for i, r := range s.routes {
			fmt.Fprintf(&b, "   %s %-7s %s -> %s\n", branch(i, len(s.routes)), r.Method, r.Path, r.Handler)
		}
	}

	if registry != nil {
		if results := registry.HealthAll(ctx); len(results) > 0 {
			b.WriteString("\nHealth\n")
			for i, h := range results {
				msg := ""
				if h.Message != "" {
					msg = ": " + h.Message
				}
				fmt.Fprintf(&b, "   %s %s %s %s%s\n", branch(i, len(results)), healthIcon(h.Status), h.Name, h.Status, msg)
			}
		}
	}

	b.WriteString("\n")
	_, _ = io.WriteString(s.out, b.String())
}

func branch(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
