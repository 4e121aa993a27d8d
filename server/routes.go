package server

import (
	"sort"
	"strings"
)

var systemPaths = map[string]bool{
	"/":        true,
	"/health":  true,
	"/info":    true,
	"/metrics": true,
}

// Route is a registered route as shown in the startup summary.
type Route struct {
	Method  string
	Path    string
	Handler string
	System  bool
}

// Routes lists registered routes, API routes first, then system routes.
func (s *Server) Routes() []Route {
	registered := s.engine.Routes()
	routes := make([]Route, 0, len(registered))
	for _, r := range registered {
		routes = append(routes, Route{
			Method:  r.Method,
			Path:    r.Path,
			Handler: handlerName(r.Handler),
			System:  systemPaths[r.Path],
		})
	}
	sort.SliceStable(routes, func(i, j int) bool {
		if routes[i].System != routes[j].System {
			return !routes[i].System
		}
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return methodOrder(routes[i].Method) < methodOrder(routes[j].Method)
	})
	return routes
}

// handlerName shortens Gin's handler path, e.g.
// "github.com/x/recorder/conversation.(*Handler).Create-fm" to "Handler.Create".
func handlerName(full string) string {
	name := strings.TrimSuffix(full, "-fm")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.NewReplacer("(*", "", ")", "").Replace(name)

	parts := strings.Split(name, ".")
	for len(parts) > 1 && strings.HasPrefix(parts[len(parts)-1], "func") {
		parts = parts[:len(parts)-1]
	}
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.Join(parts, ".")
}

func methodOrder(method string) int {
	switch method {
	case "GET":
		return 0
	case "POST":
		return 1
	case "PUT":
		return 2
	case "PATCH":
		return 3
	case "DELETE":
		return 4
	default:
		return 5
	}
}
