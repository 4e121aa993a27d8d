// Package server is the HTTP server: a Gin engine behind an h2c handler
// with the recorder's middleware stack and system endpoints.
//
// Middleware (server/middleware): Recovery, RequestID, CORS, BodySizeLimit,
// Metrics and RequestLogger run on every route. RateLimit is applied per
// route group by the handlers that need it.
//
// Endpoints (server/endpoint): /, /health, /info and /metrics.
package server
