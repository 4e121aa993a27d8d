// Package component defines the lifecycle contract shared by the recorder's
// infrastructure pieces (database, blob store, speech backend, HTTP server)
// and a registry that starts them in order and stops them in reverse.
package component
