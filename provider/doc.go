// Package provider holds the generic plumbing behind the recorder's
// swappable backends: a named factory registry, the RequestResponse call
// shape, and middleware that adds logging, tracing and metrics around a call.
//
// Backend packages register a Factory under a name; startup code creates the
// configured backend by that name and wraps it:
//
//	rr := provider.Chain(
//	    provider.WithTracing[Req, Resp]("transcription"),
//	    provider.WithLogging[Req, Resp](log),
//	)(backend)
package provider
