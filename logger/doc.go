// Package logger is the structured logging layer of the recorder service.
//
// It wraps zerolog behind a small API that takes message plus field maps:
//
//	log := logger.Get("ingest")
//	log.Info("transcript committed", logger.Fields("conversation_id", id, "words", n))
//
// The process-wide logger is configured once with Init from the "logging"
// section of the service configuration. Packages obtain component-tagged
// loggers through Get or WithComponent.
package logger
