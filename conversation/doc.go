// Package conversation holds the recorder's domain: the Conversation model,
// its gorm repository, the audio ingestion pipeline and the HTTP handler.
//
// Ingestion stages the upload to a temporary file, uploads it to the blob
// store, transcribes it, estimates a duration from the word count and
// commits content and duration in a single update. A failed blob upload is
// logged and skipped; a failed transcription or commit fails the call and
// leaves the record untouched. The staged file is removed on every path.
package conversation
