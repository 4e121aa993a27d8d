// Package errors defines the recorder's application error type.
//
// Every failure that can reach a client is an *AppError carrying a stable
// code, a human-readable message and the HTTP status it maps to. Handlers
// convert errors with ToResponse; anything that is not already an AppError
// is wrapped with Wrap and reported as an internal error.
package errors
