package errors

// ErrorCode is a machine-readable error code.
type ErrorCode string

// Client errors.
const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	ErrCodeTooLarge     ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrCodeRateLimited  ErrorCode = "RATE_LIMITED"
)

// Ingestion failures.
const (
	// ErrCodeStagingFailed means the upload could not be written to local
	// temporary storage. Nothing remote was touched.
	ErrCodeStagingFailed ErrorCode = "STAGING_FAILED"
	// ErrCodeStorageUnavailable means the blob store rejected a write. Ingest
	// only logs this code.
	ErrCodeStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"
	// ErrCodeTranscriptionFailed means the speech backend returned a hard error.
	ErrCodeTranscriptionFailed ErrorCode = "TRANSCRIPTION_FAILED"
	// ErrCodePersistenceFailed means the record store rejected a write.
	ErrCodePersistenceFailed ErrorCode = "PERSISTENCE_FAILED"
)

// Infrastructure errors.
const (
	ErrCodeConfiguration      ErrorCode = "CONFIGURATION_ERROR"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeTimeout            ErrorCode = "TIMEOUT"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeStorageUnavailable: true,
	ErrCodeServiceUnavailable: true,
	ErrCodeTimeout:            true,
	ErrCodeRateLimited:        true,
}

// IsRetryableCode reports whether a caller may retry an operation that
// failed with code. The service itself never retries.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
