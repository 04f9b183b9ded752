package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Stream delivery errors
const (
	// ErrCodeSerialization indicates a payload could not be rendered to
	// its wire text. Surfaced to the caller of the publish operation.
	ErrCodeSerialization ErrorCode = "SERIALIZATION_FAILURE"
	// ErrCodeWriteFailed indicates a write to a closed or broken
	// connection. Handled per-connection, never surfaced to publishers.
	ErrCodeWriteFailed ErrorCode = "WRITE_FAILED"
	// ErrCodeStreamUnsupported indicates the transport cannot stream.
	ErrCodeStreamUnsupported ErrorCode = "STREAM_UNSUPPORTED"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeServiceUnavailable indicates the service is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
