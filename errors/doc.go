// Package errors provides unified error handling for pushkit. It
// implements structured error types with machine-readable codes, HTTP
// status mapping, and retryable detection, with a response shape
// following RFC 7807.
package errors
