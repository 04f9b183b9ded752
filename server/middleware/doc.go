// Package middleware provides the Gin middleware stack for the pushkit
// server: panic recovery, request IDs, CORS, request logging, and
// per-request tracing.
package middleware
