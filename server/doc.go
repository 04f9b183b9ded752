// Package server provides the HTTP server for pushkit using Gin with
// HTTP/2 cleartext (h2c) support, so streams can also run over protocol
// versions with implicit persistent connections.
//
// The server follows the component pattern with lifecycle management,
// health endpoints, and configurable middleware.
//
// # Middleware
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: request ID generation and propagation
//   - CORS: cross-origin resource sharing configuration
//   - RequestLogger: request logging with duration tracking
//   - Tracing: per-request OpenTelemetry spans
//
// # Endpoints
//
//   - /health: component health aggregation
//   - /info: service and build information
//   - /metrics: runtime memory and goroutine metrics
package server
