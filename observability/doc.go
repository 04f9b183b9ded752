// Package observability wires OpenTelemetry metrics and tracing for
// pushkit. It exposes stream-level instruments (active connections,
// published events, write failures) used by the sse package.
package observability
