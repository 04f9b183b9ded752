// Package endpoint provides the built-in HTTP endpoints: /health, /info,
// and /metrics.
package endpoint
