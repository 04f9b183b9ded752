// Package component defines the lifecycle contract for pushkit
// infrastructure pieces (hub, server) and a registry that starts and
// stops them in order.
package component
