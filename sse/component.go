package sse

import (
	"context"
	"fmt"

	"github.com/pushkit/pushkit/component"
)

// Component wraps a Hub as a lifecycle-managed component. Register it with
// the component registry so teardown on shutdown is handled automatically.
type Component struct {
	hub  *Hub
	path string
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates an SSE component with a fresh Hub at the given
// stream path.
func NewComponent(path string, opts ...Option) *Component {
	return &Component{
		hub:  NewHub(opts...),
		path: path,
	}
}

// Hub returns the underlying Hub for publishing.
func (c *Component) Hub() *Hub { return c.hub }

// Name returns the component name.
func (c *Component) Name() string { return "sse" }

// Start is a no-op: the hub has no background loop, delivery happens
// synchronously on the publisher's goroutine.
func (c *Component) Start(_ context.Context) error { return nil }

// Stop tears down all active connections.
func (c *Component) Stop(_ context.Context) error {
	c.hub.Close()
	return nil
}

// Health reports the active connection and listener counts.
func (c *Component) Health(_ context.Context) component.Health {
	return component.Health{
		Name:   c.Name(),
		Status: component.StatusHealthy,
		Message: fmt.Sprintf("%d connections, %d listeners",
			c.hub.ConnectionCount(), c.hub.ListenerCount()),
	}
}

// Describe returns summary info for the startup display.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "SSE Hub",
		Type:    "sse",
		Details: fmt.Sprintf("Path: %s", c.path),
	}
}
