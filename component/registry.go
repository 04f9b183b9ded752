package component

import (
	"context"
	"fmt"
	"sync"

	"github.com/pushkit/pushkit/logger"
)

// Registry manages a set of components and their lifecycle order:
// components start in registration order and stop in reverse.
type Registry struct {
	mu         sync.Mutex
	components []Component
	started    []Component
}

// NewRegistry creates an empty component registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a component. Registration order determines start order.
func (r *Registry) Register(c Component) {
	r.mu.Lock()
	r.components = append(r.components, c)
	r.mu.Unlock()
}

// StartAll starts every registered component in order. On the first
// failure the already started components are stopped in reverse and the
// failure is returned.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.components {
		if err := c.Start(ctx); err != nil {
			logger.Error("Component failed to start", logger.Fields(
				logger.FieldComponent, c.Name(),
				logger.FieldError, err.Error(),
			))
			r.stopStartedLocked(ctx)
			return fmt.Errorf("starting component %s: %w", c.Name(), err)
		}
		r.started = append(r.started, c)
		logger.Debug("Component started", logger.Fields(
			logger.FieldComponent, c.Name(),
		))
	}
	return nil
}

// StopAll stops every started component in reverse order. Stop errors are
// logged, not returned; shutdown continues past them.
func (r *Registry) StopAll(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopStartedLocked(ctx)
}

func (r *Registry) stopStartedLocked(ctx context.Context) {
	for i := len(r.started) - 1; i >= 0; i-- {
		c := r.started[i]
		if err := c.Stop(ctx); err != nil {
			logger.Warn("Component failed to stop", logger.Fields(
				logger.FieldComponent, c.Name(),
				logger.FieldError, err.Error(),
			))
		}
	}
	r.started = nil
}

// HealthAll returns the health of every registered component.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.Lock()
	components := make([]Component, len(r.components))
	copy(components, r.components)
	r.mu.Unlock()

	healths := make([]Health, 0, len(components))
	for _, c := range components {
		healths = append(healths, c.Health(ctx))
	}
	return healths
}

// Descriptions returns the startup summaries of components implementing
// Describable.
func (r *Registry) Descriptions() []Description {
	r.mu.Lock()
	defer r.mu.Unlock()

	var descs []Description
	for _, c := range r.components {
		if d, ok := c.(Describable); ok {
			descs = append(descs, d.Describe())
		}
	}
	return descs
}
