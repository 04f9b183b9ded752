package sse

import (
	"io"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/pushkit/pushkit/errors"
	"github.com/pushkit/pushkit/logger"
)

// Identity is the optional identity triple extracted once per connection.
// An empty field means the connection did not supply that identity and can
// never match a targeted send on it.
type Identity struct {
	Channel string `json:"channel,omitempty"`
	Client  string `json:"client,omitempty"`
	Browser string `json:"browser,omitempty"`
}

func (id Identity) logFields() map[string]interface{} {
	fields := make(map[string]interface{}, 3)
	if id.Channel != "" {
		fields[logger.FieldChannel] = id.Channel
	}
	if id.Client != "" {
		fields[logger.FieldClient] = id.Client
	}
	if id.Browser != "" {
		fields[logger.FieldBrowser] = id.Browser
	}
	return fields
}

// Flusher is the subset of http.Flusher a connection needs. Tests supply
// in-memory implementations.
type Flusher interface {
	Flush()
}

// connection is one long-lived client stream. It carries the explicit
// per-connection context the registry listeners operate on: the identity
// triple, the output handle, and the local id counter.
type connection struct {
	identity Identity
	w        io.Writer
	flusher  Flusher
	hub      *Hub

	mu     sync.Mutex // orders writes; guards nextID
	nextID uint64

	subs      []*subscription
	closed    atomic.Bool
	closeOnce sync.Once
	done      chan struct{}
}

// writeEvent frames and flushes a single event. An explicit id overrides
// auto-assignment without advancing the counter. A write failure tears the
// connection down; it never reaches the publisher.
func (c *connection) writeEvent(ev *outbound) {
	if c.closed.Load() {
		return
	}

	c.mu.Lock()
	id := ev.id
	if id == "" {
		id = strconv.FormatUint(c.nextID, 10)
		c.nextID++
	}
	err := c.write(appendFrame(nil, id, ev.name, ev.data))
	c.mu.Unlock()

	if err != nil {
		c.failWrite(err)
	}
}

// writeBatch frames an ordered sequence of payloads as one concatenated
// buffer, each item with its own auto-assigned id, then performs a single
// write+flush for the whole batch.
func (c *connection) writeBatch(items [][]byte) {
	if c.closed.Load() || len(items) == 0 {
		return
	}

	c.mu.Lock()
	var buf []byte
	for _, data := range items {
		buf = appendFrame(buf, strconv.FormatUint(c.nextID, 10), "", data)
		c.nextID++
	}
	err := c.write(buf)
	c.mu.Unlock()

	if err != nil {
		c.failWrite(err)
	}
}

// writeComment flushes an SSE comment line. Comments carry no id and do
// not advance the counter.
func (c *connection) writeComment(text string) {
	if c.closed.Load() {
		return
	}

	c.mu.Lock()
	err := c.write(appendComment(nil, text))
	c.mu.Unlock()

	if err != nil {
		c.failWrite(err)
	}
}

// write must be called with c.mu held.
func (c *connection) write(frame []byte) error {
	if _, err := c.w.Write(frame); err != nil {
		return err
	}
	if c.flusher != nil {
		c.flusher.Flush()
	}
	return nil
}

// failWrite handles a write error on a closed or broken transport: the
// failure is logged and the connection torn down locally.
func (c *connection) failWrite(err error) {
	logger.Debug("[SSE] Write failed, closing connection",
		logger.MergeWithError(c.identity.logFields(), errors.WriteFailed(err)))
	c.hub.recordWriteFailure()
	c.close()
}

// close runs the teardown path exactly once regardless of how many times
// closure is signaled: deregister the five subscriptions, forget the
// connection, invoke the close callback with the identity triple.
func (c *connection) close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		for _, s := range c.subs {
			c.hub.reg.deregister(s)
		}
		c.hub.forget(c)
		if cb := c.hub.opts.closeCallback; cb != nil {
			cb(c.identity)
		}
		close(c.done)
		logger.Debug("[SSE] Connection closed", c.identity.logFields())
	})
}

// closedChan is closed when teardown has run; the handler selects on it to
// unblock when a write failure closed the connection from the publish path.
func (c *connection) closedChan() <-chan struct{} {
	return c.done
}
