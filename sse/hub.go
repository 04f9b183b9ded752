package sse

import (
	"context"
	"io"
	"reflect"
	"sync"

	"github.com/pushkit/pushkit/logger"
)

// Hub is the shared publish point for one topic. One hub instance is
// shared across all of the topic's connections; its publish methods may be
// invoked concurrently with connection setup and teardown.
//
// All publish operations are fire-and-forget: they complete synchronous
// delivery to every currently registered connection and never block on a
// slow consumer beyond that consumer's own write. Zero subscribers and
// empty payload collections are valid, never errors.
type Hub struct {
	reg  *registry
	opts options

	mu       sync.RWMutex // guards snapshot and conns
	snapshot []any
	conns    map[*connection]struct{}
}

// NewHub creates a hub. Missing options fall back to defaults: snapshot
// replay is serialized, keep-alive comments every 30s, no compression.
func NewHub(opts ...Option) *Hub {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Hub{
		reg:      newRegistry(),
		opts:     o,
		snapshot: o.initial,
		conns:    make(map[*connection]struct{}),
	}
}

// Send broadcasts a payload to all connections active at publish time.
func (h *Hub) Send(payload any, opts ...SendOption) error {
	return h.publish(CategoryBroadcast, "", payload, opts)
}

// SendToChannel delivers only to connections whose channel identity is set
// and equals channel.
func (h *Hub) SendToChannel(channel string, payload any, opts ...SendOption) error {
	return h.publish(CategoryChannel, channel, payload, opts)
}

// SendToClient delivers only to connections whose client identity is set
// and equals client.
func (h *Hub) SendToClient(client string, payload any, opts ...SendOption) error {
	return h.publish(CategoryClient, client, payload, opts)
}

// SendToBrowser delivers only to connections whose browser identity is set
// and equals browser.
func (h *Hub) SendToBrowser(browser string, payload any, opts ...SendOption) error {
	return h.publish(CategoryBrowser, browser, payload, opts)
}

func (h *Hub) publish(cat Category, target string, payload any, opts []SendOption) error {
	so := applySendOptions(opts)
	data, err := marshalPayload(payload)
	if err != nil {
		return err
	}
	h.reg.publish(cat, &outbound{data: data, name: so.name, id: so.id, target: target})
	h.opts.metrics.EventPublished(context.Background(), cat.String())
	return nil
}

// Serialize publishes a sequence of payloads as one batch: every item gets
// a freshly auto-assigned id per connection and the whole batch is flushed
// in a single write. Per-item event names and explicit ids are not
// supported in batch mode. A non-sequence payload degrades to a plain
// unserialized Send; an empty sequence performs zero writes.
func (h *Hub) Serialize(payload any) error {
	items, ok := sequenceItems(payload)
	if !ok {
		return h.Send(payload)
	}
	if len(items) == 0 {
		return nil
	}

	batch := make([][]byte, len(items))
	for i, item := range items {
		data, err := marshalPayload(item)
		if err != nil {
			return err
		}
		batch[i] = data
	}
	h.reg.publish(CategoryBatch, &outbound{batch: batch})
	h.opts.metrics.EventPublished(context.Background(), CategoryBatch.String())
	return nil
}

// sequenceItems reports whether payload is an ordered sequence and returns
// its elements. []byte counts as a scalar: it marshals to a JSON string,
// not to a batch of bytes.
func sequenceItems(payload any) ([]any, bool) {
	if payload == nil {
		return nil, false
	}
	if _, isBytes := payload.([]byte); isBytes {
		return nil, false
	}
	rv := reflect.ValueOf(payload)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// UpdateInit replaces the stored initial snapshot wholesale. Connections
// already replayed are unaffected.
func (h *Hub) UpdateInit(snapshot []any) {
	h.mu.Lock()
	h.snapshot = snapshot
	h.mu.Unlock()
}

// DropInit clears the initial snapshot; new connections replay nothing.
func (h *Hub) DropInit() {
	h.UpdateInit(nil)
}

// open wires a new connection into the hub: one listener per delivery
// category, each applying the connection's own identity filter.
func (h *Hub) open(ident Identity, w io.Writer, flusher Flusher) *connection {
	c := &connection{
		identity: ident,
		w:        w,
		flusher:  flusher,
		hub:      h,
		done:     make(chan struct{}),
	}
	c.subs = []*subscription{
		h.reg.register(CategoryBroadcast, func(ev *outbound) {
			c.writeEvent(ev)
		}),
		h.reg.register(CategoryChannel, func(ev *outbound) {
			if c.identity.Channel != "" && c.identity.Channel == ev.target {
				c.writeEvent(ev)
			}
		}),
		h.reg.register(CategoryClient, func(ev *outbound) {
			if c.identity.Client != "" && c.identity.Client == ev.target {
				c.writeEvent(ev)
			}
		}),
		h.reg.register(CategoryBrowser, func(ev *outbound) {
			if c.identity.Browser != "" && c.identity.Browser == ev.target {
				c.writeEvent(ev)
			}
		}),
		h.reg.register(CategoryBatch, func(ev *outbound) {
			c.writeBatch(ev.batch)
		}),
	}

	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()

	h.opts.metrics.ConnectionOpened(context.Background())
	logger.Debug("[SSE] Connection opened", ident.logFields())
	return c
}

// replay emits the snapshot current at connect time to a single new
// connection. Serialized mode replays it as one batch; otherwise a
// non-empty snapshot is emitted as a single event named by the configured
// initial event. Later snapshot updates never affect this connection.
func (h *Hub) replay(c *connection) error {
	h.mu.RLock()
	snap := make([]any, len(h.snapshot))
	copy(snap, h.snapshot)
	h.mu.RUnlock()

	if len(snap) == 0 {
		return nil
	}

	if h.opts.serialized {
		batch := make([][]byte, len(snap))
		for i, item := range snap {
			data, err := marshalPayload(item)
			if err != nil {
				return err
			}
			batch[i] = data
		}
		c.writeBatch(batch)
		return nil
	}

	var payload any = snap
	if len(snap) == 1 {
		payload = snap[0]
	}
	data, err := marshalPayload(payload)
	if err != nil {
		return err
	}
	c.writeEvent(&outbound{data: data, name: h.opts.initialEvent})
	return nil
}

// forget drops the connection from the active set. Called from the
// connection's teardown path.
func (h *Hub) forget(c *connection) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
	h.opts.metrics.ConnectionClosed(context.Background())
}

func (h *Hub) recordWriteFailure() {
	h.opts.metrics.WriteFailure(context.Background())
}

// Close tears down every active connection. The hub must not be used for
// publishing afterward.
func (h *Hub) Close() {
	h.mu.RLock()
	conns := make([]*connection, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		c.close()
	}
	logger.Debug("[SSE] Hub closed", map[string]interface{}{
		"connections_closed": len(conns),
	})
}

// ConnectionCount returns the number of active connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// ListenerCount returns the number of registered listeners across all
// categories; useful as a leak gauge (five per active connection).
func (h *Hub) ListenerCount() int {
	return h.reg.size()
}
