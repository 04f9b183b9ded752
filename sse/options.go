package sse

import (
	"fmt"
	"time"

	"github.com/pushkit/pushkit/observability"
)

const defaultKeepAlive = 30 * time.Second

// options holds hub construction-time configuration. Missing options fall
// back to documented defaults; that is never an error.
type options struct {
	initial       []any
	serialized    bool
	compressed    bool
	initialEvent  string
	closeCallback func(Identity)
	keepAlive     time.Duration
	metrics       *observability.StreamMetrics
}

func defaultOptions() options {
	return options{
		serialized: true,
		keepAlive:  defaultKeepAlive,
	}
}

// Option configures a Hub.
type Option func(*options)

// WithInitial sets the initial snapshot replayed to newly opened
// connections. UpdateInit replaces it later.
func WithInitial(snapshot []any) Option {
	return func(o *options) { o.initial = snapshot }
}

// WithSerialized controls snapshot replay: true (the default) replays the
// snapshot as one serialized batch, false replays it as a single event.
func WithSerialized(serialized bool) Option {
	return func(o *options) { o.serialized = serialized }
}

// WithCompression declares the stream as deflate-encoded. Only the
// Content-Encoding header is affected; compression itself is the transport
// layer's responsibility.
func WithCompression() Option {
	return func(o *options) { o.compressed = true }
}

// WithInitialEvent sets the event name used when replaying a non-serialized
// snapshot.
func WithInitialEvent(name string) Option {
	return func(o *options) { o.initialEvent = name }
}

// WithCloseCallback registers a hook invoked with the identity triple when
// a connection disconnects.
func WithCloseCallback(cb func(Identity)) Option {
	return func(o *options) { o.closeCallback = cb }
}

// WithKeepAlive sets the interval for keep-alive comment frames. Zero or
// negative disables them.
func WithKeepAlive(interval time.Duration) Option {
	return func(o *options) { o.keepAlive = interval }
}

// WithMetrics attaches stream metrics instruments to the hub.
func WithMetrics(m *observability.StreamMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// Config is the file/env representation of hub options, loaded through the
// config package.
type Config struct {
	// Serialized defaults to true when unset, hence the pointer.
	Serialized   *bool  `yaml:"serialized" mapstructure:"serialized"`
	Compressed   bool   `yaml:"compressed" mapstructure:"compressed"`
	InitialEvent string `yaml:"initial_event" mapstructure:"initial_event"`
	// KeepAlive is the comment-frame interval in seconds; 0 uses the default.
	KeepAlive int `yaml:"keep_alive" mapstructure:"keep_alive" validate:"gte=0"`
}

// Options converts the file configuration to hub options.
func (c Config) Options() []Option {
	var opts []Option
	if c.Serialized != nil {
		opts = append(opts, WithSerialized(*c.Serialized))
	}
	if c.Compressed {
		opts = append(opts, WithCompression())
	}
	if c.InitialEvent != "" {
		opts = append(opts, WithInitialEvent(c.InitialEvent))
	}
	if c.KeepAlive > 0 {
		opts = append(opts, WithKeepAlive(time.Duration(c.KeepAlive)*time.Second))
	}
	return opts
}

// sendOptions holds per-publish settings.
type sendOptions struct {
	name string
	id   string
}

// SendOption configures a single publish operation.
type SendOption func(*sendOptions)

// WithEvent sets the event-name line for this event.
func WithEvent(name string) SendOption {
	return func(o *sendOptions) { o.name = name }
}

// WithID sets an explicit id for this event, overriding auto-assignment
// without advancing any connection's counter. Accepts a string or a number.
func WithID(id any) SendOption {
	return func(o *sendOptions) { o.id = fmt.Sprint(id) }
}

func applySendOptions(opts []SendOption) sendOptions {
	var so sendOptions
	for _, opt := range opts {
		opt(&so)
	}
	return so
}
