// Package sse implements a Server-Sent Events publish/subscribe hub for
// pushing real-time updates to many concurrent streaming clients.
//
// A Hub is the process-wide publish point for one topic. It supports
// unconditional broadcast, delivery targeted by channel/client/browser
// identity, serialized batches, and replay of an initial snapshot to
// newly opened connections.
//
// # Architecture
//
//   - Hub: holds the snapshot and options, exposes the publish operations
//   - registry: per-category listener set, safely mutable while publishing
//   - connection: one long-lived client stream with its own id counter
//   - encoder: SSE wire-format framing (id/event/data lines)
//
// # Usage
//
//	hub := sse.NewHub(sse.WithInitial([]any{state}))
//	router.GET("/events", sse.GinHandler(hub))
//	...
//	hub.Send(update)
//	hub.SendToChannel("orders", update)
package sse
