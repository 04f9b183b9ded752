package sse

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pushkit/pushkit/errors"
	"github.com/pushkit/pushkit/logger"
)

// ServeStream handles one SSE streaming request against the hub. It blocks
// until the client disconnects or a write failure tears the connection
// down. This is the main entry point called from HTTP handlers.
func ServeStream(hub *Hub, w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		appErr := errors.StreamUnsupported()
		logger.Error("[SSE] " + appErr.Message)
		http.Error(w, appErr.Message, appErr.HTTPStatus)
		return
	}

	// Long-lived stream: the server's read/write timeouts must not apply.
	// TCP keep-alive probing stays on the listener's defaults.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		logger.Warn("[SSE] Could not clear write deadline", logger.Fields(
			logger.FieldError, err.Error(),
		))
	}
	if err := rc.SetReadDeadline(time.Time{}); err != nil {
		logger.Warn("[SSE] Could not clear read deadline", logger.Fields(
			logger.FieldError, err.Error(),
		))
	}

	q := r.URL.Query()
	ident := Identity{
		Channel: q.Get("channel"),
		Client:  q.Get("client"),
		Browser: q.Get("browser"),
	}

	writeStreamHeaders(w, r, hub.opts.compressed)
	flusher.Flush()

	conn := hub.open(ident, w, flusher)
	defer conn.close()

	if err := hub.replay(conn); err != nil {
		logger.Warn("[SSE] Snapshot replay failed", logger.Fields(
			logger.FieldError, err.Error(),
		))
	}

	var keepAlive <-chan time.Time
	if hub.opts.keepAlive > 0 {
		ticker := time.NewTicker(hub.opts.keepAlive)
		defer ticker.Stop()
		keepAlive = ticker.C
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-conn.closedChan():
			return
		case t := <-keepAlive:
			// Comment frames keep proxies from idling out the stream.
			conn.writeComment("keepalive " + strconv.FormatInt(t.Unix(), 10))
		}
	}
}

// writeStreamHeaders emits the stream-open headers: event-stream media
// type, caching and proxy buffering disabled. The explicit keep-alive
// connection directive is only meaningful for protocol versions without
// implicit persistent connections; HTTP/2 forbids it. Compression is only
// declared here, performing it is the transport layer's responsibility.
func writeStreamHeaders(w http.ResponseWriter, r *http.Request, compressed bool) {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("X-Accel-Buffering", "no")
	if r.ProtoMajor < 2 {
		h.Set("Connection", "keep-alive")
	}
	if compressed {
		h.Set("Content-Encoding", "deflate")
	}
	w.WriteHeader(http.StatusOK)
}

// GinHandler adapts ServeStream to a Gin route.
func GinHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ServeStream(hub, c.Writer, c.Request)
	}
}
