package main

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pushkit/pushkit/sse"
)

func newTestService(t *testing.T) (*httptest.Server, *sse.Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	hub := sse.NewHub(sse.WithKeepAlive(0))
	registerRoutes(r, hub)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, hub
}

func subscribe(t *testing.T, url string) *bufio.Reader {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return bufio.NewReader(resp.Body)
}

func readStreamFrame(t *testing.T, br *bufio.Reader) string {
	t.Helper()
	var sb strings.Builder
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			t.Fatalf("reading stream: %v", err)
		}
		sb.WriteString(line)
		if line == "\n" {
			return sb.String()
		}
	}
}

func awaitConnections(t *testing.T, hub *sse.Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ConnectionCount() == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d connections", n)
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("posting: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestPublishAPI_Broadcast(t *testing.T) {
	srv, hub := newTestService(t)

	br := subscribe(t, srv.URL+"/events")
	awaitConnections(t, hub, 1)

	resp := post(t, srv.URL+"/api/v1/publish", `{"a":1}`)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	if frame := readStreamFrame(t, br); frame != "id: 0\ndata: {\"a\":1}\n\n" {
		t.Errorf("unexpected frame %q", frame)
	}
}

func TestPublishAPI_ChannelTarget(t *testing.T) {
	srv, hub := newTestService(t)

	br := subscribe(t, srv.URL+"/events?channel=news")
	awaitConnections(t, hub, 1)

	post(t, srv.URL+"/api/v1/publish/channel/news?event=update", `"story"`)
	if frame := readStreamFrame(t, br); frame != "id: 0\nevent: update\ndata: \"story\"\n\n" {
		t.Errorf("unexpected frame %q", frame)
	}
}

func TestPublishAPI_Batch(t *testing.T) {
	srv, hub := newTestService(t)

	br := subscribe(t, srv.URL+"/events")
	awaitConnections(t, hub, 1)

	post(t, srv.URL+"/api/v1/publish/batch", `[1,2]`)
	if frame := readStreamFrame(t, br); frame != "id: 0\ndata: 1\n\n" {
		t.Errorf("unexpected first batch frame %q", frame)
	}
	if frame := readStreamFrame(t, br); frame != "id: 1\ndata: 2\n\n" {
		t.Errorf("unexpected second batch frame %q", frame)
	}
}

func TestPublishAPI_InitLifecycle(t *testing.T) {
	srv, hub := newTestService(t)

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/v1/init", strings.NewReader(`[{"a":1}]`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for init update, got %d", resp.StatusCode)
	}

	br := subscribe(t, srv.URL+"/events")
	awaitConnections(t, hub, 1)
	if frame := readStreamFrame(t, br); frame != "id: 0\ndata: {\"a\":1}\n\n" {
		t.Errorf("expected snapshot replay, got %q", frame)
	}

	del, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/init", nil)
	resp, err = http.DefaultClient.Do(del)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for init drop, got %d", resp.StatusCode)
	}
}

func TestPublishAPI_InvalidBody(t *testing.T) {
	srv, _ := newTestService(t)

	resp := post(t, srv.URL+"/api/v1/publish", `{not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", resp.StatusCode)
	}

	resp = post(t, srv.URL+"/api/v1/publish/batch", `{"not":"array"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for non-array batch, got %d", resp.StatusCode)
	}
}
