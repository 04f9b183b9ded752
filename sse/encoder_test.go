package sse

import (
	"testing"

	"github.com/pushkit/pushkit/errors"
)

func TestAppendFrame(t *testing.T) {
	got := string(appendFrame(nil, "0", "", []byte(`{"a":1}`)))
	want := "id: 0\ndata: {\"a\":1}\n\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestAppendFrame_WithEventName(t *testing.T) {
	got := string(appendFrame(nil, "7", "update", []byte(`"x"`)))
	want := "id: 7\nevent: update\ndata: \"x\"\n\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestAppendFrame_Concatenates(t *testing.T) {
	buf := appendFrame(nil, "0", "", []byte(`1`))
	buf = appendFrame(buf, "1", "", []byte(`2`))

	want := "id: 0\ndata: 1\n\nid: 1\ndata: 2\n\n"
	if string(buf) != want {
		t.Errorf("expected %q, got %q", want, string(buf))
	}
}

func TestAppendComment(t *testing.T) {
	got := string(appendComment(nil, "keepalive 123"))
	if got != ": keepalive 123\n\n" {
		t.Errorf("unexpected comment frame %q", got)
	}
}

func TestMarshalPayload(t *testing.T) {
	data, err := marshalPayload(map[string]any{"a": 1})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"a":1}` {
		t.Errorf("expected {\"a\":1}, got %s", data)
	}
}

func TestMarshalPayload_Unrepresentable(t *testing.T) {
	_, err := marshalPayload(make(chan int))
	if err == nil {
		t.Fatal("expected serialization failure")
	}

	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeSerialization {
		t.Errorf("expected %s, got %s", errors.ErrCodeSerialization, appErr.Code)
	}
}
