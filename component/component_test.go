package component

import (
	"context"
	"fmt"
	"testing"
)

type fakeComponent struct {
	name    string
	failing bool
	started bool
	stopped bool
	order   *[]string
}

func (f *fakeComponent) Name() string { return f.name }

func (f *fakeComponent) Start(context.Context) error {
	if f.failing {
		return fmt.Errorf("start failed")
	}
	f.started = true
	*f.order = append(*f.order, "start:"+f.name)
	return nil
}

func (f *fakeComponent) Stop(context.Context) error {
	f.stopped = true
	*f.order = append(*f.order, "stop:"+f.name)
	return nil
}

func (f *fakeComponent) Health(context.Context) Health {
	return Health{Name: f.name, Status: StatusHealthy}
}

func TestRegistry_StartStopOrder(t *testing.T) {
	var order []string
	a := &fakeComponent{name: "a", order: &order}
	b := &fakeComponent{name: "b", order: &order}

	reg := NewRegistry()
	reg.Register(a)
	reg.Register(b)

	ctx := context.Background()
	if err := reg.StartAll(ctx); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	reg.StopAll(ctx)

	want := []string{"start:a", "start:b", "stop:b", "stop:a"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("step %d: expected %s, got %s", i, want[i], order[i])
		}
	}
}

func TestRegistry_StartFailureRollsBack(t *testing.T) {
	var order []string
	a := &fakeComponent{name: "a", order: &order}
	bad := &fakeComponent{name: "bad", failing: true, order: &order}

	reg := NewRegistry()
	reg.Register(a)
	reg.Register(bad)

	if err := reg.StartAll(context.Background()); err == nil {
		t.Fatal("expected StartAll to fail")
	}
	if !a.stopped {
		t.Error("expected already started component to be stopped")
	}
}

func TestRegistry_HealthAll(t *testing.T) {
	var order []string
	reg := NewRegistry()
	reg.Register(&fakeComponent{name: "a", order: &order})
	reg.Register(&fakeComponent{name: "b", order: &order})

	healths := reg.HealthAll(context.Background())
	if len(healths) != 2 {
		t.Fatalf("expected 2 healths, got %d", len(healths))
	}
	if healths[0].Name != "a" || healths[1].Name != "b" {
		t.Errorf("unexpected health names: %v", healths)
	}
}
