package sse

import (
	"sync"
	"testing"
)

func TestRegistry_RegisterPublishDeregister(t *testing.T) {
	reg := newRegistry()

	var got []*outbound
	sub := reg.register(CategoryBroadcast, func(ev *outbound) {
		got = append(got, ev)
	})

	reg.publish(CategoryBroadcast, &outbound{data: []byte(`1`)})
	if len(got) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(got))
	}

	reg.deregister(sub)
	reg.publish(CategoryBroadcast, &outbound{data: []byte(`2`)})
	if len(got) != 1 {
		t.Errorf("expected no delivery after deregister, got %d", len(got))
	}
}

func TestRegistry_CategoriesAreIndependent(t *testing.T) {
	reg := newRegistry()

	broadcasts, channels := 0, 0
	reg.register(CategoryBroadcast, func(*outbound) { broadcasts++ })
	reg.register(CategoryChannel, func(*outbound) { channels++ })

	reg.publish(CategoryChannel, &outbound{})
	if broadcasts != 0 || channels != 1 {
		t.Errorf("expected channel-only delivery, got broadcast=%d channel=%d", broadcasts, channels)
	}
}

func TestRegistry_PublishWithZeroListeners(t *testing.T) {
	reg := newRegistry()
	// Must be a valid no-op, not an error or panic.
	reg.publish(CategoryBroadcast, &outbound{data: []byte(`1`)})
}

func TestRegistry_DeregisterDuringPublish(t *testing.T) {
	reg := newRegistry()

	var second *subscription
	fired := 0
	// The first listener deregisters the second mid-publish; the second
	// must never fire afterward even though the listener set was
	// snapshotted before the deregistration.
	reg.register(CategoryBroadcast, func(*outbound) {
		reg.deregister(second)
	})
	second = reg.register(CategoryBroadcast, func(*outbound) { fired++ })

	reg.publish(CategoryBroadcast, &outbound{})
	if fired != 0 {
		t.Errorf("expected deregistered listener not to fire, fired %d times", fired)
	}
}

func TestRegistry_DeregisterTwice(t *testing.T) {
	reg := newRegistry()
	sub := reg.register(CategoryBroadcast, func(*outbound) {})

	reg.deregister(sub)
	reg.deregister(sub) // must be a no-op

	if reg.size() != 0 {
		t.Errorf("expected empty registry, size %d", reg.size())
	}
}

func TestRegistry_Size(t *testing.T) {
	reg := newRegistry()
	a := reg.register(CategoryBroadcast, func(*outbound) {})
	reg.register(CategoryChannel, func(*outbound) {})

	if reg.size() != 2 {
		t.Errorf("expected size 2, got %d", reg.size())
	}
	reg.deregister(a)
	if reg.size() != 1 {
		t.Errorf("expected size 1, got %d", reg.size())
	}
}

func TestRegistry_ConcurrentMutationAndPublish(t *testing.T) {
	reg := newRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sub := reg.register(CategoryBroadcast, func(*outbound) {})
			reg.deregister(sub)
		}()
		go func() {
			defer wg.Done()
			reg.publish(CategoryBroadcast, &outbound{})
		}()
	}
	wg.Wait()

	if reg.size() != 0 {
		t.Errorf("expected all listeners removed, size %d", reg.size())
	}
}

func TestCategory_String(t *testing.T) {
	cases := map[Category]string{
		CategoryBroadcast: "broadcast",
		CategoryChannel:   "channel",
		CategoryClient:    "client",
		CategoryBrowser:   "browser",
		CategoryBatch:     "batch",
	}
	for cat, want := range cases {
		if cat.String() != want {
			t.Errorf("expected %q, got %q", want, cat.String())
		}
	}
}
