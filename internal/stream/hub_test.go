package stream

import (
	"testing"

	"github.com/shopspring/decimal"

	"legacy-guardians/internal/models"
)

func sample(tick int) models.PerformanceSample {
	return models.PerformanceSample{Tick: tick, Total: decimal.NewFromInt(5000)}
}

func TestHubFanOut(t *testing.T) {
	h := NewHub()
	a := h.Subscribe("a")
	b := h.Subscribe("b")

	h.Publish(sample(1))

	got := <-a.Channel
	if got.Tick != 1 {
		t.Errorf("subscriber a got tick %d, want 1", got.Tick)
	}
	got = <-b.Channel
	if got.Tick != 1 {
		t.Errorf("subscriber b got tick %d, want 1", got.Tick)
	}
}

func TestHubDropsOnFullBuffer(t *testing.T) {
	h := NewHubWithConfig(HubConfig{SubscriberBufferSize: 2})
	slow := h.Subscribe("slow")

	for i := 0; i < 5; i++ {
		h.Publish(sample(i))
	}

	published, dropped := h.Metrics()
	if published != 5 {
		t.Errorf("published = %d, want 5", published)
	}
	if dropped != 3 {
		t.Errorf("dropped = %d, want 3", dropped)
	}
	if slow.Dropped != 3 {
		t.Errorf("subscriber dropped = %d, want 3", slow.Dropped)
	}

	// The buffered ones are the earliest two; the session loop never blocked.
	first := <-slow.Channel
	if first.Tick != 0 {
		t.Errorf("first buffered tick = %d, want 0", first.Tick)
	}
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe("x")
	h.Unsubscribe(sub)

	if _, ok := <-sub.Channel; ok {
		t.Error("channel still open after unsubscribe")
	}
	if h.SubscriberCount() != 0 {
		t.Errorf("subscriber count = %d, want 0", h.SubscriberCount())
	}
	// Double unsubscribe must not panic.
	h.Unsubscribe(sub)
}

func TestHubClose(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe("x")
	h.Close()

	if _, ok := <-sub.Channel; ok {
		t.Error("channel still open after hub close")
	}
	// Publishing and subscribing after close are safe no-ops.
	h.Publish(sample(1))
	late := h.Subscribe("late")
	if _, ok := <-late.Channel; ok {
		t.Error("late subscriber channel should be closed immediately")
	}
}
