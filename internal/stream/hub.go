// Package stream distributes live performance samples to multiple
// consumers using a fan-out of buffered channels.
package stream

import (
	"sync"
	"time"

	"legacy-guardians/internal/models"
)

// HubConfig holds configuration for the sample hub.
type HubConfig struct {
	// SubscriberBufferSize is the size of each subscriber's channel buffer.
	SubscriberBufferSize int
}

// DefaultHubConfig returns the default hub configuration.
func DefaultHubConfig() HubConfig {
	return HubConfig{SubscriberBufferSize: 64}
}

// Hub fans out performance samples from one session to any number of
// watchers (CLI views, websocket clients). Slow subscribers have samples
// dropped rather than stalling the session loop.
type Hub struct {
	config HubConfig

	mu          sync.RWMutex
	subscribers map[*Subscriber]struct{}
	closed      bool

	samplesPublished uint64
	samplesDropped   uint64
}

// Subscriber is one registered watcher.
type Subscriber struct {
	ID        string
	Channel   chan models.PerformanceSample
	Dropped   int
	CreatedAt time.Time
}

// NewHub creates a hub with default configuration.
func NewHub() *Hub {
	return NewHubWithConfig(DefaultHubConfig())
}

// NewHubWithConfig creates a hub with custom configuration.
func NewHubWithConfig(config HubConfig) *Hub {
	if config.SubscriberBufferSize <= 0 {
		config.SubscriberBufferSize = DefaultHubConfig().SubscriberBufferSize
	}
	return &Hub{
		config:      config,
		subscribers: make(map[*Subscriber]struct{}),
	}
}

// Subscribe registers a watcher and returns it. The subscriber's channel
// is closed on Unsubscribe or hub Close.
func (h *Hub) Subscribe(id string) *Subscriber {
	sub := &Subscriber{
		ID:        id,
		Channel:   make(chan models.PerformanceSample, h.config.SubscriberBufferSize),
		CreatedAt: time.Now(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(sub.Channel)
		return sub
	}
	h.subscribers[sub] = struct{}{}
	return sub
}

// Unsubscribe removes a watcher and closes its channel.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[sub]; !ok {
		return
	}
	delete(h.subscribers, sub)
	close(sub.Channel)
}

// Publish delivers a sample to every subscriber. A subscriber with a full
// buffer has the sample dropped.
func (h *Hub) Publish(sample models.PerformanceSample) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.samplesPublished++
	for sub := range h.subscribers {
		select {
		case sub.Channel <- sample:
		default:
			sub.Dropped++
			h.samplesDropped++
		}
	}
}

// SubscriberCount returns the number of registered watchers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Metrics returns totals of published and dropped samples.
func (h *Hub) Metrics() (published, dropped uint64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.samplesPublished, h.samplesDropped
}

// Close shuts the hub down and closes every subscriber channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subscribers {
		close(sub.Channel)
		delete(h.subscribers, sub)
	}
}
