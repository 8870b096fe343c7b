// Package events provides a small in-process event bus. The serving layer
// subscribes to broadcast completed assessments over SSE; the bus never
// blocks publishers on slow consumers.
package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// EventType identifies a bus event
type EventType string

const (
	// AssessmentCompleted fires after an assessment is scored and stored
	AssessmentCompleted EventType = "assessment_completed"
	// ModelReloaded fires after the model artifact is swapped at runtime
	ModelReloaded EventType = "model_reloaded"
	// StatsRefreshed fires after the regional stats job rebuilds aggregates
	StatsRefreshed EventType = "stats_refreshed"
)

// Event is a typed payload with its emission time
type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Bus fans events out to subscribers. Subscriber channels are buffered;
// events to a full channel are dropped rather than blocking the publisher,
// since every consumer is a best-effort live stream.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[int]chan Event
	nextID      int
	log         zerolog.Logger
}

// NewBus creates an event bus
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		subscribers: make(map[int]chan Event),
		log:         log.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe registers a consumer. The returned cancel function must be
// called to release the subscription.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan Event, 16)
	b.subscribers[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subscribers[id]; ok {
			delete(b.subscribers, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish broadcasts an event to all current subscribers
func (b *Bus) Publish(eventType EventType, data interface{}) {
	event := Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			b.log.Warn().Int("subscriber", id).Str("type", string(eventType)).
				Msg("Subscriber channel full, dropping event")
		}
	}
}

// SubscriberCount returns the number of active subscribers
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
