// ABOUTME: In-process change hub for habit and completion writes.
// ABOUTME: Subscribers are called synchronously for every published event.
package notify

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Entity names the collection a change applies to.
type Entity string

const (
	EntityHabit      Entity = "habit"
	EntityCompletion Entity = "completion"
)

// Op is the kind of change.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Event describes one committed change.
type Event struct {
	ID       ulid.ULID
	Entity   Entity
	Op       Op
	EntityID string
	At       time.Time
}

// NewEvent stamps a change with a fresh ULID and the current time.
func NewEvent(entity Entity, op Op, entityID string) Event {
	return Event{
		ID:       ulid.Make(),
		Entity:   entity,
		Op:       op,
		EntityID: entityID,
		At:       time.Now(),
	}
}

// Hub fans events out to subscribers. The zero value is ready to use.
type Hub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{}
}

// Subscribe registers fn and returns a function that removes it.
func (h *Hub) Subscribe(fn func(Event)) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs == nil {
		h.subs = make(map[int]func(Event))
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
		})
	}
}

// Publish delivers e to every current subscriber.
func (h *Hub) Publish(e Event) {
	h.mu.RLock()
	fns := make([]func(Event), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	// Called without the lock so subscribers may unsubscribe.
	for _, fn := range fns {
		fn(e)
	}
}

// Len returns the number of subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
