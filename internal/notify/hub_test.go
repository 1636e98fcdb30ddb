// ABOUTME: Tests for the change hub.
// ABOUTME: Covers fan-out, unsubscribe, event stamping, and concurrent publishing.
package notify

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubFanOut(t *testing.T) {
	hub := NewHub()

	var first, second []Event
	hub.Subscribe(func(e Event) { first = append(first, e) })
	hub.Subscribe(func(e Event) { second = append(second, e) })

	e := NewEvent(EntityCompletion, OpCreate, "abc")
	hub.Publish(e)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, e.ID, first[0].ID)
	assert.Equal(t, EntityCompletion, second[0].Entity)
	assert.Equal(t, OpCreate, second[0].Op)
}

func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub()

	calls := 0
	unsubscribe := hub.Subscribe(func(Event) { calls++ })
	hub.Publish(NewEvent(EntityHabit, OpUpdate, "x"))

	unsubscribe()
	unsubscribe()
	hub.Publish(NewEvent(EntityHabit, OpUpdate, "x"))

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, hub.Len())
}

func TestHubZeroValue(t *testing.T) {
	var hub Hub
	hub.Publish(NewEvent(EntityHabit, OpDelete, "gone"))

	got := 0
	hub.Subscribe(func(Event) { got++ })
	hub.Publish(NewEvent(EntityHabit, OpDelete, "gone"))
	assert.Equal(t, 1, got)
}

func TestNewEventIDsAreUnique(t *testing.T) {
	a := NewEvent(EntityHabit, OpCreate, "1")
	b := NewEvent(EntityHabit, OpCreate, "1")

	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.At.IsZero())
}

func TestHubConcurrentPublish(t *testing.T) {
	hub := NewHub()

	var count atomic.Int64
	hub.Subscribe(func(Event) { count.Add(1) })

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Publish(NewEvent(EntityCompletion, OpCreate, "c"))
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), count.Load())
}
