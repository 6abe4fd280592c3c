package events

import (
	"sync"

	"github.com/Nelson200402/Educacion/internal/infra/metrics"
)

type Kind string

const (
	SessionChanged Kind = "session_changed"
	AuthChanged    Kind = "auth_changed"
)

type Event struct {
	Kind      Kind
	ChatID    int64
	SessionID int64
}

// Bus fans events out to subscribers. Publishing never blocks: a subscriber whose
// buffer is full misses the event.
type Bus struct {
	mu      sync.RWMutex
	nextID  int
	subs    map[int]chan Event
	metrics *metrics.Metrics
}

func NewBus(m *metrics.Metrics) *Bus {
	return &Bus{subs: make(map[int]chan Event), metrics: m}
}

// Subscribe returns the event channel and a func that unsubscribes and closes it.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.metrics.EventDropped(string(e.Kind))
		}
	}
}
