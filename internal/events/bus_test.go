package events_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nelson200402/Educacion/internal/events"
)

func TestPublishFanOut(t *testing.T) {
	bus := events.NewBus(nil)
	a, unsubA := bus.Subscribe(1)
	b, unsubB := bus.Subscribe(1)
	defer unsubA()
	defer unsubB()

	bus.Publish(events.Event{Kind: events.SessionChanged, ChatID: 1, SessionID: 5})

	for _, ch := range []<-chan events.Event{a, b} {
		select {
		case e := <-ch:
			assert.Equal(t, events.SessionChanged, e.Kind)
			assert.Equal(t, int64(5), e.SessionID)
		default:
			t.Fatal("expected event")
		}
	}
}

func TestPublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	bus := events.NewBus(nil)
	ch, unsub := bus.Subscribe(1)
	defer unsub()

	bus.Publish(events.Event{Kind: events.AuthChanged, ChatID: 1})
	bus.Publish(events.Event{Kind: events.AuthChanged, ChatID: 2})

	e := <-ch
	assert.Equal(t, int64(1), e.ChatID)
	select {
	case <-ch:
		t.Fatal("second event should have been dropped")
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := events.NewBus(nil)
	ch, unsub := bus.Subscribe(0)
	unsub()
	unsub()

	_, ok := <-ch
	require.False(t, ok)

	bus.Publish(events.Event{Kind: events.SessionChanged})
}
