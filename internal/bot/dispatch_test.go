package bot

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatQueueSlowChatDoesNotBlockOthers(t *testing.T) {
	q := newChatQueue()
	release := make(chan struct{})
	otherDone := make(chan struct{})

	var mu sync.Mutex
	var order []string
	record := func(s string) {
		mu.Lock()
		order = append(order, s)
		mu.Unlock()
	}

	q.Do(1, func() { <-release; record("a1") })
	q.Do(1, func() { record("a2") })
	q.Do(2, func() { record("b1"); close(otherDone) })

	select {
	case <-otherDone:
	case <-time.After(2 * time.Second):
		t.Fatal("chat 2 waited for chat 1")
	}
	close(release)
	q.Wait()

	require.Len(t, order, 3)
	assert.Equal(t, "b1", order[0])
	assert.Equal(t, []string{"a1", "a2"}, order[1:])
}

func TestChatQueueKeepsOrderWithinChat(t *testing.T) {
	q := newChatQueue()
	var got []int
	for i := range 50 {
		q.Do(7, func() { got = append(got, i) })
	}
	q.Wait()

	require.Len(t, got, 50)
	for i, v := range got {
		assert.Equal(t, i, v)
	}

	// the worker is gone and a new job starts a fresh one
	q.mu.Lock()
	_, running := q.pending[7]
	q.mu.Unlock()
	assert.False(t, running)

	done := make(chan struct{})
	q.Do(7, func() { close(done) })
	<-done
	q.Wait()
}
