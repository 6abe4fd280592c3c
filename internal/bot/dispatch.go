package bot

import "sync"

// chatQueue runs jobs one at a time per chat, in arrival order, while different
// chats run in parallel. A chat's worker goroutine exits once its queue is empty.
type chatQueue struct {
	mu      sync.Mutex
	pending map[int64][]func()
	wg      sync.WaitGroup
}

func newChatQueue() *chatQueue {
	return &chatQueue{pending: make(map[int64][]func())}
}

func (q *chatQueue) Do(chatID int64, job func()) {
	q.mu.Lock()
	jobs, running := q.pending[chatID]
	q.pending[chatID] = append(jobs, job)
	q.mu.Unlock()

	if running {
		return
	}
	q.wg.Add(1)
	go q.drain(chatID)
}

func (q *chatQueue) drain(chatID int64) {
	defer q.wg.Done()
	for {
		q.mu.Lock()
		jobs := q.pending[chatID]
		if len(jobs) == 0 {
			// no entry means no worker
			delete(q.pending, chatID)
			q.mu.Unlock()
			return
		}
		job := jobs[0]
		q.pending[chatID] = jobs[1:]
		q.mu.Unlock()

		job()
	}
}

// Wait blocks until every queued job has run.
func (q *chatQueue) Wait() {
	q.wg.Wait()
}
