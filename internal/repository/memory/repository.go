package memory

import (
	"context"
	"sync"

	"mailgun-mock/internal/model"
)

// InMemoryMessageRepository keeps messages for the lifetime of the process.
// The backing slice is never modified in place: every write swaps in a new
// slice, so a reader holding the lock always sees a whole state.
type InMemoryMessageRepository struct {
	messages []*model.Message
	mutex    sync.RWMutex
}

func NewInMemoryMessageRepository() *InMemoryMessageRepository {
	return &InMemoryMessageRepository{
		messages: []*model.Message{},
	}
}

func (r *InMemoryMessageRepository) Ingest(ctx context.Context, message *model.Message) {
	stored := message.Clone()

	r.mutex.Lock()
	defer r.mutex.Unlock()

	next := make([]*model.Message, 0, len(r.messages)+1)
	next = append(next, &stored)
	next = append(next, r.messages...)
	r.messages = next
}

func (r *InMemoryMessageRepository) Snapshot(ctx context.Context) []model.Message {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]model.Message, 0, len(r.messages))
	for _, message := range r.messages {
		result = append(result, message.Clone())
	}
	return result
}

func (r *InMemoryMessageRepository) Clear(ctx context.Context) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.messages = []*model.Message{}
}

func (r *InMemoryMessageRepository) Len(ctx context.Context) int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.messages)
}
