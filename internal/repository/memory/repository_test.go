package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailgun-mock/internal/model"
)

func newMessage(id, subject string) *model.Message {
	msg := model.NewMessage(id, time.Now())
	msg.Subject = subject
	return msg
}

func TestIngestPrependsNewestFirst(t *testing.T) {
	repo := NewInMemoryMessageRepository()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		repo.Ingest(ctx, newMessage(fmt.Sprint(i), fmt.Sprintf("Subject %d", i)))
	}

	snapshot := repo.Snapshot(ctx)
	require.Len(t, snapshot, 5)
	for i, msg := range snapshot {
		assert.Equal(t, fmt.Sprint(5-i), msg.ID)
	}
	assert.Equal(t, 5, repo.Len(ctx))
}

func TestIngestKeepsDuplicates(t *testing.T) {
	repo := NewInMemoryMessageRepository()
	ctx := context.Background()

	repo.Ingest(ctx, newMessage("1", "Same"))
	repo.Ingest(ctx, newMessage("2", "Same"))

	assert.Len(t, repo.Snapshot(ctx), 2)
}

func TestClearEmptiesStore(t *testing.T) {
	repo := NewInMemoryMessageRepository()
	ctx := context.Background()

	repo.Ingest(ctx, newMessage("1", "First"))
	repo.Ingest(ctx, newMessage("2", "Second"))
	repo.Clear(ctx)

	assert.Empty(t, repo.Snapshot(ctx))
	assert.Equal(t, 0, repo.Len(ctx))

	repo.Ingest(ctx, newMessage("3", "Third"))
	snapshot := repo.Snapshot(ctx)
	require.Len(t, snapshot, 1)
	assert.Equal(t, "Third", snapshot[0].Subject)
}

func TestSnapshotIsReadOnlyView(t *testing.T) {
	repo := NewInMemoryMessageRepository()
	ctx := context.Background()

	msg := newMessage("1", "Original")
	msg.AttachmentNames = []string{"a.pdf"}
	repo.Ingest(ctx, msg)

	// mutating the caller's message after ingest must not leak in
	msg.Subject = "Changed by caller"

	snapshot := repo.Snapshot(ctx)
	snapshot[0].Subject = "Changed by reader"
	snapshot[0].AttachmentNames[0] = "b.pdf"

	again := repo.Snapshot(ctx)
	assert.Equal(t, "Original", again[0].Subject)
	assert.Equal(t, []string{"a.pdf"}, again[0].AttachmentNames)
}

func TestConcurrentSnapshotsSeeWholeStates(t *testing.T) {
	repo := NewInMemoryMessageRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				repo.Ingest(ctx, newMessage(fmt.Sprintf("%d-%d", w, i), "x"))
				if i%25 == 0 {
					repo.Clear(ctx)
				}
			}
		}(w)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			for _, msg := range repo.Snapshot(ctx) {
				assert.NotEmpty(t, msg.ID)
			}
		}
	}()
	wg.Wait()
}
