package queue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, maxAttempts int) *Store {
	t.Helper()
	s, err := Open("", maxAttempts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_EnqueueDequeueFIFO(t *testing.T) {
	s := newTestStore(t, 3)
	ctx := context.Background()

	require.NoError(t, s.Enqueue(ctx, Job{FileID: "first", UserID: 1}))
	require.NoError(t, s.Enqueue(ctx, Job{FileID: "second", UserID: 1}))

	j, err := s.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", j.FileID)
	assert.NotEmpty(t, j.ID)
	assert.False(t, j.EnqueuedAt.IsZero())

	require.NoError(t, s.Ack(ctx, j))

	j, err = s.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", j.FileID)
}

func TestStore_DequeueEmpty(t *testing.T) {
	s := newTestStore(t, 3)

	_, err := s.Dequeue(context.Background())
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestStore_DequeueRedeliversUntilAck(t *testing.T) {
	s := newTestStore(t, 3)
	ctx := context.Background()

	require.NoError(t, s.Enqueue(ctx, Job{FileID: "f1", UserID: 1}))

	first, err := s.Dequeue(ctx)
	require.NoError(t, err)

	again, err := s.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	require.NoError(t, s.Ack(ctx, first))
	_, err = s.Dequeue(ctx)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestStore_RetryIncrementsAttempts(t *testing.T) {
	s := newTestStore(t, 3)
	ctx := context.Background()

	require.NoError(t, s.Enqueue(ctx, Job{FileID: "flaky", UserID: 1}))

	j, err := s.Dequeue(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Retry(ctx, j, "store unavailable"))

	j, err = s.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, j.Attempts)
}

func TestStore_RetryDeadLettersAtBound(t *testing.T) {
	s := newTestStore(t, 2)
	ctx := context.Background()

	require.NoError(t, s.Enqueue(ctx, Job{FileID: "doomed", UserID: 1}))

	for i := 0; i < 2; i++ {
		j, err := s.Dequeue(ctx)
		if err != nil {
			break
		}
		require.NoError(t, s.Retry(ctx, j, "still failing"))
	}

	_, err := s.Dequeue(ctx)
	assert.ErrorIs(t, err, ErrEmpty, "exhausted job must leave the pending queue")

	dead, err := s.DeadLetters(ctx)
	require.NoError(t, err)
	require.Len(t, dead, 1)
	assert.Equal(t, "doomed", dead[0].Job.FileID)
	assert.Contains(t, dead[0].Reason, "retries exhausted")
}

func TestStore_KillDeadLettersImmediately(t *testing.T) {
	s := newTestStore(t, 5)
	ctx := context.Background()

	require.NoError(t, s.Enqueue(ctx, Job{FileID: "not-an-image", UserID: 1}))

	j, err := s.Dequeue(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Kill(ctx, j, "file is not an image"))

	_, err = s.Dequeue(ctx)
	assert.ErrorIs(t, err, ErrEmpty)

	dead, err := s.DeadLetters(ctx)
	require.NoError(t, err)
	require.Len(t, dead, 1)
	assert.Equal(t, "file is not an image", dead[0].Reason)
	assert.Zero(t, dead[0].Job.Attempts)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(dir, 3)
	require.NoError(t, err)
	require.NoError(t, s.Enqueue(ctx, Job{FileID: "durable", UserID: 9}))
	require.NoError(t, s.Close())

	s, err = Open(dir, 3)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	j, err := s.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "durable", j.FileID)
	assert.Equal(t, int64(9), j.UserID)
}

func TestStore_CancelledContext(t *testing.T) {
	s := newTestStore(t, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, s.Enqueue(ctx, Job{FileID: "x"}))
	_, err := s.Dequeue(ctx)
	assert.Error(t, err)
}
