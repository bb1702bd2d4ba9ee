package thumbnail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filebox/internal/blob"
	"filebox/internal/domain/files"
	"filebox/internal/queue"
)

type fakeFileStore struct {
	nodes map[string]*files.File
	err   error
}

func (f *fakeFileStore) GetByIDAndOwner(ctx context.Context, id string, userID int64) (*files.File, error) {
	if f.err != nil {
		return nil, f.err
	}
	n, ok := f.nodes[id]
	if !ok || n.UserID != userID {
		return nil, files.ErrNotFound
	}
	return n, nil
}

type fakeBlobs struct {
	data    map[string][]byte
	readErr error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{data: make(map[string][]byte)}
}

func (f *fakeBlobs) Read(locator string) ([]byte, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	d, ok := f.data[locator]
	if !ok {
		return nil, blob.ErrNotFound
	}
	return d, nil
}

func (f *fakeBlobs) Write(locator string, data []byte) error {
	f.data[locator] = data
	return nil
}

func newTestQueue(t *testing.T, maxAttempts int) *queue.Store {
	t.Helper()
	q, err := queue.Open("", maxAttempts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = q.Close() })
	return q
}

func TestWorker_ProducesAllThreeWidths(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t, 3)
	blobs := newFakeBlobs()
	blobs.data["orig"] = testPNG(t, 800, 600)
	store := &fakeFileStore{nodes: map[string]*files.File{
		"img1": {ID: "img1", UserID: 1, Kind: files.KindImage, Locator: "orig"},
	}}

	require.NoError(t, q.Enqueue(ctx, queue.Job{FileID: "img1", UserID: 1}))

	w := NewWorker(q, store, blobs, time.Millisecond)
	require.NoError(t, w.processOne(ctx))

	for _, width := range Widths {
		assert.Contains(t, blobs.data, blob.DerivativeLocator("orig", width))
	}

	_, err := q.Dequeue(ctx)
	assert.ErrorIs(t, err, queue.ErrEmpty, "completed job must be acknowledged")
}

func TestWorker_RerunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t, 3)
	blobs := newFakeBlobs()
	blobs.data["orig"] = testPNG(t, 400, 400)
	store := &fakeFileStore{nodes: map[string]*files.File{
		"img1": {ID: "img1", UserID: 1, Kind: files.KindImage, Locator: "orig"},
	}}
	w := NewWorker(q, store, blobs, time.Millisecond)

	require.NoError(t, q.Enqueue(ctx, queue.Job{FileID: "img1", UserID: 1}))
	require.NoError(t, w.processOne(ctx))

	first := make(map[string][]byte)
	for _, width := range Widths {
		loc := blob.DerivativeLocator("orig", width)
		first[loc] = blobs.data[loc]
	}

	// Redelivery of the same job.
	require.NoError(t, q.Enqueue(ctx, queue.Job{FileID: "img1", UserID: 1}))
	require.NoError(t, w.processOne(ctx))

	for loc, want := range first {
		assert.Equal(t, want, blobs.data[loc], "rerun must overwrite with identical bytes")
	}
}

func TestWorker_MissingFileIsPermanent(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t, 3)
	w := NewWorker(q, &fakeFileStore{nodes: map[string]*files.File{}}, newFakeBlobs(), time.Millisecond)

	require.NoError(t, q.Enqueue(ctx, queue.Job{FileID: "gone", UserID: 1}))
	require.NoError(t, w.processOne(ctx))

	_, err := q.Dequeue(ctx)
	assert.ErrorIs(t, err, queue.ErrEmpty)

	dead, err := q.DeadLetters(ctx)
	require.NoError(t, err)
	require.Len(t, dead, 1)
	assert.Equal(t, "file not found", dead[0].Reason)
}

func TestWorker_NonImageIsPermanent(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t, 3)
	store := &fakeFileStore{nodes: map[string]*files.File{
		"f1": {ID: "f1", UserID: 1, Kind: files.KindFile, Locator: "loc"},
	}}
	w := NewWorker(q, store, newFakeBlobs(), time.Millisecond)

	require.NoError(t, q.Enqueue(ctx, queue.Job{FileID: "f1", UserID: 1}))
	require.NoError(t, w.processOne(ctx))

	dead, err := q.DeadLetters(ctx)
	require.NoError(t, err)
	require.Len(t, dead, 1)
	assert.Equal(t, "file is not an image", dead[0].Reason)
}

func TestWorker_TransientReadFailureRetries(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t, 3)
	blobs := newFakeBlobs()
	blobs.readErr = errors.New("store unavailable")
	store := &fakeFileStore{nodes: map[string]*files.File{
		"img1": {ID: "img1", UserID: 1, Kind: files.KindImage, Locator: "orig"},
	}}
	w := NewWorker(q, store, blobs, time.Millisecond)

	require.NoError(t, q.Enqueue(ctx, queue.Job{FileID: "img1", UserID: 1}))

	err := w.processOne(ctx)
	assert.ErrorIs(t, err, errRetryLater)

	j, err := q.Dequeue(ctx)
	require.NoError(t, err, "transient failure keeps the job pending")
	assert.Equal(t, 1, j.Attempts)

	// Store recovers; the redelivered job completes.
	blobs.readErr = nil
	blobs.data["orig"] = testPNG(t, 300, 200)
	require.NoError(t, w.processOne(ctx))
	assert.Contains(t, blobs.data, blob.DerivativeLocator("orig", 100))
}

func TestWorker_UndecodableImageStillCompletes(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t, 3)
	blobs := newFakeBlobs()
	blobs.data["orig"] = []byte("corrupt")
	store := &fakeFileStore{nodes: map[string]*files.File{
		"img1": {ID: "img1", UserID: 1, Kind: files.KindImage, Locator: "orig"},
	}}
	w := NewWorker(q, store, blobs, time.Millisecond)

	require.NoError(t, q.Enqueue(ctx, queue.Job{FileID: "img1", UserID: 1}))
	require.NoError(t, w.processOne(ctx))

	// Per-width failures are logged, the job itself is done.
	_, err := q.Dequeue(ctx)
	assert.ErrorIs(t, err, queue.ErrEmpty)
	dead, err := q.DeadLetters(ctx)
	require.NoError(t, err)
	assert.Empty(t, dead)
}

func TestWorker_RunStopsOnCancel(t *testing.T) {
	q := newTestQueue(t, 3)
	w := NewWorker(q, &fakeFileStore{nodes: map[string]*files.File{}}, newFakeBlobs(), time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
}
