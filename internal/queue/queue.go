// Package queue is a durable job queue backed by BadgerDB. Jobs survive a
// process crash between enqueue and consumption. Delivery is at-least-once:
// a job is only removed once the consumer acknowledges it, so a crash mid-job
// redelivers on the next poll. Jobs that exhaust their attempts, or fail
// permanently, move under a dead-letter prefix for operator inspection and
// are never retried automatically.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

var ErrEmpty = errors.New("queue is empty")

const (
	pendingPrefix = "pending/"
	deadPrefix    = "dead/"
	seqKey        = "seq/jobs"
)

// Job asks the worker to generate derivatives for one file.
type Job struct {
	ID         string    `json:"id"`
	FileID     string    `json:"fileId"`
	UserID     int64     `json:"userId"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
	Attempts   int       `json:"attempts"`

	// seq orders the job in the pending keyspace; set by Enqueue and
	// restored by Dequeue so Ack and Retry can find the entry again.
	seq uint64
}

// DeadJob is a job that will not run again, kept for inspection.
type DeadJob struct {
	Job      Job       `json:"job"`
	Reason   string    `json:"reason"`
	FailedAt time.Time `json:"failedAt"`
}

type Store struct {
	db          *badger.DB
	seq         *badger.Sequence
	maxAttempts int
}

// Open creates or reopens the queue at dir. An empty dir yields an in-memory
// queue for tests. maxAttempts bounds redelivery before dead-lettering.
func Open(dir string, maxAttempts int) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	seq, err := db.GetSequence([]byte(seqKey), 64)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, seq: seq, maxAttempts: maxAttempts}, nil
}

// Enqueue durably submits a job. The write is committed before return, so a
// crash immediately after still delivers the job.
func (s *Store) Enqueue(ctx context.Context, j Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	if j.EnqueuedAt.IsZero() {
		j.EnqueuedAt = time.Now().UTC()
	}
	n, err := s.seq.Next()
	if err != nil {
		return fmt.Errorf("failed to reserve job sequence: %w", err)
	}
	j.seq = n

	value, err := json.Marshal(j)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(pendingKey(j.seq), value)
	})
}

// Dequeue returns the oldest pending job without removing it, or ErrEmpty.
// With a single consumer the same job is returned until Ack, Retry or Kill
// settles it.
func (s *Store) Dequeue(ctx context.Context) (*Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var j *Job
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(pendingPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		it.Rewind()
		if !it.Valid() {
			return ErrEmpty
		}
		item := it.Item()
		var decoded Job
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &decoded)
		}); err != nil {
			return err
		}
		var seq uint64
		if _, err := fmt.Sscanf(string(item.Key()), pendingPrefix+"%020d", &seq); err != nil {
			return fmt.Errorf("malformed pending key %q: %w", item.Key(), err)
		}
		decoded.seq = seq
		j = &decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return j, nil
}

// Ack removes a completed job.
func (s *Store) Ack(ctx context.Context, j *Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(pendingKey(j.seq))
	})
}

// Retry records a transient failure. The job stays pending with its attempt
// count bumped; once attempts reach the bound it is dead-lettered instead.
func (s *Store) Retry(ctx context.Context, j *Job, reason string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	j.Attempts++
	if j.Attempts >= s.maxAttempts {
		return s.bury(j, fmt.Sprintf("retries exhausted: %s", reason))
	}
	value, err := json.Marshal(j)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(pendingKey(j.seq), value)
	})
}

// Kill dead-letters a job immediately. Used for permanent failures where a
// retry can never succeed.
func (s *Store) Kill(ctx context.Context, j *Job, reason string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.bury(j, reason)
}

// DeadLetters lists jobs in the dead-letter state, oldest first.
func (s *Store) DeadLetters(ctx context.Context) ([]DeadJob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var dead []DeadJob
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(deadPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var d DeadJob
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &d)
			}); err != nil {
				return err
			}
			dead = append(dead, d)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dead, nil
}

func (s *Store) Close() error {
	if err := s.seq.Release(); err != nil {
		_ = s.db.Close()
		return err
	}
	return s.db.Close()
}

func (s *Store) bury(j *Job, reason string) error {
	value, err := json.Marshal(DeadJob{Job: *j, Reason: reason, FailedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(pendingKey(j.seq)); err != nil {
			return err
		}
		return txn.Set(deadKey(j.seq), value)
	})
}

func pendingKey(seq uint64) []byte {
	return fmt.Appendf(nil, pendingPrefix+"%020d", seq)
}

func deadKey(seq uint64) []byte {
	return fmt.Appendf(nil, deadPrefix+"%020d", seq)
}
