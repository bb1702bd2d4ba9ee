// Package cache wraps BadgerDB as an expiring key-value store. Session
// lifetimes live entirely here: an entry past its TTL is gone, so "expired"
// and "never existed" are the same observable outcome.
package cache

import (
	"errors"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

type Cache struct {
	db *badger.DB
}

// Open creates or reopens the cache at dir. An empty dir yields an in-memory
// cache, which tests use.
func Open(dir string) (*Cache, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Set stores value under key for ttl. A ttl of zero stores without expiry.
func (c *Cache) Set(key, value string, ttl time.Duration) error {
	return c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), []byte(value))
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

// Get returns the value for key and whether it was present. Expired entries
// report absent.
func (c *Cache) Get(key string) (string, bool, error) {
	var value string
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Delete removes key. Deleting an absent key is not an error.
func (c *Cache) Delete(key string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Alive reports whether the store is usable.
func (c *Cache) Alive() bool {
	return c.db != nil && !c.db.IsClosed()
}

func (c *Cache) Close() error {
	return c.db.Close()
}
