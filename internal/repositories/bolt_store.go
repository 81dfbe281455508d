package repositories

import (
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/desertthunder/reelx/internal/shared"
)

var bucketReelx = []byte("reelx")

// BoltStore implements [Store] on a single BoltDB bucket.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore creates the bucket if needed and wraps db.
func NewBoltStore(db *bolt.DB) (*BoltStore, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketReelx)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to create bucket: %v", shared.ErrStorage, err)
	}
	return &BoltStore{db: db}, nil
}

// Get returns a copy of the value stored at key.
func (s *BoltStore) Get(key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketReelx)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			value, found = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("%w: failed to read key %s: %v", shared.ErrStorage, key, err)
	}
	return value, found, nil
}

// Set writes value at key.
func (s *BoltStore) Set(key, value string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketReelx).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("%w: failed to write key %s: %v", shared.ErrStorage, key, err)
	}
	return nil
}

// Delete removes key.
func (s *BoltStore) Delete(key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketReelx).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("%w: failed to delete key %s: %v", shared.ErrStorage, key, err)
	}
	return nil
}

// Close closes the BoltDB file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
