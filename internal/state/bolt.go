package state

import (
	"context"
	"time"

	bolt "go.etcd.io/bbolt"
)

const stateBucket = "state"

// BoltStore keeps the state space in a single bbolt file. Suited to
// single-node deployments where no external database is available.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the database file and ensures the state
// bucket exists.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(stateBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Get(_ context.Context, address string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket([]byte(stateBucket)).Get([]byte(address))
		if value == nil {
			return nil
		}
		// bbolt values are only valid inside the transaction.
		out = make([]byte, len(value))
		copy(out, value)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BoltStore) Set(_ context.Context, address string, data []byte) ([]string, error) {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(stateBucket)).Put([]byte(address), data)
	})
	if err != nil {
		return nil, err
	}
	return []string{address}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
