package store

import (
	"context"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// bucketName is the single bucket all keys live in.
var bucketName = []byte("hookgate")

// Bolt is a bbolt-backed Store: a single-file embedded database, suitable
// when persistence is needed without an external service.
type Bolt struct {
	db *bolt.DB
}

// NewBolt opens (creating if necessary) the database file at path.
func NewBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}
	return &Bolt{db: db}, nil
}

// Get implements Store.
func (b *Bolt) Get(ctx context.Context, key string) (string, error) {
	var value string
	found := false
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v != nil {
			// v is only valid inside the transaction.
			value = string(v)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("bolt get %s: %w", key, err)
	}
	if !found {
		return "", ErrNotFound
	}
	return value, nil
}

// Set implements Store.
func (b *Bolt) Set(ctx context.Context, key, value string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("bolt set %s: %w", key, err)
	}
	return nil
}

// Delete implements Store.
func (b *Bolt) Delete(ctx context.Context, key string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("bolt delete %s: %w", key, err)
	}
	return nil
}

// Close implements Store.
func (b *Bolt) Close() error {
	return b.db.Close()
}
