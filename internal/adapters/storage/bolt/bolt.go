// Package bolt implements ports.KeyValueStore on a bbolt database file.
package bolt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/jsamuelsen/zenquote/internal/domain"
)

// Bucket is the single bucket holding every key.
const Bucket = "zenquote"

// openTimeout bounds the wait for the file lock held by another process.
const openTimeout = time.Second

// Store is a bbolt-backed key-value store.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the database at path, creating parent directories.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("opening bolt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(Bucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Get implements ports.KeyValueStore.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var value []byte

	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(Bucket)).Get([]byte(key))
		if v == nil {
			return domain.NewNotFoundError("key", key)
		}

		// v is only valid inside the transaction.
		value = append([]byte(nil), v...)

		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}

	return value, nil
}

// Set implements ports.KeyValueStore.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(Bucket)).Put([]byte(key), value)
	})

	return mapError(err)
}

// Close implements ports.KeyValueStore.
func (s *Store) Close() error {
	return s.db.Close()
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return "storage"
}

// Check implements ports.HealthChecker.
func (s *Store) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return mapError(s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(Bucket)) == nil {
			return fmt.Errorf("bucket %q missing", Bucket)
		}
		return nil
	}))
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case domain.IsNotFound(err):
		return err
	case errors.Is(err, bbolt.ErrDatabaseNotOpen):
		return domain.NewUnavailableError("bolt", "database closed")
	default:
		return fmt.Errorf("bolt: %w", err)
	}
}
