package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
	"sentra/internal/domain"
)

var (
	bucketSession  = []byte("session")
	bucketMeta     = []byte("meta")
	keyCredentials = []byte("credentials")
)

// BoltStore persists session credentials and classifier answers in a
// single-file bbolt database.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create session dir: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketSession, bucketMeta, bucketClassifier} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &BoltStore{db: db}
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Load returns the stored credentials; a fresh store yields the zero value.
func (s *BoltStore) Load() (domain.Credentials, error) {
	var creds domain.Credentials
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSession).Get(keyCredentials)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &creds)
	})
	return creds, err
}

func (s *BoltStore) Save(creds domain.Credentials) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if creds == (domain.Credentials{}) {
			return b.Delete(keyCredentials)
		}
		data, err := json.Marshal(creds)
		if err != nil {
			return err
		}
		return b.Put(keyCredentials, data)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
