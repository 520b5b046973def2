package store

import (
	"encoding/json"

	"go.etcd.io/bbolt"
)

// CurrentSchemaVersion is the current schema version.
// Increment this when the credential record changes shape.
const CurrentSchemaVersion = 1

var keySchemaVersion = []byte("schema_version")

// SchemaVersion returns the stored schema version, 0 for a new database.
func (s *BoltStore) SchemaVersion() (int, error) {
	var version int
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMeta).Get(keySchemaVersion)
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &version); err != nil {
			version = 0
		}
		return nil
	})
	return version, err
}

// Migrate brings the database to CurrentSchemaVersion. Records written by an
// older layout are dropped, which forces the user to enter the token again.
func (s *BoltStore) Migrate() error {
	version, err := s.SchemaVersion()
	if err != nil {
		return err
	}
	if version == CurrentSchemaVersion {
		return nil
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if version != 0 {
			if err := tx.DeleteBucket(bucketSession); err != nil && err != bbolt.ErrBucketNotFound {
				return err
			}
			if _, err := tx.CreateBucket(bucketSession); err != nil {
				return err
			}
		}
		data, err := json.Marshal(CurrentSchemaVersion)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(keySchemaVersion, data)
	})
}
