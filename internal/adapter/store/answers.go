package store

import (
	"encoding/json"
	"time"

	"go.etcd.io/bbolt"
)

var bucketClassifier = []byte("classifier")

type answerRecord struct {
	Answer   string    `json:"answer"`
	StoredAt time.Time `json:"storedAt"`
}

// GetAnswer returns the classifier answer stored under key. A record that no
// longer decodes is reported as absent.
func (s *BoltStore) GetAnswer(key string) (string, time.Time, bool, error) {
	var rec answerRecord
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketClassifier).Get([]byte(key))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil
		}
		found = true
		return nil
	})
	if err != nil || !found {
		return "", time.Time{}, false, err
	}
	return rec.Answer, rec.StoredAt, true, nil
}

func (s *BoltStore) PutAnswer(key, answer string, storedAt time.Time) error {
	data, err := json.Marshal(answerRecord{Answer: answer, StoredAt: storedAt})
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketClassifier).Put([]byte(key), data)
	})
}

func (s *BoltStore) DeleteAnswer(key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketClassifier).Delete([]byte(key))
	})
}
