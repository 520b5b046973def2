package port

import (
	"time"

	"sentra/internal/domain"
)

// CredentialStore persists the session credentials across invocations.
type CredentialStore interface {
	Load() (domain.Credentials, error)
	Save(creds domain.Credentials) error
	Close() error
}

// AnswerStore persists classifier answers keyed by a digest of the classified
// source, together with the time they were stored.
type AnswerStore interface {
	GetAnswer(key string) (answer string, storedAt time.Time, ok bool, err error)
	PutAnswer(key, answer string, storedAt time.Time) error
	DeleteAnswer(key string) error
}
