package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go.uber.org/zap"

	"sentra/internal/port"
)

// CachedClassifier reuses classifier answers persisted in an AnswerStore for
// up to ttl. Failures are not cached, and a store error never fails a
// classification.
type CachedClassifier struct {
	classifier port.Classifier
	store      port.AnswerStore
	ttl        time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

func NewCachedClassifier(classifier port.Classifier, store port.AnswerStore, ttl time.Duration, logger *zap.Logger) *CachedClassifier {
	return &CachedClassifier{
		classifier: classifier,
		store:      store,
		ttl:        ttl,
		logger:     logger,
		now:        time.Now,
	}
}

func cacheKey(source string) string {
	hash := sha256.Sum256([]byte(source))
	return hex.EncodeToString(hash[:16])
}

func (c *CachedClassifier) ExtractBaseClass(ctx context.Context, source, accessToken string) (string, error) {
	key := cacheKey(source)

	answer, storedAt, ok, err := c.store.GetAnswer(key)
	switch {
	case err != nil:
		c.logger.Warn("classifier cache read failed", zap.String("key", key), zap.Error(err))
	case ok && c.now().Sub(storedAt) <= c.ttl:
		c.logger.Debug("classifier cache hit", zap.String("key", key), zap.String("answer", answer))
		return answer, nil
	case ok:
		if err := c.store.DeleteAnswer(key); err != nil {
			c.logger.Warn("failed to drop expired classifier answer", zap.String("key", key), zap.Error(err))
		}
	}

	answer, err = c.classifier.ExtractBaseClass(ctx, source, accessToken)
	if err != nil {
		return "", err
	}

	if err := c.store.PutAnswer(key, answer, c.now()); err != nil {
		c.logger.Warn("classifier cache write failed", zap.String("key", key), zap.Error(err))
	}
	return answer, nil
}
