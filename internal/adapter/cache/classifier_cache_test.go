package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sentra/internal/adapter/store"
)

type countingClassifier struct {
	calls  int
	answer string
	err    error
}

func (c *countingClassifier) ExtractBaseClass(_ context.Context, _, _ string) (string, error) {
	c.calls++
	return c.answer, c.err
}

type answer struct {
	text     string
	storedAt time.Time
}

type mapStore struct {
	answers  map[string]answer
	readErr  error
	writeErr error
	deleted  []string
}

func newMapStore() *mapStore {
	return &mapStore{answers: make(map[string]answer)}
}

func (s *mapStore) GetAnswer(key string) (string, time.Time, bool, error) {
	if s.readErr != nil {
		return "", time.Time{}, false, s.readErr
	}
	a, ok := s.answers[key]
	return a.text, a.storedAt, ok, nil
}

func (s *mapStore) PutAnswer(key, text string, storedAt time.Time) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.answers[key] = answer{text: text, storedAt: storedAt}
	return nil
}

func (s *mapStore) DeleteAnswer(key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.answers, key)
	return nil
}

const square = "class Square extends Shape {}"

func TestCachedClassifier_ReusesAnswers(t *testing.T) {
	inner := &countingClassifier{answer: "Shape"}
	cc := NewCachedClassifier(inner, newMapStore(), time.Hour, zap.NewNop())

	for i := 0; i < 3; i++ {
		got, err := cc.ExtractBaseClass(context.Background(), square, "tok")
		require.NoError(t, err)
		assert.Equal(t, "Shape", got)
	}
	assert.Equal(t, 1, inner.calls)

	// empty answers are reused too
	inner.answer = ""
	for i := 0; i < 2; i++ {
		got, err := cc.ExtractBaseClass(context.Background(), "class Shape {}", "tok")
		require.NoError(t, err)
		assert.Empty(t, got)
	}
	assert.Equal(t, 2, inner.calls)
}

func TestCachedClassifier_ExpiredAnswerIsRefetched(t *testing.T) {
	inner := &countingClassifier{answer: "Shape"}
	st := newMapStore()
	cc := NewCachedClassifier(inner, st, time.Hour, zap.NewNop())

	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cc.now = func() time.Time { return clock }

	_, err := cc.ExtractBaseClass(context.Background(), square, "tok")
	require.NoError(t, err)

	clock = clock.Add(59 * time.Minute)
	_, err = cc.ExtractBaseClass(context.Background(), square, "tok")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)

	clock = clock.Add(2 * time.Minute)
	inner.answer = "Polygon"
	got, err := cc.ExtractBaseClass(context.Background(), square, "tok")
	require.NoError(t, err)
	assert.Equal(t, "Polygon", got)
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, []string{cacheKey(square)}, st.deleted)
	assert.Equal(t, clock, st.answers[cacheKey(square)].storedAt)
}

func TestCachedClassifier_ErrorsNotCached(t *testing.T) {
	inner := &countingClassifier{err: errors.New("unavailable")}
	st := newMapStore()
	cc := NewCachedClassifier(inner, st, time.Hour, zap.NewNop())

	_, err := cc.ExtractBaseClass(context.Background(), "x", "tok")
	assert.Error(t, err)
	_, err = cc.ExtractBaseClass(context.Background(), "x", "tok")
	assert.Error(t, err)
	assert.Equal(t, 2, inner.calls)
	assert.Empty(t, st.answers)
}

func TestCachedClassifier_StoreFailuresFallThrough(t *testing.T) {
	inner := &countingClassifier{answer: "Shape"}
	st := newMapStore()
	st.readErr = errors.New("disk gone")
	st.writeErr = errors.New("disk gone")
	cc := NewCachedClassifier(inner, st, time.Hour, zap.NewNop())

	for i := 0; i < 2; i++ {
		got, err := cc.ExtractBaseClass(context.Background(), square, "tok")
		require.NoError(t, err)
		assert.Equal(t, "Shape", got)
	}
	assert.Equal(t, 2, inner.calls)
}

func TestCachedClassifier_PersistsAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	inner := &countingClassifier{answer: "Shape"}

	first, err := store.NewBoltStore(path)
	require.NoError(t, err)
	got, err := NewCachedClassifier(inner, first, time.Hour, zap.NewNop()).
		ExtractBaseClass(context.Background(), square, "tok")
	require.NoError(t, err)
	assert.Equal(t, "Shape", got)
	require.NoError(t, first.Close())

	second, err := store.NewBoltStore(path)
	require.NoError(t, err)
	defer second.Close()
	got, err = NewCachedClassifier(inner, second, time.Hour, zap.NewNop()).
		ExtractBaseClass(context.Background(), square, "tok")
	require.NoError(t, err)
	assert.Equal(t, "Shape", got)
	assert.Equal(t, 1, inner.calls, "the second run is answered from the session store")
}
