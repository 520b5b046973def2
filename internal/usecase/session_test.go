package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sentra/internal/domain"
)

func TestSession_SetUserTokenRegistersAndResets(t *testing.T) {
	store := &memoryStore{creds: domain.Credentials{UserToken: "old", AccessToken: "acc-old"}}
	authority := &fakeAuthority{}
	s := NewSession(store, authority, zap.NewNop())

	require.NoError(t, s.SetUserToken(context.Background(), "  new-token \n"))
	assert.Equal(t, []string{"new-token"}, authority.registered)
	assert.Equal(t, domain.Credentials{UserToken: "new-token"}, store.creds)

	assert.ErrorIs(t, s.SetUserToken(context.Background(), " "), domain.ErrNoUserToken)
}

func TestSession_RegisterFailureKeepsStoredToken(t *testing.T) {
	store := &memoryStore{creds: domain.Credentials{UserToken: "old"}}
	s := NewSession(store, &fakeAuthority{registerErr: errors.New("rejected")}, zap.NewNop())

	assert.Error(t, s.SetUserToken(context.Background(), "new"))
	assert.Equal(t, "old", store.creds.UserToken)
}

func TestSession_AccessTokenReusesValidToken(t *testing.T) {
	store := &memoryStore{creds: domain.Credentials{UserToken: "user", AccessToken: "acc"}}
	authority := &fakeAuthority{valid: map[string]bool{"acc": true}}
	s := NewSession(store, authority, zap.NewNop())

	token, err := s.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "acc", token)
	assert.Zero(t, authority.exchanges)
}

func TestSession_AccessTokenExchangesInvalidToken(t *testing.T) {
	store := &memoryStore{creds: domain.Credentials{UserToken: "user", AccessToken: "expired"}}
	authority := &fakeAuthority{issue: []string{"fresh"}}
	s := NewSession(store, authority, zap.NewNop())

	token, err := s.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
	assert.Equal(t, domain.Credentials{UserToken: "user", AccessToken: "fresh"}, store.creds)
}

func TestSession_FailedExchangeClearsUserToken(t *testing.T) {
	store := &memoryStore{creds: domain.Credentials{UserToken: "bad"}}
	s := NewSession(store, &fakeAuthority{exchangeErr: errors.New("401")}, zap.NewNop())

	_, err := s.AccessToken(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidUserToken)
	assert.Equal(t, domain.Credentials{}, store.creds)

	_, err = s.AccessToken(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoUserToken)
}

func TestSession_RefreshSkipsWhenAlreadyReplaced(t *testing.T) {
	store := &memoryStore{creds: domain.Credentials{UserToken: "user", AccessToken: "acc-2"}}
	authority := &fakeAuthority{issue: []string{"acc-3"}}
	s := NewSession(store, authority, zap.NewNop())

	token, err := s.Refresh(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "acc-2", token)
	assert.Zero(t, authority.exchanges)

	token, err = s.Refresh(context.Background(), "acc-2")
	require.NoError(t, err)
	assert.Equal(t, "acc-3", token)
}

func TestSession_StatusAndClear(t *testing.T) {
	store := &memoryStore{creds: domain.Credentials{UserToken: "user", AccessToken: "acc"}}
	s := NewSession(store, &fakeAuthority{}, zap.NewNop())

	status, err := s.Status()
	require.NoError(t, err)
	assert.Equal(t, SessionStatus{HasUserToken: true, HasAccessToken: true}, status)

	require.NoError(t, s.Clear())
	status, err = s.Status()
	require.NoError(t, err)
	assert.Equal(t, SessionStatus{}, status)
}
