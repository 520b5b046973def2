package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"sentra/internal/domain"
	"sentra/internal/port"
)

// Session owns the process-wide credentials. All reads and refreshes of the
// stored record happen under one mutex so concurrent runs never race on it.
type Session struct {
	mu        sync.Mutex
	store     port.CredentialStore
	authority port.TokenAuthority
	logger    *zap.Logger
}

func NewSession(store port.CredentialStore, authority port.TokenAuthority, logger *zap.Logger) *Session {
	return &Session{
		store:     store,
		authority: authority,
		logger:    logger,
	}
}

// SessionStatus reports which credentials are currently stored.
type SessionStatus struct {
	HasUserToken   bool
	HasAccessToken bool
}

// SetUserToken registers token with the service and stores it, dropping any
// access token derived from a previous user token.
func (s *Session) SetUserToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ErrNoUserToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authority.RegisterToken(ctx, token); err != nil {
		return fmt.Errorf("register token: %w", err)
	}
	return s.store.Save(domain.Credentials{UserToken: token})
}

func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Save(domain.Credentials{})
}

func (s *Session) Status() (SessionStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.store.Load()
	if err != nil {
		return SessionStatus{}, err
	}
	return SessionStatus{
		HasUserToken:   creds.UserToken != "",
		HasAccessToken: creds.AccessToken != "",
	}, nil
}

// AccessToken returns an access token the service currently accepts. The cached
// token is validated first; otherwise the user token is exchanged for a new one.
func (s *Session) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.store.Load()
	if err != nil {
		return "", fmt.Errorf("load credentials: %w", err)
	}
	if creds.UserToken == "" {
		return "", domain.ErrNoUserToken
	}

	if creds.AccessToken != "" {
		ok, err := s.authority.CheckToken(ctx, creds.AccessToken)
		if err != nil {
			s.logger.Warn("access token check failed", zap.Error(err))
		}
		if ok {
			return creds.AccessToken, nil
		}
		s.logger.Debug("cached access token rejected")
	}

	return s.exchange(ctx, creds.UserToken)
}

// Refresh replaces an access token the service rejected. If another caller has
// already stored a different token, that one is returned instead.
func (s *Session) Refresh(ctx context.Context, rejected string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.store.Load()
	if err != nil {
		return "", fmt.Errorf("load credentials: %w", err)
	}
	if creds.UserToken == "" {
		return "", domain.ErrNoUserToken
	}
	if creds.AccessToken != "" && creds.AccessToken != rejected {
		return creds.AccessToken, nil
	}
	return s.exchange(ctx, creds.UserToken)
}

// exchange must be called with mu held.
func (s *Session) exchange(ctx context.Context, userToken string) (string, error) {
	if err := s.store.Save(domain.Credentials{UserToken: userToken}); err != nil {
		return "", err
	}

	token, err := s.authority.ExchangeToken(ctx, userToken)
	if err != nil {
		s.logger.Warn("user token exchange failed", zap.Error(err))
		if clearErr := s.store.Save(domain.Credentials{}); clearErr != nil {
			s.logger.Error("failed to clear user token", zap.Error(clearErr))
		}
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidUserToken, err)
	}

	if err := s.store.Save(domain.Credentials{UserToken: userToken, AccessToken: token}); err != nil {
		return "", err
	}
	s.logger.Debug("access token refreshed")
	return token, nil
}
