package domain

import "errors"

var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrEmptyContent        = errors.New("source file is empty")
	ErrEmptySelection      = errors.New("selection is empty")

	ErrNoUserToken      = errors.New("no user token set; run `sentra token set`")
	ErrInvalidUserToken = errors.New("user token is invalid; run `sentra token set` with a valid token")

	// ErrUnauthorized marks a remote call rejected because of its access token.
	ErrUnauthorized = errors.New("access token rejected")
)
