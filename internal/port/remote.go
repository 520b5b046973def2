package port

import (
	"context"

	"sentra/internal/domain"
)

// Classifier asks the remote service for the ancestor of the class in source.
// An empty answer means no ancestor was reported.
type Classifier interface {
	ExtractBaseClass(ctx context.Context, source, accessToken string) (string, error)
}

// Merger folds a class and its ancestor chain into one compilation unit.
type Merger interface {
	MergeClass(ctx context.Context, source, accessToken string) (string, error)
}

type TestGenerator interface {
	GenerateUnitTest(ctx context.Context, task domain.GenerationTask, accessToken string) (domain.GenerationResult, error)
}

// TokenAuthority registers user tokens and issues access tokens.
type TokenAuthority interface {
	RegisterToken(ctx context.Context, userToken string) error
	ExchangeToken(ctx context.Context, userToken string) (string, error)
	CheckToken(ctx context.Context, accessToken string) (bool, error)
}
