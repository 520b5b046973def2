package cli

import (
	"fmt"
	"os"
	"strings"

	"sentra/internal/adapter/api"
	"sentra/internal/adapter/cache"
	"sentra/internal/adapter/extractor"
	"sentra/internal/adapter/fs"
	"sentra/internal/adapter/memstore"
	"sentra/internal/adapter/store"
	"sentra/internal/port"
	"sentra/internal/usecase"
)

// UserTokenEnv supplies a user token for a single process, bypassing the
// persisted session.
const UserTokenEnv = "SENTRA_USER_TOKEN"

// app holds the collaborators shared by the commands of one process.
type app struct {
	client  *api.Client
	store   port.CredentialStore
	answers port.AnswerStore // nil when nothing is persisted
	session *usecase.Session
}

func openApp() (*app, error) {
	cfg := GetConfig()

	var st port.CredentialStore
	var answers port.AnswerStore
	if token := strings.TrimSpace(os.Getenv(UserTokenEnv)); token != "" {
		st = memstore.NewMemoryStore(token)
	} else {
		path, err := cfg.SessionStorePath()
		if err != nil {
			return nil, fmt.Errorf("failed to locate session store: %w", err)
		}
		bolt, err := store.NewBoltStore(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open session store: %w", err)
		}
		st = bolt
		answers = bolt
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
	return &app{
		client:  client,
		store:   st,
		answers: answers,
		session: usecase.NewSession(st, client, logger),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func (a *app) generator() *usecase.GenerateUseCase {
	cfg := GetConfig()

	ext := extractor.New()
	walker := fs.NewWalker(cfg.Workspace.Includes, cfg.Workspace.Excludes)
	var classifier port.Classifier = a.client
	if a.answers != nil && cfg.Cache.ClassifierTTL > 0 {
		classifier = cache.NewCachedClassifier(a.client, a.answers, cfg.Cache.ClassifierTTL, logger)
	}
	resolver := usecase.NewBaseClassResolver(ext, classifier, a.client, walker, walker, logger)

	return usecase.NewGenerateUseCase(ext, resolver, a.client, fs.NewArtifactWriter(cfg.Output.DirName), a.session, logger)
}
