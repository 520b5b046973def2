package usecase

import (
	"context"
	"errors"
	"regexp"
	"sync"

	"sentra/internal/domain"
)

var extendsRe = regexp.MustCompile(`class\s+(\w+)\s+extends\s+(\w+)`)

// fakeClassifier reports the first "class X extends Y" it sees.
type fakeClassifier struct {
	mu    sync.Mutex
	calls int
	err   error
	fixed *string
}

func (f *fakeClassifier) ExtractBaseClass(_ context.Context, source, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if f.fixed != nil {
		return *f.fixed, nil
	}
	if m := extendsRe.FindStringSubmatch(source); m != nil {
		return m[2], nil
	}
	return "", nil
}

type fakeMerger struct {
	mu      sync.Mutex
	sources []string
	err     error
}

func (f *fakeMerger) MergeClass(_ context.Context, source, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources = append(f.sources, source)
	if f.err != nil {
		return "", f.err
	}
	return "MERGED[" + source + "]", nil
}

type generateCall struct {
	task  domain.GenerationTask
	token string
}

// fakeGenerator answers every category with a test named after the unit and
// category. hook runs before each answer and may override it.
type fakeGenerator struct {
	mu    sync.Mutex
	calls []generateCall
	hook  func(n int, task domain.GenerationTask, token string) error
}

func (f *fakeGenerator) GenerateUnitTest(_ context.Context, task domain.GenerationTask, token string) (domain.GenerationResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, generateCall{task: task, token: token})
	n := len(f.calls)
	hook := f.hook
	f.mu.Unlock()

	if hook != nil {
		if err := hook(n, task, token); err != nil {
			return domain.GenerationResult{}, err
		}
	}
	name := "test_" + task.UnitName + "_" + string(task.Category)
	return domain.GenerationResult{
		UnitTest:       "// " + name + "\n",
		GeneratedTests: name + ";",
	}, nil
}

func (f *fakeGenerator) categoriesFor(unit string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		if c.task.UnitName == unit {
			out = append(out, string(c.task.Category))
		}
	}
	return out
}

type fakeAuthority struct {
	mu          sync.Mutex
	valid       map[string]bool
	issue       []string
	exchanges   int
	registered  []string
	exchangeErr error
	registerErr error
}

func (f *fakeAuthority) RegisterToken(_ context.Context, userToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.registerErr != nil {
		return f.registerErr
	}
	f.registered = append(f.registered, userToken)
	return nil
}

func (f *fakeAuthority) ExchangeToken(_ context.Context, userToken string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exchanges++
	if f.exchangeErr != nil {
		return "", f.exchangeErr
	}
	if len(f.issue) == 0 {
		return "", errors.New("no tokens left")
	}
	token := f.issue[0]
	f.issue = f.issue[1:]
	if f.valid == nil {
		f.valid = make(map[string]bool)
	}
	f.valid[token] = true
	return token, nil
}

func (f *fakeAuthority) CheckToken(_ context.Context, accessToken string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.valid[accessToken], nil
}

func (f *fakeAuthority) revoke(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.valid, token)
}

type memoryStore struct {
	mu    sync.Mutex
	creds domain.Credentials
	saves int
}

func (m *memoryStore) Load() (domain.Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds, nil
}

func (m *memoryStore) Save(creds domain.Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = creds
	m.saves++
	return nil
}

func (m *memoryStore) Close() error { return nil }
