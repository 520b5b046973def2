package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sentra/internal/adapter/extractor"
	"sentra/internal/domain"
	"sentra/internal/port"
)

// TokenSource hands out access tokens for a run.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
	Refresh(ctx context.Context, rejected string) (string, error)
}

// GenerateUseCase drives extraction, ancestor resolution and per-category
// generation for one source file.
type GenerateUseCase struct {
	extractor port.StructuralExtractor
	resolver  *BaseClassResolver
	generator port.TestGenerator
	writer    port.ArtifactWriter
	tokens    TokenSource
	logger    *zap.Logger
	newKey    func() string
}

func NewGenerateUseCase(
	extractor port.StructuralExtractor,
	resolver *BaseClassResolver,
	generator port.TestGenerator,
	writer port.ArtifactWriter,
	tokens TokenSource,
	logger *zap.Logger,
) *GenerateUseCase {
	return &GenerateUseCase{
		extractor: extractor,
		resolver:  resolver,
		generator: generator,
		writer:    writer,
		tokens:    tokens,
		logger:    logger,
		newKey:    uuid.NewString,
	}
}

// GenerateRequest is what a trigger supplies for one invocation.
type GenerateRequest struct {
	Source     domain.SourceUnit
	ProjectDir string

	// SelectionMode restricts generation to Selection; ancestor resolution is skipped.
	SelectionMode bool
	Selection     string
}

// GenerateResult summarizes a finished invocation.
type GenerateResult struct {
	State   domain.RunState
	Units   []domain.CodeUnit
	Written []string
	Failed  int
	Links   []domain.BaseClassLink
}

type runState struct {
	token     string
	refreshed bool
	fatal     error
}

// Run executes one invocation. Input and credential errors are returned before
// any generation call. Cancellation of ctx ends the run with RunCancelled;
// calls already in flight are allowed to complete and their results are kept.
func (u *GenerateUseCase) Run(ctx context.Context, req GenerateRequest, progress port.ProgressFunc) (*GenerateResult, error) {
	src := req.Source
	if strings.TrimSpace(src.Text) == "" {
		return nil, domain.ErrEmptyContent
	}
	if !u.extractor.Supports(src.Lang) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedLanguage, src.Lang)
	}
	if req.SelectionMode && strings.TrimSpace(req.Selection) == "" {
		return nil, domain.ErrEmptySelection
	}
	if progress == nil {
		progress = func(int) {}
	}

	token, err := u.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	run := &runState{token: token}
	result := &GenerateResult{State: domain.RunCompleted}

	content := src.Text
	if !req.SelectionMode {
		resolution := u.resolver.Resolve(ctx, src, run.token)
		content = resolution.Content
		result.Links = resolution.Links
		for _, link := range resolution.Links {
			u.logger.Info("base class",
				zap.String("class", link.ClassName),
				zap.String("ancestor", link.AncestorName),
				zap.Stringer("state", link.State),
				zap.String("path", link.AncestorPath))
		}
	}
	if ctx.Err() != nil {
		result.State = domain.RunCancelled
		return result, nil
	}

	result.Units = u.units(src, content, req)
	u.logger.Info("extracted units", zap.String("file", src.Path), zap.Int("count", len(result.Units)))

	sourceBase := strings.TrimSuffix(filepath.Base(src.Path), filepath.Ext(src.Path))
	ext := strings.TrimPrefix(filepath.Ext(src.Path), ".")
	if ext == "" {
		ext = string(src.Lang)
	}

	for i, unit := range result.Units {
		written, failed, state := u.generateUnit(ctx, run, unit, req.ProjectDir, sourceBase, ext)
		result.Written = append(result.Written, written...)
		result.Failed += failed

		switch state {
		case domain.RunCancelled:
			result.State = domain.RunCancelled
			u.logger.Info("generation cancelled", zap.Int("units_done", i))
			return result, nil
		case domain.RunFailed:
			result.State = domain.RunFailed
			return result, run.fatal
		}

		progress((i + 1) * 100 / len(result.Units))
	}

	return result, nil
}

// units decomposes content into generation targets. When no function can be
// extracted the whole text becomes a single unit named after its class.
func (u *GenerateUseCase) units(src domain.SourceUnit, content string, req GenerateRequest) []domain.CodeUnit {
	lang := src.Lang
	deps := u.extractor.Dependencies(lang, content)
	class := u.extractor.Class(lang, content)
	if req.SelectionMode {
		deps = u.extractor.Dependencies(lang, src.Text)
		class = u.extractor.Class(lang, src.Text)
	}

	body := content
	if req.SelectionMode {
		body = req.Selection
	}
	functions := u.extractor.Functions(lang, class.Name, body)

	if len(functions) == 0 {
		name := class.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(src.Path), filepath.Ext(src.Path))
		}
		text := content
		if req.SelectionMode {
			text = u.extractor.UnitContext(lang, deps, class.Line, req.Selection)
		}
		return []domain.CodeUnit{{ClassName: class.Name, Text: text, Name: name}}
	}

	reactLike := u.extractor.ReactLike(lang, content)
	var names []string
	var units []domain.CodeUnit
	for i, fn := range functions {
		name := u.extractor.FunctionName(lang, fn, reactLike)
		if name == "" {
			u.logger.Debug("skipping unit without a name", zap.Int("index", i))
			continue
		}
		name = extractor.Dedupe(names, name)
		names = append(names, name)

		units = append(units, domain.CodeUnit{
			ClassName: class.Name,
			Text:      u.extractor.UnitContext(lang, deps, class.Line, fn),
			Name:      name,
			Index:     i,
		})
	}
	return units
}

// generateUnit runs the four categories in order, feeding each category the
// test names produced by the previous ones.
func (u *GenerateUseCase) generateUnit(ctx context.Context, run *runState, unit domain.CodeUnit, projectDir, sourceBase, ext string) ([]string, int, domain.RunState) {
	var written []string
	failed := 0
	key := u.newKey()
	var generated strings.Builder

	log := u.logger.With(zap.String("unit", unit.Name), zap.String("key", key))

	for _, category := range domain.Categories() {
		if ctx.Err() != nil {
			return written, failed, domain.RunCancelled
		}

		task := domain.GenerationTask{
			Key:            key,
			UnitName:       unit.Name,
			Context:        unit.Text,
			Category:       category,
			GeneratedTests: generated.String(),
		}
		log.Debug("generating", zap.String("category", string(category)))

		res, err := u.generate(ctx, run, task)
		if run.fatal != nil {
			return written, failed, domain.RunFailed
		}
		if err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				return written, failed, domain.RunCancelled
			}
			log.Warn("category failed", zap.String("category", string(category)), zap.Error(err))
			failed++
			continue
		}

		path, err := u.writer.Write(domain.Artifact{
			ProjectDir: projectDir,
			SourceBase: sourceBase,
			Category:   category,
			UnitName:   unit.Name,
			Ext:        ext,
			Content:    res.UnitTest,
		})
		if err != nil {
			log.Error("failed to write test, skipping rest of unit", zap.Error(err))
			failed++
			return written, failed, domain.RunCompleted
		}
		written = append(written, path)
		generated.WriteString(res.GeneratedTests)
	}

	return written, failed, domain.RunCompleted
}

// generate calls the generator once; a rejected token triggers the run's single
// refresh followed by one retry. A token rejected after that refresh fails the run.
func (u *GenerateUseCase) generate(ctx context.Context, run *runState, task domain.GenerationTask) (domain.GenerationResult, error) {
	res, err := u.generator.GenerateUnitTest(context.WithoutCancel(ctx), task, run.token)
	if err == nil || !errors.Is(err, domain.ErrUnauthorized) {
		return res, err
	}
	if run.refreshed {
		run.fatal = fmt.Errorf("access token rejected after refresh: %w", err)
		return domain.GenerationResult{}, run.fatal
	}

	run.refreshed = true
	u.logger.Info("access token rejected, refreshing")
	token, err := u.tokens.Refresh(context.WithoutCancel(ctx), run.token)
	if err != nil {
		run.fatal = err
		return domain.GenerationResult{}, err
	}
	run.token = token

	if ctx.Err() != nil {
		return domain.GenerationResult{}, ctx.Err()
	}
	res, err = u.generator.GenerateUnitTest(context.WithoutCancel(ctx), task, run.token)
	if errors.Is(err, domain.ErrUnauthorized) {
		run.fatal = fmt.Errorf("access token rejected after refresh: %w", err)
		return domain.GenerationResult{}, run.fatal
	}
	return res, err
}
