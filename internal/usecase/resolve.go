package usecase

import (
	"context"
	"path/filepath"
	"regexp"

	"go.uber.org/zap"

	"sentra/internal/domain"
	"sentra/internal/port"
)

// BaseClassResolver folds a class together with its ancestor chain.
type BaseClassResolver struct {
	extractor  port.StructuralExtractor
	classifier port.Classifier
	merger     port.Merger
	workspace  port.Workspace
	reader     port.FileReader
	logger     *zap.Logger
}

func NewBaseClassResolver(
	extractor port.StructuralExtractor,
	classifier port.Classifier,
	merger port.Merger,
	workspace port.Workspace,
	reader port.FileReader,
	logger *zap.Logger,
) *BaseClassResolver {
	return &BaseClassResolver{
		extractor:  extractor,
		classifier: classifier,
		merger:     merger,
		workspace:  workspace,
		reader:     reader,
		logger:     logger,
	}
}

// Resolution is the merged context for one source file and how each ancestor was found.
type Resolution struct {
	Content string
	Links   []domain.BaseClassLink
}

type resolveRun struct {
	src         domain.SourceUnit
	accessToken string
	classes     map[string]bool
	paths       map[string]bool
	links       []domain.BaseClassLink
}

// Resolve never fails: remote and file-system errors degrade to "no ancestor"
// and the content resolved so far is returned.
func (r *BaseClassResolver) Resolve(ctx context.Context, src domain.SourceUnit, accessToken string) Resolution {
	run := &resolveRun{
		src:         src,
		accessToken: accessToken,
		classes:     make(map[string]bool),
		paths:       make(map[string]bool),
	}
	path := src.Path
	if abs, err := filepath.Abs(path); path != "" && err == nil {
		path = abs
	}
	content := r.resolve(ctx, run, src.Text, path)
	return Resolution{Content: content, Links: run.links}
}

func (r *BaseClassResolver) resolve(ctx context.Context, run *resolveRun, text, path string) string {
	if ctx.Err() != nil {
		return text
	}
	if path != "" {
		run.paths[path] = true
	}

	className := r.extractor.Class(run.src.Lang, text).Name
	if className != "" {
		run.classes[className] = true
	}

	ancestor, err := r.classifier.ExtractBaseClass(context.WithoutCancel(ctx), text, run.accessToken)
	if err != nil {
		r.logger.Warn("base class lookup failed", zap.String("class", className), zap.Error(err))
		return text
	}
	if ancestor == "" || ancestor == className {
		return text
	}

	link := domain.BaseClassLink{ClassName: className, AncestorName: ancestor}
	if run.classes[ancestor] {
		r.logger.Warn("inheritance cycle", zap.String("class", className), zap.String("ancestor", ancestor))
		link.State = domain.NotFound
		run.links = append(run.links, link)
		return text
	}
	run.classes[ancestor] = true

	declaration := regexp.MustCompile(`\bclass\s+` + regexp.QuoteMeta(ancestor) + `\b`)
	if declaration.MatchString(text) {
		link.State = domain.SameFile
		link.AncestorPath = path
		run.links = append(run.links, link)
		return r.merge(ctx, run, text, text)
	}

	ancestorPath, ancestorText, state, ok := r.locate(run, ancestor, declaration)
	if !ok {
		link.State = domain.NotFound
		run.links = append(run.links, link)
		r.logger.Debug("base class source not found", zap.String("ancestor", ancestor))
		return text
	}
	link.State = state
	link.AncestorPath = ancestorPath
	run.links = append(run.links, link)

	resolved := r.resolve(ctx, run, ancestorText, ancestorPath)
	return r.merge(ctx, run, text+"\n\n"+resolved, text+"\n\n"+resolved)
}

// locate finds the ancestor's source: first a file named after it, then any
// file declaring it. Visited paths are never returned.
func (r *BaseClassResolver) locate(run *resolveRun, ancestor string, declaration *regexp.Regexp) (string, string, domain.ResolutionState, bool) {
	root, ext := run.src.WorkspaceRoot, string(run.src.Lang)
	if root == "" {
		return "", "", domain.NotFound, false
	}

	path, found, err := r.workspace.FindByName(root, ancestor, ext)
	if err != nil {
		r.logger.Warn("workspace lookup failed", zap.String("ancestor", ancestor), zap.Error(err))
	}
	if found && !run.paths[path] {
		text, err := r.reader.ReadFile(path)
		if err == nil {
			return path, text, domain.FoundInWorkspace, true
		}
		r.logger.Warn("failed to read base class file", zap.String("path", path), zap.Error(err))
	}

	path, text, found, err := r.workspace.FindByContent(root, ext, declaration, run.paths, func(p string, err error) {
		r.logger.Warn("failed to read workspace file", zap.String("path", p), zap.Error(err))
	})
	if err != nil {
		r.logger.Warn("workspace scan failed", zap.String("ancestor", ancestor), zap.Error(err))
		return "", "", domain.NotFound, false
	}
	if !found {
		return "", "", domain.NotFound, false
	}
	return path, text, domain.FoundByContentScan, true
}

// merge asks the service to fold source into one class, returning fallback on failure.
func (r *BaseClassResolver) merge(ctx context.Context, run *resolveRun, source, fallback string) string {
	if ctx.Err() != nil {
		return fallback
	}
	merged, err := r.merger.MergeClass(context.WithoutCancel(ctx), source, run.accessToken)
	if err != nil {
		r.logger.Warn("merge failed, using concatenation", zap.Error(err))
		return fallback
	}
	return merged
}
