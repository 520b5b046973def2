package port

import (
	"regexp"

	"sentra/internal/domain"
)

// Workspace locates ancestor sources under a workspace root.
type Workspace interface {
	FindByName(root, name, ext string) (string, bool, error)
	FindByContent(root, ext string, pattern *regexp.Regexp, skip map[string]bool, onError func(path string, err error)) (string, string, bool, error)
}

type FileReader interface {
	ReadFile(path string) (string, error)
}

type ArtifactWriter interface {
	Write(a domain.Artifact) (string, error)
}

// ProgressFunc receives the percentage of units completed.
type ProgressFunc func(percent int)
