package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"sentra/internal/domain"
)

const DefaultOutputDir = "sentra-unittests"

// ArtifactWriter persists generated tests under a fixed per-project layout.
type ArtifactWriter struct {
	dirName string
}

func NewArtifactWriter(dirName string) *ArtifactWriter {
	if dirName == "" {
		dirName = DefaultOutputDir
	}
	return &ArtifactWriter{dirName: dirName}
}

func (w *ArtifactWriter) Path(a domain.Artifact) string {
	return filepath.Join(a.ProjectDir, w.dirName, a.SourceBase, string(a.Category), a.UnitName+"."+a.Ext)
}

// Write creates the category directory and replaces the artifact in one rename,
// so readers never observe a partially written file.
func (w *ArtifactWriter) Write(a domain.Artifact) (string, error) {
	path := w.Path(a)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(a.Content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename %s: %w", path, err)
	}
	return path, nil
}
