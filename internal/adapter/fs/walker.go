package fs

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

type Walker struct {
	includes []string
	excludes []string
}

func NewWalker(includes, excludes []string) *Walker {
	if len(includes) == 0 {
		includes = []string{"**/*"}
	}
	return &Walker{
		includes: includes,
		excludes: excludes,
	}
}

type FileInfo struct {
	Path    string
	ModTime int64
	Size    int64
}

// Walk lists included files under root whose extension is ext ("" for any),
// in lexical order.
func (w *Walker) Walk(root, ext string) ([]FileInfo, error) {
	var files []FileInfo

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if relPath != "." && w.shouldExclude(relPath+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if ext != "" && !strings.EqualFold(strings.TrimPrefix(filepath.Ext(path), "."), ext) {
			return nil
		}

		if w.shouldInclude(relPath) && !w.shouldExclude(relPath) {
			files = append(files, FileInfo{
				Path:    path,
				ModTime: info.ModTime().Unix(),
				Size:    info.Size(),
			})
		}

		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

// FindByName returns the first file under root named "<name>.<ext>".
func (w *Walker) FindByName(root, name, ext string) (string, bool, error) {
	files, err := w.Walk(root, ext)
	if err != nil {
		return "", false, err
	}
	want := name + "." + ext
	for _, f := range files {
		if filepath.Base(f.Path) == want {
			return f.Path, true, nil
		}
	}
	return "", false, nil
}

// FindByContent returns the first file under root with extension ext whose
// content matches pattern. Paths in skip are not considered. Unreadable files
// are reported through onError and skipped.
func (w *Walker) FindByContent(root, ext string, pattern *regexp.Regexp, skip map[string]bool, onError func(path string, err error)) (string, string, bool, error) {
	files, err := w.Walk(root, ext)
	if err != nil {
		return "", "", false, err
	}
	for _, f := range files {
		if skip[f.Path] {
			continue
		}
		content, err := ReadFile(f.Path)
		if err != nil {
			if onError != nil {
				onError(f.Path, err)
			}
			continue
		}
		if pattern.MatchString(content) {
			return f.Path, content, true, nil
		}
	}
	return "", "", false, nil
}

func (w *Walker) shouldInclude(path string) bool {
	for _, pattern := range w.includes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

func (w *Walker) shouldExclude(path string) bool {
	for _, pattern := range w.excludes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (w *Walker) ReadFile(path string) (string, error) {
	return ReadFile(path)
}
