package walker

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

type FileInfo struct {
	Path string
	Size int64
}

// WalkResult carries every regular file found under the root, sorted by full
// path, plus any non-fatal errors hit along the way (unreadable entries,
// permission problems on subtrees).
type WalkResult struct {
	Files  []FileInfo
	Errors []error
}

// Walk collects all files under rootPath, skipping anything matched by the
// exclusion patterns. The result is sorted lexicographically by path so the
// payload layout downstream is deterministic. An error on the root itself is
// fatal; errors deeper in the tree are recorded and the walk continues.
func Walk(rootPath string, exclusions []string) (*WalkResult, error) {
	result := &WalkResult{
		Files:  make([]FileInfo, 0),
		Errors: make([]error, 0),
	}

	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == rootPath {
				return err
			}
			result.Errors = append(result.Errors, err)
			return nil
		}

		relPath, err := filepath.Rel(rootPath, path)
		if err != nil {
			result.Errors = append(result.Errors, err)
			return nil
		}

		if shouldExclude(relPath, exclusions) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			result.Errors = append(result.Errors, err)
			return nil
		}

		result.Files = append(result.Files, FileInfo{
			Path: path,
			Size: info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})

	return result, nil
}

// shouldExclude matches relPath against the exclusion patterns. Patterns
// ending in "/" exclude any directory component of that name; other patterns
// match the base name, or the full relative path when they contain a "/".
func shouldExclude(relPath string, exclusions []string) bool {
	for _, pattern := range exclusions {
		if strings.HasSuffix(pattern, "/") {
			dirPattern := strings.TrimSuffix(pattern, "/")
			for _, part := range strings.Split(relPath, string(filepath.Separator)) {
				if matched, _ := filepath.Match(dirPattern, part); matched {
					return true
				}
				if part == dirPattern {
					return true
				}
			}
			continue
		}

		if matched, err := filepath.Match(pattern, filepath.Base(relPath)); err == nil && matched {
			return true
		}
		if strings.Contains(pattern, "/") {
			if matched, err := filepath.Match(pattern, relPath); err == nil && matched {
				return true
			}
		}
	}
	return false
}
