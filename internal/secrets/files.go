package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	kerrors "github.com/PolarWolf314/tc-secrets/internal/errors"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPatterns are used by ResolveFiles when no pattern is given.
var DefaultPatterns = []string{"**/.env*"}

// ResolveFiles takes user-provided paths/globs and returns the matching
// secrets files under root, sorted and deduplicated. Backup copies ending in
// backupSuffix are skipped.
func ResolveFiles(patterns []string, root, backupSuffix string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	var files []string
	seen := make(map[string]bool) // Deduplicate.

	for _, pattern := range patterns {
		resolved, err := resolvePattern(pattern, root, backupSuffix)
		if err != nil {
			return nil, err
		}

		for _, f := range resolved {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}

	if len(files) == 0 {
		return nil, kerrors.ErrNoFilesFound
	}

	sort.Strings(files)
	return files, nil
}

func resolvePattern(pattern, root, backupSuffix string) ([]string, error) {
	absPattern := pattern
	if !filepath.IsAbs(pattern) {
		absPattern = filepath.Join(root, pattern)
	}

	info, err := os.Stat(absPattern)
	if err == nil && info.IsDir() {
		return findFilesInDir(absPattern, backupSuffix)
	}

	if strings.ContainsAny(pattern, "*?[{") {
		return expandGlob(absPattern, pattern, backupSuffix)
	}

	// Treat as literal file path.
	if err != nil {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, pattern)
	}

	return []string{absPattern}, nil
}

func expandGlob(absPattern, pattern, backupSuffix string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(absPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}

	var filtered []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		if isSkipped(m, backupSuffix) {
			continue
		}
		filtered = append(filtered, m)
	}

	return filtered, nil
}

func findFilesInDir(dir, backupSuffix string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if isEnvFile(path) && !isSkipped(path, backupSuffix) {
			files = append(files, path)
		}

		return nil
	})

	return files, err
}

func isEnvFile(path string) bool {
	return strings.Contains(filepath.Base(path), ".env")
}

func isSkipped(path, backupSuffix string) bool {
	if backupSuffix != "" && strings.HasSuffix(path, backupSuffix) {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".git" {
			return true
		}
	}
	return false
}
