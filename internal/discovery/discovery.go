// Package discovery finds documentation files under a root directory,
// honoring glob-style exclusion patterns.
package discovery

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// markdownExtensions are the file extensions treated as documentation.
var markdownExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
}

// Discover walks root recursively and returns the repository-relative,
// slash-separated paths of every markdown file not matching an exclude
// pattern. Results are sorted for deterministic runs.
func Discover(root string, excludes []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && excluded(rel+"/", excludes) {
				return filepath.SkipDir
			}
			return nil
		}

		if !markdownExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if excluded(rel, excludes) {
			return nil
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// excluded reports whether a slash-separated relative path matches any
// pattern. Directories carry a trailing slash; "dir/**" patterns match the
// directory itself, pruning the whole subtree.
func excluded(rel string, patterns []string) bool {
	rel = strings.TrimSuffix(rel, "/")
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
