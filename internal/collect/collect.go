// Package collect gathers local source files for scan submission.
package collect

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultMaxFiles caps one submission; the server enforces its own limit.
const DefaultMaxFiles = 100

// codeExtensions is the allowlist of file types worth scanning.
var codeExtensions = map[string]bool{
	".ts": true, ".tsx": true, ".js": true, ".jsx": true, ".mjs": true,
	".cjs": true, ".py": true, ".rb": true, ".java": true, ".go": true,
	".rs": true, ".php": true, ".c": true, ".cpp": true, ".cs": true,
	".swift": true, ".kt": true, ".scala": true,
}

// excludedDirs are never descended into. Hidden directories are skipped
// regardless.
var excludedDirs = map[string]bool{
	"node_modules": true,
	"dist":         true,
	"build":        true,
	".next":        true,
	".git":         true,
	"coverage":     true,
	"__pycache__":  true,
	"vendor":       true,
}

// Collector walks a directory tree and returns code files keyed by path
// relative to the root.
type Collector struct {
	maxFiles int
}

// New creates a Collector with the default file cap.
func New() *Collector {
	return &Collector{maxFiles: DefaultMaxFiles}
}

// NewWithLimit creates a Collector with a custom file cap.
func NewWithLimit(maxFiles int) *Collector {
	return &Collector{maxFiles: maxFiles}
}

// Files collects up to the cap of code files under dir.
// Unreadable files are skipped rather than failing the collection.
func (c *Collector) Files(dir string) (map[string]string, error) {
	files := make(map[string]string)

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if len(files) >= c.maxFiles {
			return filepath.SkipAll
		}

		if d.IsDir() {
			if path == dir {
				return nil
			}
			name := d.Name()
			if excludedDirs[name] || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !codeExtensions[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return nil
		}
		files[filepath.ToSlash(rel)] = string(content)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}
