// Package integrations wraps the external collaborators of a validation run.
package integrations

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// GitRunner enumerates changed files for incremental validation.
type GitRunner struct {
	workDir string
}

// NewGitRunner creates a GitRunner for the given repository directory.
func NewGitRunner(workDir string) *GitRunner {
	return &GitRunner{workDir: workDir}
}

// ChangedFiles returns paths changed since base (committed changes) plus any
// modified or untracked files in the working tree. Paths are slash-separated,
// deduplicated, and relative to the runner's directory; working tree changes
// outside that directory are skipped.
func (g *GitRunner) ChangedFiles(ctx context.Context, base string) ([]string, error) {
	if base == "" {
		base = "HEAD"
	}

	diffOut, err := g.run(ctx, "diff", "--name-only", "--relative", base)
	if err != nil {
		return nil, fmt.Errorf("enumerate changed files against %s: %w", base, err)
	}

	statusOut, err := g.run(ctx, "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("enumerate working tree changes: %w", err)
	}

	// Porcelain paths are repo-root-relative no matter where git runs;
	// rebase them onto the runner's directory.
	prefix, err := g.run(ctx, "rev-parse", "--show-prefix")
	if err != nil {
		return nil, fmt.Errorf("resolve repository prefix: %w", err)
	}
	prefix = strings.TrimSpace(prefix)

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		path = filepath.ToSlash(strings.TrimSpace(path))
		if path == "" || seen[path] {
			return
		}
		seen[path] = true
		files = append(files, path)
	}

	for _, line := range strings.Split(strings.TrimSpace(diffOut), "\n") {
		add(line)
	}
	// Only the trailing newline may be trimmed here: the first porcelain
	// line of a tracked modification starts with a significant space.
	for _, line := range strings.Split(strings.TrimRight(statusOut, "\n"), "\n") {
		if len(line) <= 3 {
			continue
		}
		// Porcelain format: XY <path>, with "old -> new" for renames.
		path := line[3:]
		if idx := strings.Index(path, " -> "); idx >= 0 {
			path = path[idx+4:]
		}
		if prefix != "" {
			if !strings.HasPrefix(path, prefix) {
				continue
			}
			path = path[len(prefix):]
		}
		add(path)
	}

	return files, nil
}

// run executes a git command and returns stdout.
func (g *GitRunner) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.workDir
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}
