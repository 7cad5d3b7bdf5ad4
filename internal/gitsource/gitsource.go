// Package gitsource fetches persona packs from git repositories. A pack is
// any repository carrying persona Markdown files, either under an agents/
// directory or at the repository root.
package gitsource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
)

// ErrNoAgents indicates the cloned repository carries no persona files.
var ErrNoAgents = errors.New("gitsource: repository contains no agent files")

// Pack is a fetched persona pack on local disk.
type Pack struct {
	// URL is the normalized clone URL.
	URL string
	// Dir is the directory holding the pack's persona files.
	Dir string

	cleanup func() error
}

// Close removes the pack's temporary checkout.
func (p *Pack) Close() error {
	if p.cleanup == nil {
		return nil
	}
	return p.cleanup()
}

// NormalizeURL accepts either a full clone URL or the owner/repo shorthand
// and returns a clone URL.
func NormalizeURL(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("gitsource: empty repository reference")
	}
	if strings.Contains(ref, "://") || strings.HasPrefix(ref, "git@") {
		return ref, nil
	}
	// Local paths clone over the file transport; used by tests and for
	// installing packs from checkouts already on disk.
	if filepath.IsAbs(ref) || strings.HasPrefix(ref, ".") {
		return ref, nil
	}
	parts := strings.Split(ref, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("gitsource: reference %q must be a URL or owner/repo", ref)
	}
	return fmt.Sprintf("https://github.com/%s.git", ref), nil
}

// Fetch performs a depth-1 clone of the repository into a temporary
// directory and locates its persona tree. Callers must Close the pack.
func Fetch(ctx context.Context, ref string) (*Pack, error) {
	url, err := NormalizeURL(ref)
	if err != nil {
		return nil, err
	}

	tmp, err := os.MkdirTemp("", "squad-pack-*")
	if err != nil {
		return nil, fmt.Errorf("gitsource: create temp dir: %w", err)
	}
	cleanup := func() error { return os.RemoveAll(tmp) }

	_, err = git.PlainCloneContext(ctx, tmp, false, &git.CloneOptions{
		URL:   url,
		Depth: 1,
	})
	if err != nil {
		_ = cleanup()
		return nil, fmt.Errorf("gitsource: clone %s: %w", url, err)
	}

	dir, err := locateAgents(tmp)
	if err != nil {
		_ = cleanup()
		return nil, err
	}

	return &Pack{URL: url, Dir: dir, cleanup: cleanup}, nil
}

// locateAgents prefers an agents/ subdirectory and falls back to the
// repository root when it holds persona files directly.
func locateAgents(root string) (string, error) {
	agentsDir := filepath.Join(root, "agents")
	if hasMarkdown(agentsDir) {
		return agentsDir, nil
	}
	if hasMarkdown(root) {
		return root, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNoAgents, root)
}

// hasMarkdown reports whether dir contains at least one .md file at any
// depth, excluding the .git tree.
func hasMarkdown(dir string) bool {
	found := false
	_ = filepath.WalkDir(dir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if entry.IsDir() {
			if entry.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		base := entry.Name()
		if strings.HasSuffix(base, ".md") && !strings.HasPrefix(base, "README") {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}
