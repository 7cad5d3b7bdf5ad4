// Package deploy installs a persona corpus into a .claude/agents directory,
// tracking every written file in a manifest so updates can skip unchanged
// files and refuse to clobber user edits without --force.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for deployment.
var (
	// ErrPathTraversal indicates a source path would escape the target root.
	ErrPathTraversal = errors.New("deploy: path escapes target directory")
	// ErrDrift indicates a tracked file was modified outside the deployer.
	ErrDrift = errors.New("deploy: local modifications present, use --force to overwrite")
)

// Options control a deployment run.
type Options struct {
	// Source labels the manifest entries (e.g. "embedded" or a git URL).
	Source string
	// Version is recorded in the manifest.
	Version string
	// Force overwrites drifted and user-owned files instead of keeping them.
	Force bool
	// Categories filters which top-level corpus directories deploy.
	// Empty means all.
	Categories []string
	// Progress, when set, is called once per considered corpus file.
	Progress func(path string)
	// Logger receives per-file progress; nil discards it.
	Logger *slog.Logger
}

// Result summarizes a deployment run.
type Result struct {
	Written int
	Skipped int
	// Preserved counts existing files the deployer left alone because
	// they belong to the user, not the corpus.
	Preserved int
}

// Deployer writes persona files from a source FS into a target directory.
type Deployer struct {
	fsys fs.FS
}

// NewDeployer creates a Deployer over the given corpus filesystem.
// In production the fs.FS comes from go:embed; tests use fstest.MapFS.
func NewDeployer(fsys fs.FS) *Deployer {
	return &Deployer{fsys: fsys}
}

// Count returns how many corpus files a deploy with the given category
// filter would consider. Callers size progress bars with it.
func (d *Deployer) Count(categories []string) (int, error) {
	n := 0
	err := fs.WalkDir(d.fsys, ".", func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		if categorySelected(path, categories) {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Deploy walks the corpus and writes every .md file under target,
// preserving the category directory layout. Unchanged files are skipped.
// An existing file the manifest does not track is a user file: it is
// recorded as such and never overwritten without opts.Force. Tracked
// files with local edits fail the run unless opts.Force is set. The
// context is checked before each file so large deploys cancel promptly.
func (d *Deployer) Deploy(ctx context.Context, target string, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	}
	target = filepath.Clean(target)

	manifest, err := LoadManifest(target, opts.Version)
	if err != nil {
		return nil, err
	}
	manifest.Version = opts.Version

	result := &Result{}
	dirty := false
	err = fs.WalkDir(d.fsys, ".", func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if path == "." || entry.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".md") {
			return nil
		}
		if !categorySelected(path, opts.Categories) {
			return nil
		}
		if err := validateTargetPath(target, path); err != nil {
			return err
		}
		if opts.Progress != nil {
			defer opts.Progress(path)
		}

		content, err := fs.ReadFile(d.fsys, path)
		if err != nil {
			return fmt.Errorf("deploy: read %s: %w", path, err)
		}

		dst := filepath.Join(target, filepath.FromSlash(path))
		existing, readErr := os.ReadFile(dst)
		if readErr == nil && !opts.Force {
			if string(existing) == string(content) {
				result.Skipped++
				return nil
			}
			if !manifest.Tracked(path) {
				// The file was there before the deployer ever ran, so
				// it is the user's. Remember that and keep hands off.
				manifest.RecordUser(path, existing)
				dirty = true
				result.Preserved++
				logger.Warn("keeping pre-existing user file", "path", dst)
				return nil
			}
			if manifest.UserOwned(path) {
				result.Preserved++
				return nil
			}
			if manifest.Drifted(path, existing) {
				return fmt.Errorf("%w: %s", ErrDrift, dst)
			}
		}
		if readErr == nil && opts.Force && string(existing) == string(content) {
			result.Skipped++
			return nil
		}

		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("deploy: create %s: %w", filepath.Dir(dst), err)
		}
		if err := os.WriteFile(dst, content, 0o644); err != nil {
			return fmt.Errorf("deploy: write %s: %w", dst, err)
		}
		manifest.Record(path, opts.Source, content)
		dirty = true
		result.Written++
		logger.Debug("deployed persona", "path", dst)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if dirty {
		if err := manifest.Save(target); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// validateTargetPath rejects sources that would resolve outside target.
func validateTargetPath(target, path string) error {
	dst := filepath.Join(target, filepath.FromSlash(path))
	rel, err := filepath.Rel(target, dst)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrPathTraversal, path)
	}
	return nil
}

// categorySelected applies the category filter to a corpus-relative path.
// Matching is by path prefix so "specialized" selects all its stacks and
// "specialized/django" selects one.
func categorySelected(path string, categories []string) bool {
	if len(categories) == 0 {
		return true
	}
	dir := filepath.ToSlash(filepath.Dir(path))
	for _, cat := range categories {
		cat = strings.Trim(filepath.ToSlash(cat), "/")
		if dir == cat || strings.HasPrefix(dir, cat+"/") {
			return true
		}
	}
	return false
}
