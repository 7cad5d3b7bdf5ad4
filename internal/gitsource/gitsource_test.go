package gitsource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ref     string
		want    string
		wantErr bool
	}{
		{"acme/claude-agents", "https://github.com/acme/claude-agents.git", false},
		{"https://gitlab.com/acme/agents.git", "https://gitlab.com/acme/agents.git", false},
		{"git@github.com:acme/agents.git", "git@github.com:acme/agents.git", false},
		{"", "", true},
		{"not-a-repo", "", true},
		{"a/b/c", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			t.Parallel()
			got, err := NormalizeURL(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeURL(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

// initPackRepo creates a local git repository with the given files so Fetch
// can clone over the file transport.
func initPackRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if err := wt.AddGlob("."); err != nil {
		t.Fatalf("add: %v", err)
	}
	_, err = wt.Commit("pack", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com"},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return dir
}

func TestFetchAgentsDir(t *testing.T) {
	t.Parallel()

	src := initPackRepo(t, map[string]string{
		"agents/core/code-reviewer.md": "---\nname: code-reviewer\ndescription: d\n---\n\nbody\n",
		"README.md":                    "pack readme",
	})

	pack, err := Fetch(context.Background(), src)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	defer pack.Close()

	if filepath.Base(pack.Dir) != "agents" {
		t.Errorf("Dir = %q, want .../agents", pack.Dir)
	}
	if _, err := os.Stat(filepath.Join(pack.Dir, "core", "code-reviewer.md")); err != nil {
		t.Errorf("persona missing in pack: %v", err)
	}
}

func TestFetchRootLayout(t *testing.T) {
	t.Parallel()

	src := initPackRepo(t, map[string]string{
		"code-reviewer.md": "---\nname: code-reviewer\ndescription: d\n---\n\nbody\n",
	})

	pack, err := Fetch(context.Background(), src)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	defer pack.Close()

	if _, err := os.Stat(filepath.Join(pack.Dir, "code-reviewer.md")); err != nil {
		t.Errorf("persona missing in pack: %v", err)
	}
}

func TestFetchNoAgents(t *testing.T) {
	t.Parallel()

	src := initPackRepo(t, map[string]string{
		"README.md": "nothing here",
		"main.go":   "package main",
	})

	_, err := Fetch(context.Background(), src)
	if !errors.Is(err, ErrNoAgents) {
		t.Errorf("Fetch() error = %v, want ErrNoAgents", err)
	}
}

func TestPackCloseRemovesCheckout(t *testing.T) {
	t.Parallel()

	src := initPackRepo(t, map[string]string{
		"agents/code-reviewer.md": "---\nname: code-reviewer\ndescription: d\n---\n\nbody\n",
	})
	pack, err := Fetch(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	if err := pack.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(pack.Dir); !os.IsNotExist(err) {
		t.Errorf("checkout should be removed after Close, stat err = %v", err)
	}
}
