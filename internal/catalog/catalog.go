// Package catalog discovers sub-agent personas across the three scopes the
// host tool reads them from: the corpus embedded in the binary, the user's
// ~/.claude/agents directory, and a project's .claude/agents directory.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/squad-ai/squad/internal/agent"
)

// ErrDuplicateAgent indicates two files in one scope declare the same name.
var ErrDuplicateAgent = errors.New("catalog: duplicate agent name")

// Catalog is an indexed set of persona definitions.
type Catalog struct {
	agents []*agent.Definition
	byName map[string]*agent.Definition
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{byName: make(map[string]*agent.Definition)}
}

// Load walks fsys and parses every .md file as a persona. The category is
// the file's directory path relative to the FS root. Files that fail to
// parse abort the load; a corpus with broken files should be linted, not
// silently filtered.
func Load(fsys fs.FS, scope agent.Scope) (*Catalog, error) {
	c := New()
	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(p, ".md") {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("catalog: read %s: %w", p, err)
		}
		def, err := agent.Parse(data)
		if err != nil {
			return fmt.Errorf("catalog: %s: %w", p, err)
		}
		def.Scope = scope
		def.Path = p
		def.Category = categoryOf(p)
		return c.add(def)
	})
	if err != nil {
		return nil, err
	}
	c.sort()
	return c, nil
}

// LoadDir loads personas from a directory on disk. A missing directory is
// not an error; it yields an empty catalog, matching how the host treats an
// absent .claude/agents.
func LoadDir(dir string, scope agent.Scope) (*Catalog, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("catalog: %s is not a directory", dir)
	}

	c, err := Load(os.DirFS(dir), scope)
	if err != nil {
		return nil, err
	}
	// Rewrite paths to absolute disk paths for reporting.
	for _, def := range c.agents {
		def.Path = filepath.Join(dir, filepath.FromSlash(def.Path))
	}
	return c, nil
}

// Merge combines catalogs with later arguments taking precedence on name
// collisions. Callers pass scopes in ascending priority:
// embedded, user, project. Definitions are copied, so the inputs stay
// usable after merging.
func Merge(catalogs ...*Catalog) *Catalog {
	merged := New()
	index := make(map[string]int)
	for _, c := range catalogs {
		if c == nil {
			continue
		}
		for _, def := range c.agents {
			clone := *def
			if i, ok := index[clone.Name]; ok {
				merged.agents[i] = &clone
				merged.byName[clone.Name] = &clone
				continue
			}
			index[clone.Name] = len(merged.agents)
			merged.byName[clone.Name] = &clone
			merged.agents = append(merged.agents, &clone)
		}
	}
	merged.sort()
	return merged
}

// Get returns the persona with the given name.
func (c *Catalog) Get(name string) (*agent.Definition, bool) {
	def, ok := c.byName[name]
	return def, ok
}

// All returns every persona sorted by category then name.
func (c *Catalog) All() []*agent.Definition {
	out := make([]*agent.Definition, len(c.agents))
	copy(out, c.agents)
	return out
}

// Len returns the number of personas in the catalog.
func (c *Catalog) Len() int {
	return len(c.agents)
}

// Categories returns the sorted distinct category names.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, def := range c.agents {
		if !seen[def.Category] {
			seen[def.Category] = true
			out = append(out, def.Category)
		}
	}
	sort.Strings(out)
	return out
}

// ByCategory returns personas in the given category, sorted by name.
func (c *Catalog) ByCategory(category string) []*agent.Definition {
	var out []*agent.Definition
	for _, def := range c.agents {
		if def.Category == category {
			out = append(out, def)
		}
	}
	return out
}

func (c *Catalog) add(def *agent.Definition) error {
	if def.Name == "" {
		return fmt.Errorf("catalog: %s: persona has no name", def.Path)
	}
	if existing, ok := c.byName[def.Name]; ok {
		return fmt.Errorf("%w: %q defined in %s and %s", ErrDuplicateAgent, def.Name, existing.Path, def.Path)
	}
	c.byName[def.Name] = def
	c.agents = append(c.agents, def)
	return nil
}

func (c *Catalog) sort() {
	sort.Slice(c.agents, func(i, j int) bool {
		if c.agents[i].Category != c.agents[j].Category {
			return c.agents[i].Category < c.agents[j].Category
		}
		return c.agents[i].Name < c.agents[j].Name
	})
}

func categoryOf(p string) string {
	dir := path.Dir(p)
	if dir == "." {
		return ""
	}
	return dir
}

// UserDir returns the user-scope agents directory (~/.claude/agents).
func UserDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("catalog: resolve home directory: %w", err)
	}
	return filepath.Join(home, ".claude", "agents"), nil
}

// ProjectDir returns the project-scope agents directory for a project root.
func ProjectDir(root string) string {
	return filepath.Join(root, ".claude", "agents")
}
