// Package agent defines the sub-agent persona model and its on-disk
// Markdown format: a fenced YAML frontmatter block (name, description,
// tools, model, color) followed by the system-prompt body.
package agent

// Scope identifies where a persona definition was discovered.
type Scope string

const (
	// ScopeEmbedded marks personas shipped inside the squad binary.
	ScopeEmbedded Scope = "embedded"
	// ScopeUser marks personas installed under ~/.claude/agents.
	ScopeUser Scope = "user"
	// ScopeProject marks personas under <project>/.claude/agents.
	ScopeProject Scope = "project"
)

// Definition is a parsed sub-agent persona.
type Definition struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Tools       []string `yaml:"-"`
	Model       string   `yaml:"model,omitempty"`
	Color       string   `yaml:"color,omitempty"`

	// Scope, Category, and Path are discovery metadata, not frontmatter.
	Scope    Scope  `yaml:"-"`
	Category string `yaml:"-"`
	Path     string `yaml:"-"`

	// Body is the system-prompt text following the frontmatter.
	Body string `yaml:"-"`
}

// HasTool reports whether the persona requests the named tool.
// An empty tool list means the host grants its default tool set.
func (d *Definition) HasTool(name string) bool {
	for _, t := range d.Tools {
		if t == name {
			return true
		}
	}
	return false
}
