// Package scaffold generates new persona files from the embedded skeleton
// template. Rendering is strict: missing keys and leftover template tokens
// are errors, so a half-filled persona never reaches the corpus.
package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/squad-ai/squad/internal/lint"
)

// Sentinel errors for scaffolding.
var (
	// ErrTemplateNotFound indicates the skeleton template is missing.
	ErrTemplateNotFound = errors.New("scaffold: template not found")
	// ErrMissingKey indicates the template referenced an unset field.
	ErrMissingKey = errors.New("scaffold: missing template key")
	// ErrUnexpandedToken indicates tokens survived rendering.
	ErrUnexpandedToken = errors.New("scaffold: unexpanded token in output")
	// ErrExists indicates the output file already exists.
	ErrExists = errors.New("scaffold: file already exists")
)

// unexpandedTokenPattern detects leftover dynamic tokens in rendered output.
var unexpandedTokenPattern = regexp.MustCompile(`\{\{\.?[A-Za-z_][A-Za-z0-9_.]*\}\}`)

// Persona is the data rendered into the skeleton.
type Persona struct {
	Name        string
	Title       string
	Description string
	Tools       string
	Category    string
}

// NewPersona normalizes scaffold inputs: the title is derived from the
// name, tools are joined comma-separated, and the category defaults to
// "custom".
func NewPersona(name, description string, tools []string, category string) Persona {
	title := cases.Title(language.English).String(strings.ReplaceAll(name, "-", " "))
	if category == "" {
		category = "custom"
	}
	return Persona{
		Name:        name,
		Title:       title,
		Description: description,
		Tools:       strings.Join(tools, ", "),
		Category:    category,
	}
}

// Generator renders persona skeletons from a template filesystem.
type Generator struct {
	fsys fs.FS
}

// NewGenerator creates a Generator over the given template filesystem.
func NewGenerator(fsys fs.FS) *Generator {
	return &Generator{fsys: fsys}
}

// Render produces the persona file content for p.
func (g *Generator) Render(templateName string, p Persona) ([]byte, error) {
	content, err := fs.ReadFile(g.fsys, templateName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateName)
	}

	tmpl, err := template.New(templateName).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("scaffold: parse %q: %w", templateName, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingKey, err)
	}

	result := buf.Bytes()
	if loc := unexpandedTokenPattern.Find(result); loc != nil {
		return nil, fmt.Errorf("%w: found %q", ErrUnexpandedToken, string(loc))
	}
	return result, nil
}

// Generate renders the skeleton and writes it under dir as <name>.md,
// refusing to overwrite existing files, invalid names, and unknown tools.
func (g *Generator) Generate(templateName string, p Persona, dir string) (string, error) {
	if err := validate(p); err != nil {
		return "", err
	}

	content, err := g.Render(templateName, p)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, p.Name+".md")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%w: %s", ErrExists, path)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("scaffold: create %s: %w", dir, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("scaffold: write %s: %w", path, err)
	}
	return path, nil
}

var namePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// validate applies the corpus naming and tool rules before any file is
// written, mirroring the hard-error rules in the lint package.
func validate(p Persona) error {
	if p.Name == "" {
		return fmt.Errorf("scaffold: persona name is required")
	}
	if !namePattern.MatchString(p.Name) {
		return fmt.Errorf("scaffold: name %q must contain only lowercase letters, numbers, and hyphens", p.Name)
	}
	if len(p.Name) < 3 || len(p.Name) > 50 {
		return fmt.Errorf("scaffold: name %q must be 3-50 characters", p.Name)
	}
	for _, tool := range strings.Split(p.Tools, ",") {
		tool = strings.TrimSpace(tool)
		if tool == "" {
			continue
		}
		known := false
		for _, t := range lint.KnownTools {
			if t == tool {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("scaffold: unknown tool %q", tool)
		}
	}
	return nil
}
