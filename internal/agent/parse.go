package agent

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sentinel errors for persona parsing.
var (
	// ErrMissingFrontmatter indicates the document did not start with a YAML fence.
	ErrMissingFrontmatter = errors.New("agent: missing frontmatter")
	// ErrMalformedFrontmatter indicates the YAML block could not be parsed.
	ErrMalformedFrontmatter = errors.New("agent: malformed frontmatter")
)

// frontmatter mirrors the YAML block of a persona file. The tools field
// accepts either a comma-separated scalar (the original corpus convention)
// or a YAML sequence, so it is decoded into a yaml.Node first.
type frontmatter struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Tools       yaml.Node `yaml:"tools"`
	Model       string    `yaml:"model"`
	Color       string    `yaml:"color"`
}

// ParseFile reads and parses a persona file from disk.
func ParseFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("agent: read %s: %w", path, err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	def.Path = path
	return def, nil
}

// Parse splits a persona document into frontmatter and body.
// The document must start with a `---` fence; CRLF line endings are
// normalized before splitting.
func Parse(content []byte) (*Definition, error) {
	if len(content) == 0 {
		return nil, ErrMissingFrontmatter
	}
	normalized := bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return nil, ErrMissingFrontmatter
	}
	rest := normalized[4:]
	parts := bytes.SplitN(rest, []byte("\n---\n"), 2)
	if len(parts) < 2 {
		// A fence at EOF without a trailing newline still closes the block.
		if trimmed, ok := bytes.CutSuffix(rest, []byte("\n---")); ok {
			parts = [][]byte{trimmed, nil}
		} else {
			return nil, ErrMalformedFrontmatter
		}
	}

	var fm frontmatter
	if err := yaml.Unmarshal(parts[0], &fm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrontmatter, err)
	}

	tools, err := decodeTools(&fm.Tools)
	if err != nil {
		return nil, err
	}

	return &Definition{
		Name:        fm.Name,
		Description: fm.Description,
		Tools:       tools,
		Model:       fm.Model,
		Color:       fm.Color,
		Body:        strings.TrimSpace(string(parts[1])),
	}, nil
}

// decodeTools normalizes the tools field into a string slice.
func decodeTools(node *yaml.Node) ([]string, error) {
	switch node.Kind {
	case 0: // absent
		return nil, nil
	case yaml.ScalarNode:
		if strings.TrimSpace(node.Value) == "" {
			return nil, nil
		}
		parts := strings.Split(node.Value, ",")
		tools := make([]string, 0, len(parts))
		for _, p := range parts {
			if t := strings.TrimSpace(p); t != "" {
				tools = append(tools, t)
			}
		}
		return tools, nil
	case yaml.SequenceNode:
		var tools []string
		if err := node.Decode(&tools); err != nil {
			return nil, fmt.Errorf("%w: tools: %v", ErrMalformedFrontmatter, err)
		}
		return tools, nil
	default:
		return nil, fmt.Errorf("%w: tools must be a string or a list", ErrMalformedFrontmatter)
	}
}

// Encode renders a Definition back to fenced Markdown. Tools are written
// comma-separated, matching the corpus convention.
func Encode(def *Definition) ([]byte, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("agent: definition missing name")
	}

	type wire struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Tools       string `yaml:"tools,omitempty"`
		Model       string `yaml:"model,omitempty"`
		Color       string `yaml:"color,omitempty"`
	}
	data, err := yaml.Marshal(wire{
		Name:        def.Name,
		Description: def.Description,
		Tools:       strings.Join(def.Tools, ", "),
		Model:       def.Model,
		Color:       def.Color,
	})
	if err != nil {
		return nil, fmt.Errorf("agent: encode frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(bytes.TrimRight(data, "\n"))
	buf.WriteString("\n---\n\n")
	buf.WriteString(def.Body)
	if !strings.HasSuffix(def.Body, "\n") {
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}
