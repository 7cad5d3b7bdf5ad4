// Package lint validates sub-agent persona files: frontmatter schema,
// naming rules, tool grants, and prompt-body structure. Rules split into
// hard errors (the file will not work as a sub-agent) and warnings
// (the file works but will route or read poorly).
package lint

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/squad-ai/squad/internal/agent"
)

// KnownTools lists the tool names the host grants to sub-agents.
var KnownTools = []string{
	"Read", "Write", "Edit", "MultiEdit", "Bash",
	"Grep", "Glob", "WebFetch", "WebSearch",
	"TodoWrite", "ExitPlanMode", "NotebookRead",
	"NotebookEdit", "LS", "Task",
}

// recommendedSections are prompt-body headings that make a persona
// behave predictably; their absence is a warning, not an error.
var recommendedSections = []string{
	"Core Expertise", "Working Principles", "Task Approach",
}

const (
	minNameLen = 3
	maxNameLen = 50
	minDescLen = 20
	maxDescLen = 500
	minBodyLen = 100
	maxBodyLen = 10000
	maxTools   = 10
)

var (
	namePattern   = regexp.MustCompile(`^[a-z0-9-]+$`)
	headerPattern = regexp.MustCompile(`(?m)^#\s+`)
	bulletPattern = regexp.MustCompile(`(?m)^[-*]\s+`)
)

// Report holds the lint result for a single persona file.
type Report struct {
	Path     string   `json:"path"`
	Name     string   `json:"name,omitempty"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Valid reports whether the file passed. Strict mode counts warnings
// as failures.
func (r *Report) Valid(strict bool) bool {
	if len(r.Errors) > 0 {
		return false
	}
	return !strict || len(r.Warnings) == 0
}

func (r *Report) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// File lints a persona file on disk.
func File(path string) *Report {
	report := &Report{Path: path}

	def, err := agent.ParseFile(path)
	if err != nil {
		switch {
		case errors.Is(err, agent.ErrMissingFrontmatter):
			report.errorf("file must start with YAML frontmatter (---)")
		case errors.Is(err, agent.ErrMalformedFrontmatter):
			report.errorf("invalid frontmatter: %v", err)
		default:
			report.errorf("failed to read file: %v", err)
		}
		return report
	}

	report.Name = def.Name
	checkFrontmatter(report, def)
	checkBody(report, def.Body)
	checkFilename(report, path)
	return report
}

// Definition lints an already-parsed persona. Filename rules are applied
// only when def.Path is set.
func Definition(def *agent.Definition) *Report {
	report := &Report{Path: def.Path, Name: def.Name}
	checkFrontmatter(report, def)
	checkBody(report, def.Body)
	if def.Path != "" {
		checkFilename(report, def.Path)
	}
	return report
}

func checkFrontmatter(report *Report, def *agent.Definition) {
	if def.Name == "" {
		report.errorf("missing required field: name")
	} else {
		if !namePattern.MatchString(def.Name) {
			report.errorf("name must contain only lowercase letters, numbers, and hyphens")
		}
		if utf8.RuneCountInString(def.Name) < minNameLen {
			report.errorf("name must be at least %d characters long", minNameLen)
		}
		if utf8.RuneCountInString(def.Name) > maxNameLen {
			report.errorf("name must be less than %d characters", maxNameLen)
		}
	}

	if def.Description == "" {
		report.errorf("missing required field: description")
	} else {
		if utf8.RuneCountInString(def.Description) < minDescLen {
			report.warnf("description should be at least %d characters for better auto-detection", minDescLen)
		}
		if utf8.RuneCountInString(def.Description) > maxDescLen {
			report.warnf("description is very long (>%d chars), consider making it more concise", maxDescLen)
		}
		if !strings.Contains(strings.ToLower(def.Description), "proactively") {
			report.warnf("consider adding 'use proactively' to description for automatic invocation")
		}
	}

	if len(def.Tools) > 0 {
		var invalid []string
		for _, tool := range def.Tools {
			if !knownTool(tool) {
				invalid = append(invalid, tool)
			}
		}
		if len(invalid) > 0 {
			report.errorf("invalid tools: %s", strings.Join(invalid, ", "))
		}
		if len(def.Tools) > maxTools {
			report.warnf("consider if all tools are necessary (>%d tools requested)", maxTools)
		}
	}
}

func checkBody(report *Report, body string) {
	// Length rules count characters, not bytes, so multibyte prompts
	// classify the same as ASCII ones.
	if utf8.RuneCountInString(body) < minBodyLen {
		report.errorf("agent system prompt is too short (<%d characters)", minBodyLen)
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		report.warnf("agent system prompt is very long (>%d characters)", maxBodyLen)
	}

	for _, section := range recommendedSections {
		if !strings.Contains(body, section) {
			report.warnf("missing recommended section: %s", section)
		}
	}

	if !strings.Contains(body, "```") {
		report.warnf("no code examples found - consider adding examples for clarity")
	}
	if !headerPattern.MatchString(body) {
		report.warnf("no main header (# Title) found in body")
	}
	if !bulletPattern.MatchString(body) {
		report.warnf("no bullet lists found - consider using lists for better organization")
	}
}

func checkFilename(report *Report, path string) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ".md") {
		report.errorf("agent files must have .md extension")
	}
	stem := strings.TrimSuffix(base, ".md")
	if !namePattern.MatchString(stem) {
		report.errorf("filename should contain only lowercase letters, numbers, and hyphens")
	}
}

func knownTool(name string) bool {
	for _, t := range KnownTools {
		if t == name {
			return true
		}
	}
	return false
}
