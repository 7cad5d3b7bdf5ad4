package agent

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const samplePersona = `---
name: laravel-backend-expert
description: Builds Laravel backend features. Use proactively for PHP work.
tools: Read, Write, Edit, Bash
model: sonnet
---

# Laravel Backend Expert

You are a senior Laravel developer.

## Core Expertise
- Eloquent ORM
`

func TestParse(t *testing.T) {
	t.Parallel()

	def, err := Parse([]byte(samplePersona))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if def.Name != "laravel-backend-expert" {
		t.Errorf("Name = %q, want %q", def.Name, "laravel-backend-expert")
	}
	wantTools := []string{"Read", "Write", "Edit", "Bash"}
	if !reflect.DeepEqual(def.Tools, wantTools) {
		t.Errorf("Tools = %v, want %v", def.Tools, wantTools)
	}
	if def.Model != "sonnet" {
		t.Errorf("Model = %q, want %q", def.Model, "sonnet")
	}
	if !strings.HasPrefix(def.Body, "# Laravel Backend Expert") {
		t.Errorf("Body should start with the main header, got %q", def.Body[:40])
	}
}

func TestParseToolsList(t *testing.T) {
	t.Parallel()

	content := "---\nname: reviewer\ndescription: Reviews code\ntools:\n  - Read\n  - Grep\n---\n\nBody here.\n"
	def, err := Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := []string{"Read", "Grep"}
	if !reflect.DeepEqual(def.Tools, want) {
		t.Errorf("Tools = %v, want %v", def.Tools, want)
	}
}

func TestParseCRLF(t *testing.T) {
	t.Parallel()

	content := strings.ReplaceAll(samplePersona, "\n", "\r\n")
	def, err := Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse() with CRLF error = %v", err)
	}
	if def.Name != "laravel-backend-expert" {
		t.Errorf("Name = %q after CRLF normalization", def.Name)
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"empty", "", ErrMissingFrontmatter},
		{"no fence", "# Just a doc\n", ErrMissingFrontmatter},
		{"unclosed fence", "---\nname: x\n", ErrMalformedFrontmatter},
		{"invalid yaml", "---\nname: [broken\n---\nbody\n", ErrMalformedFrontmatter},
		{"tools mapping", "---\nname: x\ntools:\n  a: b\n---\nbody\n", ErrMalformedFrontmatter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.content))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseFenceAtEOF(t *testing.T) {
	t.Parallel()

	def, err := Parse([]byte("---\nname: minimal\ndescription: d\n---"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if def.Name != "minimal" || def.Body != "" {
		t.Errorf("got name=%q body=%q, want minimal with empty body", def.Name, def.Body)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	orig := &Definition{
		Name:        "code-reviewer",
		Description: "Reviews code for correctness. Use proactively after changes.",
		Tools:       []string{"Read", "Grep", "Glob"},
		Body:        "# Code Reviewer\n\nYou review diffs.",
	}
	data, err := Encode(orig)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	parsed, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Encode()) error = %v", err)
	}
	if parsed.Name != orig.Name || parsed.Description != orig.Description {
		t.Errorf("round trip lost metadata: %+v", parsed)
	}
	if !reflect.DeepEqual(parsed.Tools, orig.Tools) {
		t.Errorf("Tools = %v, want %v", parsed.Tools, orig.Tools)
	}
	if parsed.Body != orig.Body {
		t.Errorf("Body = %q, want %q", parsed.Body, orig.Body)
	}
}

func TestEncodeMissingName(t *testing.T) {
	t.Parallel()

	if _, err := Encode(&Definition{Description: "d"}); err == nil {
		t.Error("Encode() should fail without a name")
	}
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "laravel-backend-expert.md")
	if err := os.WriteFile(path, []byte(samplePersona), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	def, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if def.Path != path {
		t.Errorf("Path = %q, want %q", def.Path, path)
	}

	if _, err := ParseFile(filepath.Join(dir, "missing.md")); err == nil {
		t.Error("ParseFile() should fail for a missing file")
	}
}
