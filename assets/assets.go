// Package assets embeds the persona corpus and scaffolding templates
// shipped with the squad binary.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed agents
var corpusFS embed.FS

//go:embed templates
var templateFS embed.FS

// Corpus returns the embedded persona corpus rooted at the category
// directories (orchestrators/, core/, universal/, specialized/).
func Corpus() fs.FS {
	sub, err := fs.Sub(corpusFS, "agents")
	if err != nil {
		// The agents directory is embedded at build time; its absence is
		// a packaging bug, not a runtime condition.
		panic(err)
	}
	return sub
}

// Templates returns the embedded scaffolding templates.
func Templates() fs.FS {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// PersonaTemplate is the skeleton used by `squad new`.
const PersonaTemplate = "persona.md.tmpl"
