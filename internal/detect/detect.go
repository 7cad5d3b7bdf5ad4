// Package detect identifies a project's technology stack from its
// filesystem: languages by source-file counts with confidence scoring,
// frameworks by dependency declarations in manifest files. Routing uses
// the result to pick framework specialists over generalists.
package detect

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Language is a detected programming language with confidence scoring.
type Language struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"` // 0.0-1.0 ratio based on file count
	FileCount  int     `json:"file_count"`
}

// Framework is a detected development framework.
type Framework struct {
	Name       string `json:"name"`
	Version    string `json:"version,omitempty"`
	ConfigFile string `json:"config_file"`
}

// Result aggregates everything detected for a project root.
type Result struct {
	Root       string      `json:"root"`
	Languages  []Language  `json:"languages"`
	Frameworks []Framework `json:"frameworks"`
}

// HasFramework reports whether the named framework was detected.
func (r *Result) HasFramework(name string) bool {
	for _, fw := range r.Frameworks {
		if strings.EqualFold(fw.Name, name) {
			return true
		}
	}
	return false
}

// HasLanguage reports whether the named language was detected.
func (r *Result) HasLanguage(name string) bool {
	for _, lang := range r.Languages {
		if strings.EqualFold(lang.Name, name) {
			return true
		}
	}
	return false
}

// PrimaryLanguage returns the highest-confidence language, or "".
func (r *Result) PrimaryLanguage() string {
	if len(r.Languages) == 0 {
		return ""
	}
	return r.Languages[0].Name
}

// Detector scans project roots for stack characteristics.
type Detector struct {
	logger *slog.Logger
}

// NewDetector creates a Detector. A nil logger discards debug output.
func NewDetector(logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Detector{logger: logger}
}

// extensionLanguageMap maps source extensions to language names.
var extensionLanguageMap = map[string]string{
	".go":    "Go",
	".py":    "Python",
	".php":   "PHP",
	".rb":    "Ruby",
	".js":    "JavaScript",
	".jsx":   "JavaScript",
	".ts":    "TypeScript",
	".tsx":   "TypeScript",
	".vue":   "Vue",
	".rs":    "Rust",
	".java":  "Java",
	".kt":    "Kotlin",
	".swift": "Swift",
	".cs":    "C#",
	".ex":    "Elixir",
	".exs":   "Elixir",
}

// configFileLanguageMap maps manifest files to the language they indicate,
// used when no source files were counted (fresh or sparse checkouts).
var configFileLanguageMap = map[string]string{
	"package.json":     "JavaScript",
	"go.mod":           "Go",
	"pyproject.toml":   "Python",
	"requirements.txt": "Python",
	"composer.json":    "PHP",
	"Gemfile":          "Ruby",
	"Cargo.toml":       "Rust",
	"pom.xml":          "Java",
	"build.gradle":     "Java",
	"mix.exs":          "Elixir",
}

// skipDirs lists directories to skip during filesystem walks.
var skipDirs = map[string]bool{
	".git":         true,
	".claude":      true,
	".squad":       true,
	"node_modules": true,
	"vendor":       true,
	".venv":        true,
	"__pycache__":  true,
	"target":       true,
	"build":        true,
	"dist":         true,
	".next":        true,
}

// Detect runs language and framework detection over a project root.
func (d *Detector) Detect(root string) (*Result, error) {
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("detect: stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("detect: %s is not a directory", root)
	}

	languages, err := d.detectLanguages(root)
	if err != nil {
		return nil, err
	}
	frameworks := d.detectFrameworks(root)

	d.logger.Debug("stack detected", "root", root,
		"languages", len(languages), "frameworks", len(frameworks))

	return &Result{Root: root, Languages: languages, Frameworks: frameworks}, nil
}

func (d *Detector) detectLanguages(root string) ([]Language, error) {
	langCounts := make(map[string]int)
	totalFiles := 0

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if entry.IsDir() {
			name := entry.Name()
			if skipDirs[name] || (strings.HasPrefix(name, ".") && path != root) {
				return filepath.SkipDir
			}
			return nil
		}
		if lang, ok := extensionLanguageMap[filepath.Ext(path)]; ok {
			langCounts[lang]++
			totalFiles++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("detect: walk %s: %w", root, err)
	}

	// Manifest files count as evidence when no sources were seen.
	for configFile, lang := range configFileLanguageMap {
		if _, statErr := os.Stat(filepath.Join(root, configFile)); statErr == nil {
			if langCounts[lang] == 0 {
				langCounts[lang] = 1
				totalFiles++
			}
		}
	}

	if len(langCounts) == 0 {
		return nil, nil
	}

	languages := make([]Language, 0, len(langCounts))
	for name, count := range langCounts {
		confidence := float64(count) / float64(totalFiles)
		if confidence > 1.0 {
			confidence = 1.0
		}
		languages = append(languages, Language{Name: name, Confidence: confidence, FileCount: count})
	}
	sort.Slice(languages, func(i, j int) bool {
		if languages[i].Confidence != languages[j].Confidence {
			return languages[i].Confidence > languages[j].Confidence
		}
		return languages[i].Name < languages[j].Name
	})
	return languages, nil
}

// frameworkMapping maps a dependency name to a framework display name.
type frameworkMapping struct {
	Dependency string
	Framework  string
}

var jsFrameworks = []frameworkMapping{
	{"next", "Next.js"},
	{"nuxt", "Nuxt"},
	{"react", "React"},
	{"vue", "Vue"},
	{"@angular/core", "Angular"},
	{"svelte", "Svelte"},
	{"express", "Express"},
	{"@nestjs/core", "NestJS"},
	{"tailwindcss", "Tailwind CSS"},
}

var phpFrameworks = []frameworkMapping{
	{"laravel/framework", "Laravel"},
	{"symfony/framework-bundle", "Symfony"},
}

var pythonFrameworks = []frameworkMapping{
	{"django", "Django"},
	{"fastapi", "FastAPI"},
	{"flask", "Flask"},
}

var rubyFrameworks = []frameworkMapping{
	{"rails", "Rails"},
	{"sinatra", "Sinatra"},
}

var goFrameworks = []frameworkMapping{
	{"github.com/gin-gonic/gin", "Gin"},
	{"github.com/labstack/echo", "Echo"},
	{"github.com/gofiber/fiber", "Fiber"},
	{"github.com/go-chi/chi", "Chi"},
}

func (d *Detector) detectFrameworks(root string) []Framework {
	var frameworks []Framework
	frameworks = append(frameworks, d.fromPackageJSON(root)...)
	frameworks = append(frameworks, d.fromComposerJSON(root)...)
	frameworks = append(frameworks, d.fromPythonManifests(root)...)
	frameworks = append(frameworks, d.fromGemfile(root)...)
	frameworks = append(frameworks, d.fromGoMod(root)...)
	return frameworks
}

// dependencyManifest covers package.json and composer.json, which share
// the dependencies/devDependencies (require/require-dev) shape.
type dependencyManifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Require         map[string]string `json:"require"`
	RequireDev      map[string]string `json:"require-dev"`
}

func (m *dependencyManifest) all() map[string]string {
	merged := make(map[string]string)
	for _, deps := range []map[string]string{m.Dependencies, m.DevDependencies, m.Require, m.RequireDev} {
		for k, v := range deps {
			merged[k] = v
		}
	}
	return merged
}

func (d *Detector) fromPackageJSON(root string) []Framework {
	return d.fromJSONManifest(root, "package.json", jsFrameworks)
}

func (d *Detector) fromComposerJSON(root string) []Framework {
	return d.fromJSONManifest(root, "composer.json", phpFrameworks)
}

func (d *Detector) fromJSONManifest(root, filename string, mappings []frameworkMapping) []Framework {
	data, err := os.ReadFile(filepath.Join(root, filename))
	if err != nil {
		return nil
	}
	var manifest dependencyManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		d.logger.Debug("failed to parse manifest", "file", filename, "error", err)
		return nil
	}
	deps := manifest.all()

	var frameworks []Framework
	for _, fm := range mappings {
		if version, ok := deps[fm.Dependency]; ok {
			frameworks = append(frameworks, Framework{Name: fm.Framework, Version: version, ConfigFile: filename})
		}
	}
	return frameworks
}

func (d *Detector) fromPythonManifests(root string) []Framework {
	for _, filename := range []string{"pyproject.toml", "requirements.txt"} {
		data, err := os.ReadFile(filepath.Join(root, filename))
		if err != nil {
			continue
		}
		content := strings.ToLower(string(data))
		var frameworks []Framework
		for _, fm := range pythonFrameworks {
			if strings.Contains(content, fm.Dependency) {
				frameworks = append(frameworks, Framework{Name: fm.Framework, ConfigFile: filename})
			}
		}
		if len(frameworks) > 0 {
			return frameworks
		}
	}
	return nil
}

func (d *Detector) fromGemfile(root string) []Framework {
	data, err := os.ReadFile(filepath.Join(root, "Gemfile"))
	if err != nil {
		return nil
	}
	content := string(data)
	var frameworks []Framework
	for _, fm := range rubyFrameworks {
		if strings.Contains(content, "'"+fm.Dependency+"'") || strings.Contains(content, `"`+fm.Dependency+`"`) {
			frameworks = append(frameworks, Framework{Name: fm.Framework, ConfigFile: "Gemfile"})
		}
	}
	return frameworks
}

func (d *Detector) fromGoMod(root string) []Framework {
	data, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if err != nil {
		return nil
	}
	content := string(data)
	var frameworks []Framework
	for _, fm := range goFrameworks {
		if strings.Contains(content, fm.Dependency) {
			frameworks = append(frameworks, Framework{Name: fm.Framework, ConfigFile: "go.mod"})
		}
	}
	return frameworks
}
