package lint

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Summary aggregates reports across a corpus run.
type Summary struct {
	Reports  []*Report `json:"reports"`
	Total    int       `json:"total"`
	Passed   int       `json:"passed"`
	Failed   int       `json:"failed"`
	Warnings int       `json:"warnings"`
}

// Passing reports whether every file passed.
func (s *Summary) Passing(strict bool) bool {
	if s.Failed > 0 {
		return false
	}
	return !strict || s.Warnings == 0
}

// Dir lints every persona file under root, recursively. Template and
// documentation files are skipped, matching the original corpus layout
// where templates/ and docs/ live next to agents/.
func Dir(root string) (*Summary, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".md") {
			return nil
		}
		if skipPath(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	summary := &Summary{}
	for _, path := range paths {
		summary.Add(File(path))
	}
	return summary, nil
}

// Add records a report in the summary.
func (s *Summary) Add(report *Report) {
	s.Reports = append(s.Reports, report)
	s.Total++
	if len(report.Errors) == 0 {
		s.Passed++
	} else {
		s.Failed++
	}
	s.Warnings += len(report.Warnings)
}

func skipPath(path string) bool {
	normalized := filepath.ToSlash(path)
	for _, part := range strings.Split(normalized, "/") {
		if part == "docs" || strings.Contains(part, "template") {
			return true
		}
	}
	return strings.HasPrefix(filepath.Base(path), "README")
}
