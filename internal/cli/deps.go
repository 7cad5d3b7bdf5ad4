// Package cli provides the Cobra command tree for the squad CLI. This
// file is the composition root: the only place where concrete services
// are instantiated and wired together.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/squad-ai/squad/assets"
	"github.com/squad-ai/squad/internal/agent"
	"github.com/squad-ai/squad/internal/catalog"
	"github.com/squad-ai/squad/internal/config"
	"github.com/squad-ai/squad/internal/ui"
)

// Dependencies holds the services shared by CLI commands.
type Dependencies struct {
	Root     string
	Config   *config.Config
	Theme    *ui.Theme
	Headless *ui.HeadlessManager
	Logger   *slog.Logger
}

// deps is the global dependencies instance, initialized by InitDependencies.
var deps *Dependencies

// InitDependencies creates the default dependency set. Root-dependent
// pieces (config, theme) are refined by the root command's
// PersistentPreRunE once flags are parsed.
func InitDependencies() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	deps = &Dependencies{
		Root:     ".",
		Config:   config.Default(),
		Theme:    ui.NewTheme(false),
		Headless: ui.NewHeadlessManager(),
		Logger:   logger,
	}
}

// GetDeps returns the current Dependencies instance.
func GetDeps() *Dependencies {
	return deps
}

// SetDeps replaces the global dependencies (used for testing).
func SetDeps(d *Dependencies) {
	deps = d
}

// loadCatalog resolves the catalog for a scope selector. "all" layers
// the three scopes with project definitions taking precedence over user
// ones, and user over embedded, matching how the host tool resolves
// name collisions.
func loadCatalog(scope string) (*catalog.Catalog, error) {
	embedded, err := catalog.Load(assets.Corpus(), agent.ScopeEmbedded)
	if err != nil {
		return nil, err
	}

	switch scope {
	case "embedded":
		return embedded, nil
	case "user":
		dir, err := catalog.UserDir()
		if err != nil {
			return nil, err
		}
		return catalog.LoadDir(dir, agent.ScopeUser)
	case "project":
		return catalog.LoadDir(catalog.ProjectDir(deps.Root), agent.ScopeProject)
	case "", "all":
		userDir, err := catalog.UserDir()
		if err != nil {
			return nil, err
		}
		user, err := catalog.LoadDir(userDir, agent.ScopeUser)
		if err != nil {
			return nil, err
		}
		project, err := catalog.LoadDir(catalog.ProjectDir(deps.Root), agent.ScopeProject)
		if err != nil {
			return nil, err
		}
		return catalog.Merge(embedded, user, project), nil
	default:
		return nil, fmt.Errorf("unknown scope %q, must be one of: embedded, user, project, all", scope)
	}
}

// targetDir resolves the deployment directory for an install scope.
func targetDir(scope string) (string, error) {
	switch scope {
	case "user":
		return catalog.UserDir()
	case "project":
		return catalog.ProjectDir(deps.Root), nil
	default:
		return "", fmt.Errorf("unknown scope %q, must be user or project", scope)
	}
}

// installScope applies the config default when --scope was not given.
func installScope(cmd *cobra.Command) string {
	scope := getStringFlag(cmd, "scope")
	if scope == "" {
		scope = deps.Config.Defaults.Scope
	}
	if scope == "" {
		scope = "project"
	}
	return scope
}

// getStringFlag returns a string flag value, tolerating unset flags.
func getStringFlag(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}
	return v
}

// getBoolFlag returns a bool flag value, tolerating unset flags.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}
	return v
}

// getStringSliceFlag returns a string slice flag value, tolerating unset flags.
func getStringSliceFlag(cmd *cobra.Command, name string) []string {
	v, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		return nil
	}
	return v
}

func symSuccess() string { return deps.Theme.Success("✓") }
func symError() string   { return deps.Theme.Error("✗") }
func symWarning() string { return deps.Theme.Warning("!") }

// interactive reports whether prompts may run for this invocation.
func interactive() bool {
	return !deps.Headless.IsHeadless() && !deps.Config.UI.NonInteractive
}
