package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/squad-ai/squad/assets"
	"github.com/squad-ai/squad/internal/agent"
	"github.com/squad-ai/squad/internal/catalog"
	"github.com/squad-ai/squad/internal/deploy"
	"github.com/squad-ai/squad/internal/ui"
	"github.com/squad-ai/squad/pkg/version"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Deploy the embedded persona corpus into .claude/agents",
	Long: `Deploy the embedded corpus into the project's (or user's)
.claude/agents directory. Files you have edited locally are never
overwritten without --force. Re-running init after an upgrade syncs
only the personas that changed.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("scope", "", "Install scope: user or project (default from config)")
	initCmd.Flags().Bool("force", false, "Overwrite locally modified personas")
	initCmd.Flags().StringSlice("category", nil, "Deploy only these categories (repeatable)")
}

func runInit(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	scope := installScope(cmd)

	target, err := targetDir(scope)
	if err != nil {
		return err
	}

	categories := getStringSliceFlag(cmd, "category")
	if len(categories) == 0 {
		categories = deps.Config.Defaults.Categories
	}
	if len(categories) == 0 && interactive() {
		categories, err = pickCategories()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
	}

	deployer := deploy.NewDeployer(assets.Corpus())
	total, err := deployer.Count(categories)
	if err != nil {
		return err
	}
	bar := ui.NewReporter(deps.Theme, deps.Headless).Bar("deploying personas to "+target, total)
	result, err := deployer.Deploy(cmd.Context(), target, deploy.Options{
		Source:     "embedded",
		Version:    version.GetVersion(),
		Force:      getBoolFlag(cmd, "force"),
		Categories: categories,
		Progress:   bar.Increment,
		Logger:     deps.Logger,
	})
	bar.Done()
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "%s deployed %d personas to %s (%d unchanged)\n",
		symSuccess(), result.Written, target, result.Skipped)
	if result.Preserved > 0 {
		_, _ = fmt.Fprintf(out, "%s kept %d pre-existing files, rerun with --force to replace them\n",
			symWarning(), result.Preserved)
	}

	// Remember the selection so `squad update` syncs the same slice of
	// the corpus.
	if scope == "project" && len(categories) > 0 {
		deps.Config.Defaults.Categories = categories
		deps.Config.Defaults.Scope = scope
		if err := deps.Config.Save(deps.Root); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "%s saved selection to %s\n", symSuccess(), deps.Theme.Muted(".squad/config.yaml"))
	}
	return nil
}

// pickCategories prompts for which top-level corpus categories to deploy.
func pickCategories() ([]string, error) {
	embedded, err := catalog.Load(assets.Corpus(), agent.ScopeEmbedded)
	if err != nil {
		return nil, err
	}

	// Collapse specialized/<stack> into "specialized" so the picker shows
	// four entries, not one per framework.
	seen := make(map[string]bool)
	var tops []string
	for _, category := range embedded.Categories() {
		top := strings.SplitN(category, "/", 2)[0]
		if !seen[top] {
			seen[top] = true
			tops = append(tops, top)
		}
	}
	sort.Strings(tops)

	selected := tops
	form := huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[string]().
			Title("Which persona categories should this project get?").
			Options(huh.NewOptions(tops...)...).
			Value(&selected),
	))
	if err := form.Run(); err != nil {
		return nil, err
	}
	if len(selected) == len(tops) {
		// Everything selected is the same as no filter.
		return nil, nil
	}
	return selected, nil
}
