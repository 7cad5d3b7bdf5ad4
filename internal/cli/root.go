package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/squad-ai/squad/internal/config"
	"github.com/squad-ai/squad/internal/ui"
	"github.com/squad-ai/squad/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "squad",
	Short: "squad: an AI sub-agent team for your project",
	Long: `squad ships a curated corpus of sub-agent personas (orchestrators,
core specialists, universal developers, and framework experts) and the
tooling around it: deploy them into .claude/agents, lint persona files,
detect a project's stack, plan task routing, scaffold new personas, and
install community packs from git.`,
	Version:       version.GetVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		root := getStringFlag(cmd, "root")
		abs, err := filepath.Abs(root)
		if err != nil {
			return fmt.Errorf("resolve project root: %w", err)
		}
		deps.Root = abs
		deps.Config = config.Load(abs, deps.Logger)

		noColor := getBoolFlag(cmd, "no-color") || deps.Config.UI.NoColor
		deps.Theme = ui.NewTheme(noColor)
		if getBoolFlag(cmd, "non-interactive") || deps.Config.UI.NonInteractive {
			deps.Headless.ForceHeadless(true)
		}
		return nil
	},
}

// Execute initializes dependencies and runs the root command.
func Execute() error {
	InitDependencies()
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("squad %s (%s, %s)\n",
		version.GetVersion(), version.GetCommit(), version.GetDate()))

	rootCmd.PersistentFlags().String("root", ".", "Project root directory")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Never prompt, use flags and config defaults")
}
