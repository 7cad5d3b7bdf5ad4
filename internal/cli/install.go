package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/squad-ai/squad/internal/deploy"
	"github.com/squad-ai/squad/internal/gitsource"
	"github.com/squad-ai/squad/internal/lint"
	"github.com/squad-ai/squad/internal/ui"
	"github.com/squad-ai/squad/pkg/version"
)

var installCmd = &cobra.Command{
	Use:   "install <repository>",
	Short: "Install a community persona pack from a git repository",
	Long: `Install clones a persona pack (a repository whose agents/ directory,
or root, holds persona files), lints it, and deploys it into the chosen
scope. The repository can be a full clone URL or the owner/repo
shorthand for GitHub.`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)

	installCmd.Flags().String("scope", "", "Install scope: user or project (default from config)")
	installCmd.Flags().Bool("force", false, "Overwrite locally modified personas")
	installCmd.Flags().Bool("strict", false, "Refuse packs with lint warnings, not just errors")
}

func runInstall(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	target, err := targetDir(installScope(cmd))
	if err != nil {
		return err
	}

	reporter := ui.NewReporter(deps.Theme, deps.Headless)
	spinner := reporter.Spinner("cloning " + args[0])
	pack, err := gitsource.Fetch(cmd.Context(), args[0])
	spinner.Stop()
	if err != nil {
		return err
	}
	defer func() { _ = pack.Close() }()

	summary, err := lint.Dir(pack.Dir)
	if err != nil {
		return err
	}
	if summary.Total == 0 {
		return gitsource.ErrNoAgents
	}
	if !summary.Passing(getBoolFlag(cmd, "strict")) {
		printSummary(cmd, summary)
		return fmt.Errorf("pack %s failed lint, not installing", pack.URL)
	}

	deployer := deploy.NewDeployer(os.DirFS(pack.Dir))
	total, err := deployer.Count(nil)
	if err != nil {
		return err
	}
	bar := reporter.Bar("installing personas to "+target, total)
	result, err := deployer.Deploy(cmd.Context(), target, deploy.Options{
		Source:   pack.URL,
		Version:  version.GetVersion(),
		Force:    getBoolFlag(cmd, "force"),
		Progress: bar.Increment,
		Logger:   deps.Logger,
	})
	bar.Done()
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "%s installed %d personas from %s to %s (%d unchanged)\n",
		symSuccess(), result.Written, pack.URL, target, result.Skipped)
	if result.Preserved > 0 {
		_, _ = fmt.Fprintf(out, "%s kept %d pre-existing files, rerun with --force to replace them\n",
			symWarning(), result.Preserved)
	}
	if summary.Warnings > 0 {
		_, _ = fmt.Fprintf(out, "%s pack has %d lint warnings, see `squad lint %s`\n",
			symWarning(), summary.Warnings, target)
	}
	return nil
}
