package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/squad-ai/squad/internal/update"
	"github.com/squad-ai/squad/pkg/version"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check whether a newer squad release is available",
	Long: `Update queries the GitHub releases feed and reports whether a newer
version exists. It never replaces the binary; install updates through
your package manager.`,
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	current := version.GetVersion()

	checker := update.NewChecker(deps.Config.Update.APIURL, nil)
	info, err := checker.CheckLatest(cmd.Context())
	if err != nil {
		return err
	}

	if !update.IsNewer(current, info.Version) {
		_, _ = fmt.Fprintf(out, "%s squad %s is up to date (latest: %s)\n", symSuccess(), current, info.Version)
		return nil
	}
	_, _ = fmt.Fprintf(out, "%s squad %s is available (you have %s)\n", symWarning(), info.Version, current)
	_, _ = fmt.Fprintln(out, deps.Theme.Muted(info.ReleaseURL))
	return nil
}
