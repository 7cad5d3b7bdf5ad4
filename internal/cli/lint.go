package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/squad-ai/squad/internal/catalog"
	"github.com/squad-ai/squad/internal/lint"
)

var lintCmd = &cobra.Command{
	Use:   "lint [path]",
	Short: "Validate persona files",
	Long: `Lint persona files against the corpus rules: frontmatter schema,
naming, tool whitelist, and prompt body conventions. With no path the
project's .claude/agents directory is linted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().Bool("strict", false, "Treat warnings as errors")
	lintCmd.Flags().String("format", "text", "Output format: text or json")
}

func runLint(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	strict := getBoolFlag(cmd, "strict")

	path := catalog.ProjectDir(deps.Root)
	if len(args) == 1 {
		path = args[0]
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("lint %s: %w", path, err)
	}

	var summary *lint.Summary
	if info.IsDir() {
		summary, err = lint.Dir(path)
		if err != nil {
			return err
		}
	} else {
		summary = &lint.Summary{}
		summary.Add(lint.File(path))
	}

	if getStringFlag(cmd, "format") == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			return err
		}
	} else {
		printSummary(cmd, summary)
	}

	if !summary.Passing(strict) {
		return fmt.Errorf("%d of %d files failed lint", summary.Failed, summary.Total)
	}
	return nil
}

func printSummary(cmd *cobra.Command, summary *lint.Summary) {
	out := cmd.OutOrStdout()
	for _, report := range summary.Reports {
		switch {
		case len(report.Errors) > 0:
			_, _ = fmt.Fprintf(out, "%s %s\n", symError(), report.Path)
		case len(report.Warnings) > 0:
			_, _ = fmt.Fprintf(out, "%s %s\n", symWarning(), report.Path)
		default:
			_, _ = fmt.Fprintf(out, "%s %s\n", symSuccess(), report.Path)
		}
		for _, msg := range report.Errors {
			_, _ = fmt.Fprintf(out, "    %s %s\n", deps.Theme.Error("error:"), msg)
		}
		for _, msg := range report.Warnings {
			_, _ = fmt.Fprintf(out, "    %s %s\n", deps.Theme.Warning("warning:"), msg)
		}
	}
	_, _ = fmt.Fprintf(out, "\n%d files, %d passed, %d failed, %d warnings\n",
		summary.Total, summary.Passed, summary.Failed, summary.Warnings)
}
