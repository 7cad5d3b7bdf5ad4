package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/squad-ai/squad/internal/detect"
)

var detectCmd = &cobra.Command{
	Use:   "detect [root]",
	Short: "Detect the project's languages and frameworks",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)

	detectCmd.Flags().String("format", "text", "Output format: text or json")
}

func runDetect(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	root := deps.Root
	if len(args) == 1 {
		root = args[0]
	}
	result, err := detect.NewDetector(deps.Logger).Detect(root)
	if err != nil {
		return err
	}

	if getStringFlag(cmd, "format") == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if len(result.Languages) == 0 && len(result.Frameworks) == 0 {
		_, _ = fmt.Fprintln(out, "no languages or frameworks detected")
		return nil
	}

	if len(result.Languages) > 0 {
		_, _ = fmt.Fprintln(out, deps.Theme.Title("Languages"))
		for _, lang := range result.Languages {
			_, _ = fmt.Fprintf(out, "  %-14s %3.0f%%  %s\n",
				lang.Name, lang.Confidence*100, deps.Theme.Muted(fmt.Sprintf("%d files", lang.FileCount)))
		}
	}
	if len(result.Frameworks) > 0 {
		_, _ = fmt.Fprintln(out, deps.Theme.Title("Frameworks"))
		for _, fw := range result.Frameworks {
			version := fw.Version
			if version == "" {
				version = "-"
			}
			_, _ = fmt.Fprintf(out, "  %-14s %-10s %s\n", fw.Name, version, deps.Theme.Muted(fw.ConfigFile))
		}
	}
	return nil
}
