package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/squad-ai/squad/internal/agent"
)

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a persona's metadata and system prompt",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().Bool("raw", false, "Print the persona file verbatim, frontmatter included")
	showCmd.Flags().String("scope", "all", "Scope to resolve the persona from")
}

func runShow(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog(getStringFlag(cmd, "scope"))
	if err != nil {
		return err
	}
	def, ok := cat.Get(args[0])
	if !ok {
		return fmt.Errorf("unknown persona %q, see `squad list`", args[0])
	}
	return printDefinition(cmd, def, getBoolFlag(cmd, "raw"))
}

// printDefinition renders a persona to the command output. The body is
// rendered as terminal markdown when the output supports it.
func printDefinition(cmd *cobra.Command, def *agent.Definition, raw bool) error {
	out := cmd.OutOrStdout()

	if raw {
		data, err := agent.Encode(def)
		if err != nil {
			return err
		}
		_, _ = out.Write(data)
		return nil
	}

	_, _ = fmt.Fprintln(out, deps.Theme.Title(def.Name))
	_, _ = fmt.Fprintf(out, "%s\n", def.Description)
	_, _ = fmt.Fprintln(out, deps.Theme.Muted(fmt.Sprintf("category: %s · scope: %s", def.Category, def.Scope)))
	if len(def.Tools) > 0 {
		_, _ = fmt.Fprintln(out, deps.Theme.Muted("tools: "+strings.Join(def.Tools, ", ")))
	}
	_, _ = fmt.Fprintln(out)

	if deps.Theme.NoColor || deps.Headless.IsHeadless() {
		_, _ = fmt.Fprintln(out, strings.TrimSpace(def.Body))
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		_, _ = fmt.Fprintln(out, strings.TrimSpace(def.Body))
		return nil
	}
	rendered, err := renderer.Render(def.Body)
	if err != nil {
		_, _ = fmt.Fprintln(out, strings.TrimSpace(def.Body))
		return nil
	}
	_, _ = fmt.Fprint(out, rendered)
	return nil
}
