package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/squad-ai/squad/internal/agent"
	"github.com/squad-ai/squad/internal/ui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available sub-agent personas",
	Long: `List the personas visible from this project, grouped by category.
Project-scope definitions shadow user-scope ones, which shadow the
embedded corpus.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().String("category", "", "Only show personas in this category")
	listCmd.Flags().String("scope", "all", "Scope to list: embedded, user, project, or all")
	listCmd.Flags().String("format", "text", "Output format: text or json")
	listCmd.Flags().BoolP("interactive", "i", false, "Browse the catalog interactively")
}

func runList(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	cat, err := loadCatalog(getStringFlag(cmd, "scope"))
	if err != nil {
		return err
	}

	defs := cat.All()
	if category := getStringFlag(cmd, "category"); category != "" {
		defs = cat.ByCategory(category)
		if len(defs) == 0 {
			return fmt.Errorf("no personas in category %q (have: %v)", category, cat.Categories())
		}
	}

	if getBoolFlag(cmd, "interactive") && interactive() {
		items := make([]agent.Definition, 0, len(defs))
		for _, def := range defs {
			items = append(items, *def)
		}
		name, err := ui.Browse(deps.Theme, items)
		if err != nil {
			return err
		}
		if name == "" {
			return nil
		}
		def, _ := cat.Get(name)
		return printDefinition(cmd, def, false)
	}

	if getStringFlag(cmd, "format") == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(defs)
	}

	lastCategory := "\x00"
	for _, def := range defs {
		if def.Category != lastCategory {
			if lastCategory != "\x00" {
				_, _ = fmt.Fprintln(out)
			}
			_, _ = fmt.Fprintln(out, deps.Theme.Title(def.Category))
			lastCategory = def.Category
		}
		scope := ""
		if def.Scope != agent.ScopeEmbedded {
			scope = deps.Theme.Muted(" ("+string(def.Scope)+")")
		}
		_, _ = fmt.Fprintf(out, "  %-28s %s%s\n", def.Name, def.Description, scope)
	}
	_, _ = fmt.Fprintf(out, "\n%d personas\n", len(defs))
	return nil
}
