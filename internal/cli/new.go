package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/squad-ai/squad/assets"
	"github.com/squad-ai/squad/internal/catalog"
	"github.com/squad-ai/squad/internal/lint"
	"github.com/squad-ai/squad/internal/scaffold"
)

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Scaffold a new persona file",
	Long: `Scaffold a persona skeleton under the project's .claude/agents
directory. The name must be lowercase letters, digits, and hyphens.
Missing details are prompted for when running in a terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().StringP("description", "d", "", "When the host should delegate to this persona")
	newCmd.Flags().StringSlice("tools", nil, "Tools the persona may use (default: inherit all)")
	newCmd.Flags().String("category", "", "Category directory (default: custom)")
}

func runNew(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	name := args[0]

	description := getStringFlag(cmd, "description")
	tools := getStringSliceFlag(cmd, "tools")
	category := getStringFlag(cmd, "category")

	if description == "" {
		if !interactive() {
			return fmt.Errorf("--description is required in non-interactive mode")
		}
		var err error
		description, tools, category, err = promptPersona(tools, category)
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
	}

	persona := scaffold.NewPersona(name, description, tools, category)
	dir := filepath.Join(catalog.ProjectDir(deps.Root), persona.Category)
	path, err := scaffold.NewGenerator(assets.Templates()).Generate(assets.PersonaTemplate, persona, dir)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "%s created %s\n", symSuccess(), path)

	// Surface lint findings immediately so the skeleton gets filled in
	// rather than shipped as-is.
	report := lint.File(path)
	for _, msg := range report.Warnings {
		_, _ = fmt.Fprintf(out, "  %s %s\n", symWarning(), msg)
	}
	return nil
}

// promptPersona collects the fields not given as flags.
func promptPersona(tools []string, category string) (string, []string, string, error) {
	var description string
	if category == "" {
		category = "custom"
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Description").
			Placeholder("What should this persona be used for? Mention when to delegate to it.").
			Validate(func(s string) error {
				if len(s) < 20 {
					return fmt.Errorf("descriptions shorter than 20 characters get flagged by lint")
				}
				return nil
			}).
			Value(&description),
		huh.NewMultiSelect[string]().
			Title("Tools (none selected inherits all)").
			Options(huh.NewOptions(lint.KnownTools...)...).
			Value(&tools),
		huh.NewInput().
			Title("Category").
			Value(&category),
	))
	if err := form.Run(); err != nil {
		return "", nil, "", err
	}
	return description, tools, category, nil
}
