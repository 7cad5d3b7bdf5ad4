package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/squad-ai/squad/internal/detect"
	"github.com/squad-ai/squad/internal/route"
)

var planCmd = &cobra.Command{
	Use:   "plan <task>...",
	Short: "Plan which specialists handle a task, and in what order",
	Long: `Plan routes a task description through the orchestration rules:
an analysis phase, parallel implementation by the most specific
available specialists, and a review phase. Framework specialists are
chosen over universal developers when the detected stack matches.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().String("format", "text", "Output format: text or json")
	planCmd.Flags().Bool("no-detect", false, "Skip stack detection, route stack-agnostically")
}

func runPlan(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	task := strings.Join(args, " ")

	var stack *detect.Result
	if !getBoolFlag(cmd, "no-detect") {
		result, err := detect.NewDetector(deps.Logger).Detect(deps.Root)
		if err == nil {
			stack = result
		}
		// Detection failures degrade to stack-agnostic routing.
	}

	cat, err := loadCatalog("all")
	if err != nil {
		return err
	}

	plan, err := route.NewRouter(cat).Plan(task, stack)
	if err != nil {
		return err
	}

	if getStringFlag(cmd, "format") == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	}

	_, _ = fmt.Fprintln(out, deps.Theme.Title("Task: ")+plan.Task)
	if len(plan.Stack) > 0 {
		_, _ = fmt.Fprintln(out, deps.Theme.Muted("stack: "+strings.Join(plan.Stack, ", ")))
	}
	for i, phase := range plan.Phases {
		mode := "sequential"
		if phase.Parallel {
			mode = "parallel"
		}
		_, _ = fmt.Fprintf(out, "\n%d. %s %s\n", i+1, deps.Theme.Title(phase.Name), deps.Theme.Muted("("+mode+")"))
		for _, a := range phase.Assignments {
			_, _ = fmt.Fprintf(out, "   %-28s %s\n", a.Agent, a.Task)
			if len(a.Context) > 0 {
				_, _ = fmt.Fprintf(out, "   %s\n", deps.Theme.Muted("  receives output of: "+strings.Join(a.Context, ", ")))
			}
		}
	}
	return nil
}
