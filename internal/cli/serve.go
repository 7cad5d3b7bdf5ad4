package cli

import (
	"github.com/spf13/cobra"

	"github.com/squad-ai/squad/internal/mcpserver"
	"github.com/squad-ai/squad/pkg/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog to MCP clients over stdio",
	Long: `Serve runs an MCP server exposing the merged persona catalog:
listing agents, fetching prompts, detecting a project's stack, and
planning task routing. Intended to be launched by an MCP host, not
interactively.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cat, err := loadCatalog("all")
	if err != nil {
		return err
	}
	return mcpserver.ServeStdio(mcpserver.New(cat, version.GetVersion()))
}
