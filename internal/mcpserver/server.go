// Package mcpserver exposes the persona catalog to MCP clients over stdio.
// This is the composition root for the server: it resolves the catalog,
// detector, and router once and registers read-only tools against them.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/squad-ai/squad/internal/catalog"
	"github.com/squad-ai/squad/internal/detect"
	"github.com/squad-ai/squad/internal/route"
)

// New creates the MCP server with all squad tools registered.
func New(c *catalog.Catalog, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"squad",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions("Read-only access to the squad sub-agent catalog: list personas, fetch their prompts, detect a project's stack, and plan task routing."),
	)

	h := &handlers{
		catalog:  c,
		detector: detect.NewDetector(nil),
	}

	s.AddTool(mcp.NewTool("list_agents",
		mcp.WithDescription("List available sub-agent personas with name, category, and description."),
		mcp.WithString("category", mcp.Description("Filter by category, e.g. core or specialized/django.")),
	), h.listAgents)

	s.AddTool(mcp.NewTool("get_agent",
		mcp.WithDescription("Return the full system prompt of a persona by name."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Agent name, e.g. code-reviewer.")),
	), h.getAgent)

	s.AddTool(mcp.NewTool("detect_stack",
		mcp.WithDescription("Detect the languages and frameworks of a project root."),
		mcp.WithString("root", mcp.Required(), mcp.Description("Absolute path to the project root.")),
	), h.detectStack)

	s.AddTool(mcp.NewTool("route_task",
		mcp.WithDescription("Plan which specialists handle a task, in which order, with context hand-off."),
		mcp.WithString("task", mcp.Required(), mcp.Description("The task description to route.")),
		mcp.WithString("root", mcp.Description("Project root to detect the stack from; omit to route stack-agnostically.")),
	), h.routeTask)

	return s
}

// ServeStdio blocks serving the MCP protocol on stdin/stdout.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

type handlers struct {
	catalog  *catalog.Catalog
	detector *detect.Detector
}

// agentSummary is the list_agents wire shape.
type agentSummary struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Scope       string `json:"scope"`
}

func (h *handlers) listAgents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := req.GetString("category", "")

	defs := h.catalog.All()
	if category != "" {
		defs = h.catalog.ByCategory(category)
	}

	summaries := make([]agentSummary, 0, len(defs))
	for _, def := range defs {
		summaries = append(summaries, agentSummary{
			Name:        def.Name,
			Category:    def.Category,
			Description: def.Description,
			Scope:       string(def.Scope),
		})
	}
	return jsonResult(summaries)
}

func (h *handlers) getAgent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	def, ok := h.catalog.Get(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown agent %q", name)), nil
	}
	return mcp.NewToolResultText(def.Body), nil
}

func (h *handlers) detectStack(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := req.RequireString("root")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := h.detector.Detect(root)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

func (h *handlers) routeTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	task, err := req.RequireString("task")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var stack *detect.Result
	if root := req.GetString("root", ""); root != "" {
		stack, err = h.detector.Detect(root)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	plan, err := route.NewRouter(h.catalog).Plan(task, stack)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(plan)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("mcpserver: encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
