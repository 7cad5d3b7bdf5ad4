// Package route turns a task description and a detected stack into an
// execution plan: ordered phases of specialist assignments with explicit
// context hand-off. It replaces the prose-only routing model of the
// orchestrator persona with a deterministic planner; executing the plan
// remains the host tool's job.
package route

import (
	"fmt"
	"sort"
	"strings"

	"github.com/squad-ai/squad/internal/catalog"
	"github.com/squad-ai/squad/internal/detect"
)

// Area is a task concern a specialist can own.
type Area string

const (
	AreaAnalysis      Area = "analysis"
	AreaBackend       Area = "backend"
	AreaFrontend      Area = "frontend"
	AreaAPI           Area = "api"
	AreaDatabase      Area = "database"
	AreaPerformance   Area = "performance"
	AreaDocumentation Area = "documentation"
	AreaReview        Area = "review"
)

// Assignment is one specialist invocation within a phase.
type Assignment struct {
	Agent   string   `json:"agent"`
	Area    Area     `json:"area"`
	Task    string   `json:"task"`
	Context []string `json:"context,omitempty"` // agents whose output is forwarded
}

// Phase is a group of assignments. Assignments within a parallel phase are
// independent; sequential phases see the output of everything before them.
type Phase struct {
	Name        string       `json:"name"`
	Parallel    bool         `json:"parallel"`
	Assignments []Assignment `json:"assignments"`
}

// Plan is the full routing decision for one task.
type Plan struct {
	Task   string   `json:"task"`
	Stack  []string `json:"stack,omitempty"`
	Phases []Phase  `json:"phases"`
}

// Agents returns every assigned agent name in plan order, deduplicated.
func (p *Plan) Agents() []string {
	seen := make(map[string]bool)
	var out []string
	for _, phase := range p.Phases {
		for _, a := range phase.Assignments {
			if !seen[a.Agent] {
				seen[a.Agent] = true
				out = append(out, a.Agent)
			}
		}
	}
	return out
}

// areaKeywords classify a task description into concerns.
var areaKeywords = map[Area][]string{
	AreaBackend:       {"backend", "server", "service", "controller", "business logic", "auth", "login", "payment", "job", "queue", "webhook"},
	AreaFrontend:      {"frontend", "ui", "component", "page", "view", "css", "style", "layout", "form", "responsive"},
	AreaAPI:           {"api", "endpoint", "rest", "graphql", "route"},
	AreaDatabase:      {"database", "migration", "query", "schema", "orm", "model", "table", "index", "n+1"},
	AreaPerformance:   {"performance", "slow", "optimize", "latency", "profil", "cache"},
	AreaDocumentation: {"document", "readme", "changelog", "guide"},
	AreaReview:        {"review", "audit", "security"},
	AreaAnalysis:      {"analyze", "understand", "explore", "legacy", "archaeolog", "investigate"},
}

// areaOrder fixes the classification and planning order.
var areaOrder = []Area{
	AreaAnalysis, AreaBackend, AreaDatabase, AreaAPI, AreaFrontend,
	AreaPerformance, AreaDocumentation, AreaReview,
}

// specialist is a routing-table row: the agent to use for an area when the
// named framework is present. An empty framework is the universal fallback.
type specialist struct {
	Framework string
	Agent     string
}

// routingTable maps each area to its candidates, most specific first.
// This is the orchestrator persona's routing table made explicit.
var routingTable = map[Area][]specialist{
	AreaAnalysis: {
		{"", "project-analyst"},
	},
	AreaBackend: {
		{"Laravel", "laravel-backend-expert"},
		{"Django", "django-backend-expert"},
		{"Rails", "rails-backend-expert"},
		{"", "backend-developer"},
	},
	AreaDatabase: {
		{"Laravel", "laravel-eloquent-expert"},
		{"Django", "django-orm-expert"},
		{"Rails", "rails-activerecord-expert"},
		{"", "backend-developer"},
	},
	AreaAPI: {
		{"Django", "django-api-developer"},
		{"Laravel", "laravel-backend-expert"},
		{"", "api-architect"},
	},
	AreaFrontend: {
		{"Next.js", "react-nextjs-expert"},
		{"React", "react-component-architect"},
		{"Nuxt", "vue-nuxt-expert"},
		{"Vue", "vue-component-architect"},
		{"Tailwind CSS", "tailwind-css-expert"},
		{"", "frontend-developer"},
	},
	AreaPerformance: {
		{"", "performance-optimizer"},
	},
	AreaDocumentation: {
		{"", "documentation-specialist"},
	},
	AreaReview: {
		{"", "code-reviewer"},
	},
}

// Router plans specialist assignments against a catalog of available agents.
type Router struct {
	catalog *catalog.Catalog
}

// NewRouter creates a Router over the given catalog.
func NewRouter(c *catalog.Catalog) *Router {
	return &Router{catalog: c}
}

// Classify returns the areas a task description touches, in planning order.
func Classify(task string) []Area {
	lowered := strings.ToLower(task)
	matched := make(map[Area]bool)
	for area, keywords := range areaKeywords {
		for _, kw := range keywords {
			if strings.Contains(lowered, kw) {
				matched[area] = true
				break
			}
		}
	}

	var areas []Area
	for _, area := range areaOrder {
		if matched[area] {
			areas = append(areas, area)
		}
	}
	return areas
}

// Plan builds the execution plan for a task against a detected stack.
// Analysis always runs first so later specialists receive project context,
// and review always runs last, per the orchestrator contract.
func (r *Router) Plan(task string, stack *detect.Result) (*Plan, error) {
	if strings.TrimSpace(task) == "" {
		return nil, fmt.Errorf("route: empty task description")
	}

	areas := Classify(task)
	implAreas := implementationAreas(areas)

	plan := &Plan{Task: task, Stack: stackNames(stack)}

	analyst, ok := r.pick(AreaAnalysis, stack)
	if ok {
		plan.Phases = append(plan.Phases, Phase{
			Name: "analysis",
			Assignments: []Assignment{{
				Agent: analyst,
				Area:  AreaAnalysis,
				Task:  "Map the project structure, stack, and conventions relevant to: " + task,
			}},
		})
	}

	var impl []Assignment
	seen := make(map[string]bool)
	for _, area := range implAreas {
		agent, ok := r.pick(area, stack)
		if !ok || seen[agent] {
			continue
		}
		seen[agent] = true
		a := Assignment{
			Agent: agent,
			Area:  area,
			Task:  areaTask(area, task),
		}
		if analyst != "" {
			a.Context = []string{analyst}
		}
		impl = append(impl, a)
	}
	if len(impl) == 0 {
		// No specific concern matched; the universal backend developer
		// takes the task whole.
		if agent, ok := r.pick(AreaBackend, stack); ok {
			a := Assignment{Agent: agent, Area: AreaBackend, Task: task}
			if analyst != "" {
				a.Context = []string{analyst}
			}
			impl = append(impl, a)
		}
	}
	if len(impl) > 0 {
		plan.Phases = append(plan.Phases, Phase{
			Name:        "implementation",
			Parallel:    len(impl) > 1,
			Assignments: impl,
		})
	}

	if reviewer, ok := r.pick(AreaReview, stack); ok && !seen[reviewer] {
		ctx := make([]string, 0, len(impl))
		for _, a := range impl {
			ctx = append(ctx, a.Agent)
		}
		sort.Strings(ctx)
		plan.Phases = append(plan.Phases, Phase{
			Name: "review",
			Assignments: []Assignment{{
				Agent:   reviewer,
				Area:    AreaReview,
				Task:    "Review all changes for correctness, security, and project conventions.",
				Context: ctx,
			}},
		})
	}

	return plan, nil
}

// pick resolves the routing table for an area: first candidate whose
// framework is present in the stack and whose agent exists in the catalog,
// otherwise the universal fallback if available. A specialist for a
// framework the project does not use is never chosen.
func (r *Router) pick(area Area, stack *detect.Result) (string, bool) {
	for _, cand := range routingTable[area] {
		if cand.Framework != "" {
			if stack == nil || !stack.HasFramework(cand.Framework) {
				continue
			}
		}
		if _, ok := r.catalog.Get(cand.Agent); ok {
			return cand.Agent, true
		}
	}
	return "", false
}

func implementationAreas(areas []Area) []Area {
	var out []Area
	for _, area := range areas {
		if area == AreaAnalysis || area == AreaReview {
			continue
		}
		out = append(out, area)
	}
	return out
}

func areaTask(area Area, task string) string {
	switch area {
	case AreaBackend:
		return "Implement the server-side portion of: " + task
	case AreaFrontend:
		return "Implement the UI portion of: " + task
	case AreaAPI:
		return "Design and implement the API surface for: " + task
	case AreaDatabase:
		return "Handle schema, migrations, and queries for: " + task
	case AreaPerformance:
		return "Profile and optimize the paths involved in: " + task
	case AreaDocumentation:
		return "Document the outcome of: " + task
	default:
		return task
	}
}

func stackNames(stack *detect.Result) []string {
	if stack == nil {
		return nil
	}
	var out []string
	for _, lang := range stack.Languages {
		out = append(out, lang.Name)
	}
	for _, fw := range stack.Frameworks {
		out = append(out, fw.Name)
	}
	return out
}
