package route

import (
	"testing"
	"testing/fstest"

	"github.com/squad-ai/squad/internal/agent"
	"github.com/squad-ai/squad/internal/catalog"
	"github.com/squad-ai/squad/internal/detect"
)

// fullCatalog builds a catalog containing every agent the routing table knows.
func fullCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	names := []string{
		"project-analyst", "code-reviewer", "backend-developer",
		"frontend-developer", "api-architect", "performance-optimizer",
		"documentation-specialist", "laravel-backend-expert",
		"laravel-eloquent-expert", "django-backend-expert",
		"django-orm-expert", "django-api-developer", "rails-backend-expert",
		"rails-activerecord-expert", "react-component-architect",
		"react-nextjs-expert", "vue-component-architect", "vue-nuxt-expert",
		"tailwind-css-expert",
	}
	fsys := fstest.MapFS{}
	for _, name := range names {
		fsys[name+".md"] = &fstest.MapFile{
			Data: []byte("---\nname: " + name + "\ndescription: d\n---\n\nbody\n"),
		}
	}
	c, err := catalog.Load(fsys, agent.ScopeEmbedded)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func laravelStack() *detect.Result {
	return &detect.Result{
		Languages:  []detect.Language{{Name: "PHP", Confidence: 0.9, FileCount: 9}},
		Frameworks: []detect.Framework{{Name: "Laravel", ConfigFile: "composer.json"}},
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		task string
		want []Area
	}{
		{"add a login endpoint to the API", []Area{AreaBackend, AreaAPI}},
		{"fix the slow dashboard query", []Area{AreaDatabase, AreaPerformance}},
		{"review the payment module for security issues", []Area{AreaBackend, AreaReview}},
		{"write a readme for the service", []Area{AreaBackend, AreaDocumentation}},
		{"do something unusual", nil},
	}
	for _, tt := range tests {
		t.Run(tt.task, func(t *testing.T) {
			t.Parallel()
			got := Classify(tt.task)
			if len(got) != len(tt.want) {
				t.Fatalf("Classify(%q) = %v, want %v", tt.task, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Classify(%q)[%d] = %v, want %v", tt.task, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPlanLaravel(t *testing.T) {
	t.Parallel()

	router := NewRouter(fullCatalog(t))
	plan, err := router.Plan("add user authentication with a new users table", laravelStack())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	if len(plan.Phases) != 3 {
		t.Fatalf("got %d phases, want 3 (analysis, implementation, review)", len(plan.Phases))
	}
	if plan.Phases[0].Name != "analysis" || plan.Phases[0].Assignments[0].Agent != "project-analyst" {
		t.Errorf("first phase should be project-analyst analysis, got %+v", plan.Phases[0])
	}

	impl := plan.Phases[1]
	agents := map[string]bool{}
	for _, a := range impl.Assignments {
		agents[a.Agent] = true
	}
	if !agents["laravel-backend-expert"] {
		t.Errorf("Laravel project should route backend to laravel-backend-expert, got %v", impl.Assignments)
	}
	if !agents["laravel-eloquent-expert"] {
		t.Errorf("table work should route to laravel-eloquent-expert, got %v", impl.Assignments)
	}
	if !impl.Parallel {
		t.Error("independent implementation assignments should be parallel")
	}
	for _, a := range impl.Assignments {
		if len(a.Context) == 0 || a.Context[0] != "project-analyst" {
			t.Errorf("implementation should receive analyst context, got %v", a.Context)
		}
	}

	review := plan.Phases[2]
	if review.Assignments[0].Agent != "code-reviewer" {
		t.Errorf("last phase should be code-reviewer, got %+v", review)
	}
	if len(review.Assignments[0].Context) != len(impl.Assignments) {
		t.Errorf("reviewer should receive context from all implementers, got %v", review.Assignments[0].Context)
	}
}

func TestPlanNeverAssignsForeignSpecialist(t *testing.T) {
	t.Parallel()

	router := NewRouter(fullCatalog(t))
	stack := &detect.Result{
		Languages:  []detect.Language{{Name: "Python", Confidence: 1, FileCount: 4}},
		Frameworks: []detect.Framework{{Name: "Django", ConfigFile: "requirements.txt"}},
	}
	plan, err := router.Plan("build the backend for invoicing", stack)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	for _, name := range plan.Agents() {
		if name == "laravel-backend-expert" || name == "rails-backend-expert" {
			t.Errorf("Django project must not route to %s", name)
		}
	}
	found := false
	for _, name := range plan.Agents() {
		if name == "django-backend-expert" {
			found = true
		}
	}
	if !found {
		t.Errorf("Django project should route to django-backend-expert, got %v", plan.Agents())
	}
}

func TestPlanUniversalFallback(t *testing.T) {
	t.Parallel()

	router := NewRouter(fullCatalog(t))
	plan, err := router.Plan("add a REST endpoint for orders", nil)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	agents := plan.Agents()
	found := false
	for _, name := range agents {
		if name == "api-architect" {
			found = true
		}
	}
	if !found {
		t.Errorf("no stack should fall back to api-architect, got %v", agents)
	}
}

func TestPlanUnclassifiedTask(t *testing.T) {
	t.Parallel()

	router := NewRouter(fullCatalog(t))
	plan, err := router.Plan("do something unusual", nil)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	var impl *Phase
	for i := range plan.Phases {
		if plan.Phases[i].Name == "implementation" {
			impl = &plan.Phases[i]
		}
	}
	if impl == nil || impl.Assignments[0].Agent != "backend-developer" {
		t.Errorf("unclassified task should fall back to backend-developer, got %+v", plan.Phases)
	}
}

func TestPlanEmptyTask(t *testing.T) {
	t.Parallel()

	if _, err := NewRouter(fullCatalog(t)).Plan("  ", nil); err == nil {
		t.Error("Plan() should reject an empty task")
	}
}

func TestPlanSparseCatalog(t *testing.T) {
	t.Parallel()

	// Catalog without specialists: only universal agents available.
	fsys := fstest.MapFS{
		"backend-developer.md": &fstest.MapFile{Data: []byte("---\nname: backend-developer\ndescription: d\n---\n\nbody\n")},
		"code-reviewer.md":     &fstest.MapFile{Data: []byte("---\nname: code-reviewer\ndescription: d\n---\n\nbody\n")},
	}
	c, err := catalog.Load(fsys, agent.ScopeEmbedded)
	if err != nil {
		t.Fatal(err)
	}
	plan, err := NewRouter(c).Plan("add user authentication backend", laravelStack())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	agents := plan.Agents()
	if len(agents) != 2 || agents[0] != "backend-developer" || agents[1] != "code-reviewer" {
		t.Errorf("sparse catalog should fall back to universal agents, got %v", agents)
	}
}
