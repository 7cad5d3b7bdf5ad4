package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/squad-ai/squad/internal/lint"
	"github.com/squad-ai/squad/internal/ui"
)

// setupCLI pins the global dependencies to a headless, colorless state so
// command output is stable and no prompt can block the run.
func setupCLI(t *testing.T) {
	t.Helper()
	InitDependencies()
	deps.Theme = ui.NewTheme(true)
	deps.Headless.ForceHeadless(true)
}

// setFlag sets a command flag and restores its default when the test ends.
func setFlag(t *testing.T, cmd *cobra.Command, name, value string) {
	t.Helper()
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		t.Fatalf("command %s has no flag %q", cmd.Name(), name)
	}
	if err := cmd.Flags().Set(name, value); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = cmd.Flags().Set(name, flag.DefValue)
	})
}

func capture(cmd *cobra.Command) *bytes.Buffer {
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetContext(context.Background())
	return &buf
}

const lintCleanBody = `# Test Persona

## Core Expertise

- Knows the test corpus layout inside out
- Validates command output end to end

## Working Principles

- Keep runs deterministic
- Fail loudly on unexpected output

## Task Approach

1. Arrange fixtures
2. Run the command
3. Assert on the buffer

## Example

` + "```bash\nsquad list\n```\n"

func TestListEmbedded(t *testing.T) {
	setupCLI(t)
	setFlag(t, listCmd, "scope", "embedded")
	buf := capture(listCmd)

	if err := runList(listCmd, nil); err != nil {
		t.Fatalf("runList() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"tech-lead-orchestrator", "code-reviewer", "backend-developer", "personas"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q", want)
		}
	}
}

func TestListCategoryFilter(t *testing.T) {
	setupCLI(t)
	setFlag(t, listCmd, "scope", "embedded")
	setFlag(t, listCmd, "category", "core")
	buf := capture(listCmd)

	if err := runList(listCmd, nil); err != nil {
		t.Fatalf("runList() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "code-reviewer") {
		t.Error("core filter should keep code-reviewer")
	}
	if strings.Contains(out, "backend-developer") {
		t.Error("core filter should drop universal personas")
	}
}

func TestListUnknownCategory(t *testing.T) {
	setupCLI(t)
	setFlag(t, listCmd, "category", "no-such-category")
	capture(listCmd)

	if err := runList(listCmd, nil); err == nil {
		t.Error("unknown category should fail")
	}
}

func TestListJSON(t *testing.T) {
	setupCLI(t)
	setFlag(t, listCmd, "format", "json")
	setFlag(t, listCmd, "scope", "embedded")
	buf := capture(listCmd)

	if err := runList(listCmd, nil); err != nil {
		t.Fatalf("runList() error = %v", err)
	}
	var defs []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &defs); err != nil {
		t.Fatalf("list --format json is not JSON: %v", err)
	}
	if len(defs) == 0 {
		t.Error("embedded corpus should not be empty")
	}
}

func TestShow(t *testing.T) {
	setupCLI(t)
	setFlag(t, showCmd, "scope", "embedded")
	buf := capture(showCmd)

	if err := runShow(showCmd, []string{"code-reviewer"}); err != nil {
		t.Fatalf("runShow() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "code-reviewer") || !strings.Contains(out, "category: core") {
		t.Errorf("show output missing metadata:\n%s", out)
	}
}

func TestShowRaw(t *testing.T) {
	setupCLI(t)
	setFlag(t, showCmd, "scope", "embedded")
	setFlag(t, showCmd, "raw", "true")
	buf := capture(showCmd)

	if err := runShow(showCmd, []string{"code-reviewer"}); err != nil {
		t.Fatalf("runShow() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "---\n") {
		t.Error("--raw should print the frontmatter fence first")
	}
}

func TestShowUnknown(t *testing.T) {
	setupCLI(t)
	capture(showCmd)

	if err := runShow(showCmd, []string{"nope"}); err == nil {
		t.Error("unknown persona should fail")
	}
}

func TestLintDir(t *testing.T) {
	setupCLI(t)
	dir := t.TempDir()
	good := "---\nname: good-agent\ndescription: Use proactively when exercising the lint pipeline\n---\n\n" + lintCleanBody
	if err := os.WriteFile(filepath.Join(dir, "good-agent.md"), []byte(good), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.md"), []byte("no frontmatter here"), 0o644); err != nil {
		t.Fatal(err)
	}
	buf := capture(lintCmd)

	err := runLint(lintCmd, []string{dir})
	if err == nil {
		t.Fatal("runLint() should fail when a file has errors")
	}
	out := buf.String()
	if !strings.Contains(out, "broken.md") || !strings.Contains(out, "1 failed") {
		t.Errorf("lint output missing failure detail:\n%s", out)
	}
}

func TestLintJSON(t *testing.T) {
	setupCLI(t)
	dir := t.TempDir()
	good := "---\nname: good-agent\ndescription: Use proactively when exercising the lint pipeline\n---\n\n" + lintCleanBody
	if err := os.WriteFile(filepath.Join(dir, "good-agent.md"), []byte(good), 0o644); err != nil {
		t.Fatal(err)
	}
	setFlag(t, lintCmd, "format", "json")
	buf := capture(lintCmd)

	if err := runLint(lintCmd, []string{dir}); err != nil {
		t.Fatalf("runLint() error = %v", err)
	}
	var summary lint.Summary
	if err := json.Unmarshal(buf.Bytes(), &summary); err != nil {
		t.Fatalf("lint --format json is not JSON: %v", err)
	}
	if summary.Total != 1 || summary.Passed != 1 {
		t.Errorf("summary = %+v, want 1 passed", summary)
	}
}

func TestDetectCommand(t *testing.T) {
	setupCLI(t)
	root := t.TempDir()
	composer := `{"require": {"php": "^8.2", "laravel/framework": "^11.0"}}`
	if err := os.WriteFile(filepath.Join(root, "composer.json"), []byte(composer), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "app"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "app", "User.php"), []byte("<?php\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	deps.Root = root
	buf := capture(detectCmd)

	if err := runDetect(detectCmd, nil); err != nil {
		t.Fatalf("runDetect() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "PHP") || !strings.Contains(out, "Laravel") {
		t.Errorf("detect output missing stack:\n%s", out)
	}
}

func TestPlanCommand(t *testing.T) {
	setupCLI(t)
	deps.Root = t.TempDir()
	buf := capture(planCmd)

	if err := runPlan(planCmd, []string{"add", "a", "login", "endpoint"}); err != nil {
		t.Fatalf("runPlan() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"project-analyst", "backend-developer", "code-reviewer"} {
		if !strings.Contains(out, want) {
			t.Errorf("plan output missing %q:\n%s", want, out)
		}
	}
}

func TestNewCommand(t *testing.T) {
	setupCLI(t)
	deps.Root = t.TempDir()
	setFlag(t, newCmd, "description", "Use proactively when testing the scaffolding pipeline end to end")
	buf := capture(newCmd)

	if err := runNew(newCmd, []string{"pipeline-test-helper"}); err != nil {
		t.Fatalf("runNew() error = %v", err)
	}
	path := filepath.Join(deps.Root, ".claude", "agents", "custom", "pipeline-test-helper.md")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("scaffolded file missing: %v", err)
	}
	if !strings.Contains(buf.String(), "created") {
		t.Errorf("new output = %q", buf.String())
	}

	if err := runNew(newCmd, []string{"pipeline-test-helper"}); err == nil {
		t.Error("second run should refuse to overwrite")
	}
}

func TestNewNonInteractiveRequiresDescription(t *testing.T) {
	setupCLI(t)
	deps.Root = t.TempDir()
	capture(newCmd)

	if err := runNew(newCmd, []string{"pipeline-test-helper"}); err == nil {
		t.Error("missing description should fail in headless mode")
	}
}

func TestInitCommand(t *testing.T) {
	setupCLI(t)
	deps.Root = t.TempDir()
	setFlag(t, initCmd, "scope", "project")
	buf := capture(initCmd)

	if err := runInit(initCmd, nil); err != nil {
		t.Fatalf("runInit() error = %v", err)
	}
	deployed := filepath.Join(deps.Root, ".claude", "agents", "core", "code-reviewer.md")
	if _, err := os.Stat(deployed); err != nil {
		t.Fatalf("corpus not deployed: %v", err)
	}
	if !strings.Contains(buf.String(), "deployed") {
		t.Errorf("init output = %q", buf.String())
	}

	// Second run is a no-op sync.
	buf.Reset()
	if err := runInit(initCmd, nil); err != nil {
		t.Fatalf("second runInit() error = %v", err)
	}
	if !strings.Contains(buf.String(), "deployed 0 personas") {
		t.Errorf("re-init should write nothing, got %q", buf.String())
	}
}

func TestInitKeepsUserFiles(t *testing.T) {
	setupCLI(t)
	deps.Root = t.TempDir()
	setFlag(t, initCmd, "scope", "project")

	userFile := filepath.Join(deps.Root, ".claude", "agents", "core", "code-reviewer.md")
	if err := os.MkdirAll(filepath.Dir(userFile), 0o755); err != nil {
		t.Fatal(err)
	}
	userContent := "---\nname: code-reviewer\n---\n\nmy own reviewer prompt\n"
	if err := os.WriteFile(userFile, []byte(userContent), 0o644); err != nil {
		t.Fatal(err)
	}
	buf := capture(initCmd)

	if err := runInit(initCmd, nil); err != nil {
		t.Fatalf("runInit() error = %v", err)
	}
	data, _ := os.ReadFile(userFile)
	if string(data) != userContent {
		t.Fatalf("init overwrote a pre-existing user file: %q", data)
	}
	if !strings.Contains(buf.String(), "kept 1 pre-existing") {
		t.Errorf("init output should mention the kept file, got %q", buf.String())
	}
}

func TestInitCategoryFilter(t *testing.T) {
	setupCLI(t)
	deps.Root = t.TempDir()
	setFlag(t, initCmd, "scope", "project")
	setFlag(t, initCmd, "category", "core")
	capture(initCmd)

	if err := runInit(initCmd, nil); err != nil {
		t.Fatalf("runInit() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(deps.Root, ".claude", "agents", "core", "code-reviewer.md")); err != nil {
		t.Fatalf("core persona missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(deps.Root, ".claude", "agents", "universal")); !os.IsNotExist(err) {
		t.Error("universal category should not deploy with --category core")
	}
	// The selection is persisted for later syncs.
	if _, err := os.Stat(filepath.Join(deps.Root, ".squad", "config.yaml")); err != nil {
		t.Errorf("category selection not saved: %v", err)
	}
}

func TestInstallRejectsBadReference(t *testing.T) {
	setupCLI(t)
	capture(installCmd)

	if err := runInstall(installCmd, []string{"not a repository"}); err == nil {
		t.Error("malformed reference should fail")
	}
}

func TestUpdateCommand(t *testing.T) {
	setupCLI(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name":"v9.9.9","html_url":"https://example.test/v9.9.9"}`))
	}))
	defer srv.Close()
	deps.Config.Update.APIURL = srv.URL
	buf := capture(updateCmd)

	if err := runUpdate(updateCmd, nil); err != nil {
		t.Fatalf("runUpdate() error = %v", err)
	}
	if !strings.Contains(buf.String(), "available") {
		t.Errorf("update output = %q", buf.String())
	}
}

func TestVersionTemplate(t *testing.T) {
	setupCLI(t)
	if rootCmd.Version == "" {
		t.Error("root command should carry a version")
	}
}
