package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/depwalk/pkg/errors"
	"github.com/matzehuels/depwalk/pkg/graph"
	pkgio "github.com/matzehuels/depwalk/pkg/io"
)

func nodeNames(g *graph.Graph) []string {
	var names []string
	for _, n := range g.Nodes() {
		names = append(names, n.Name())
	}
	return names
}

func TestResolveCommandJSON(t *testing.T) {
	c, out, _ := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "out", "graph.json")

	if err := execute(c, "resolve", "app", "-t", "-r", testFixture, "-d", "2", "-o", path); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	g, err := pkgio.ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if got, want := nodeNames(g), []string{"app", "express", "react", "jest", "body-parser"}; !slices.Equal(got, want) {
		t.Errorf("nodes = %v, want %v", got, want)
	}
	if n, _ := g.Node("body-parser"); n.State != graph.StateTruncated {
		t.Errorf("body-parser.State = %v, want truncated", n.State)
	}
	if g.RunID == "" {
		t.Error("exported graph has no run ID")
	}

	report := out.String()
	for _, want := range []string{"Parameters", "max_depth", "app@1.0.0", "body-parser@1.20.1 [truncated]", "Wrote " + path} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestResolveCommandReportsFailures(t *testing.T) {
	c, out, _ := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "graph.dot")

	if err := execute(c, "resolve", "-p", "app", "-t", "-r", testFixture, "-d", "3", "-o", path); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	dot, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(dot), "digraph") || !strings.Contains(string(dot), `"ghost"`) {
		t.Errorf("DOT output missing graph or ghost node:\n%s", dot)
	}
	report := out.String()
	if !strings.Contains(report, "ghost [failed]") {
		t.Errorf("report does not mark ghost failed:\n%s", report)
	}
	if !strings.Contains(report, "1 of 6 packages could not be fetched") {
		t.Errorf("report missing failure warning:\n%s", report)
	}
}

func TestResolveCommandFilter(t *testing.T) {
	c, _, _ := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "graph.json")

	if err := execute(c, "resolve", "app", "-t", "-r", testFixture, "-f", "re", "-o", path, "-q"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	g, err := pkgio.ImportJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := nodeNames(g), []string{"app", "express", "react"}; !slices.Equal(got, want) {
		t.Errorf("nodes = %v, want %v", got, want)
	}
}

func TestResolveCommandPinnedVersion(t *testing.T) {
	c, _, _ := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "graph.json")

	if err := execute(c, "resolve", "app", "--version", "0.9.0", "-t", "-r", testFixture, "-d", "0", "-o", path, "-q"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	g, err := pkgio.ImportJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if root := g.RootNode(); root.Version != "0.9.0" || root.State != graph.StateTruncated {
		t.Errorf("root = %s@%s %v, want app@0.9.0 truncated", root.Name(), root.Version, root.State)
	}
}

func TestResolveCommandRootMissing(t *testing.T) {
	c, out, _ := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "graph.json")

	err := execute(c, "resolve", "nope", "-t", "-r", testFixture, "-o", path)
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Fatalf("err = %v, want PACKAGE_NOT_FOUND", err)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Errorf("stub graph not written: %v", statErr)
	}
	if !strings.Contains(out.String(), "nope [failed]") {
		t.Errorf("report does not mark root failed:\n%s", out.String())
	}
}

func TestResolveCommandConfigLayering(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "graph.json")
	cfgPath := filepath.Join(dir, "depwalk.toml")
	toml := `package_name = "app"
test_mode = true
repo_url = "` + testFixture + `"
max_depth = 1
output_file = "` + filepath.ToSlash(out) + `"
`
	if err := os.WriteFile(cfgPath, []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}

	c, _, _ := newTestCLI(t)
	if err := execute(c, "resolve", "-c", cfgPath, "-d", "3", "-q"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	g, err := pkgio.ImportJSON(out)
	if err != nil {
		t.Fatal(err)
	}
	if g.MaxDepth != 3 {
		t.Errorf("MaxDepth = %d, want the flag's 3 over the file's 1", g.MaxDepth)
	}
	if _, ok := g.Node("ghost"); !ok {
		t.Error("ghost missing at depth 3")
	}
}

func TestResolveCommandCSVConfig(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "graph.json")
	csv := "parameter,value\n" +
		"package_name,app\n" +
		"test_mode,true\n" +
		"repo_url," + testFixture + "\n" +
		"max_depth,0\n" +
		"output_file," + out + "\n"
	cfgPath := filepath.Join(dir, "params.csv")
	if err := os.WriteFile(cfgPath, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	c, _, _ := newTestCLI(t)
	if err := execute(c, "resolve", "--config", cfgPath, "-q"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	g, err := pkgio.ImportJSON(out)
	if err != nil {
		t.Fatal(err)
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount = %d, want 1 at max_depth 0", g.NodeCount())
	}
}

func TestResolveCommandInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no package", []string{"resolve", "-t", "-r", testFixture}},
		{"negative depth", []string{"resolve", "app", "-d", "-1"}},
		{"bad url", []string{"resolve", "app", "-r", "ftp://example.com"}},
		{"zero workers", []string{"resolve", "app", "--workers", "0"}},
		{"arg and flag disagree", []string{"resolve", "app", "-p", "other"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTestCLI(t)
			err := execute(c, tt.args...)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestResolveCommandBadOutputFormat(t *testing.T) {
	c, _, _ := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "graph.txt")

	err := execute(c, "resolve", "app", "-t", "-r", testFixture, "-o", path, "-q")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}
