package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/depwalk/pkg/errors"
)

func TestRenderCommandDOT(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "graph.json")

	c, out, _ := newTestCLI(t)
	if err := execute(c, "resolve", "app", "-t", "-r", testFixture, "-o", input, "-q"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if err := execute(c, "render", input, "-f", "dot"); err != nil {
		t.Fatalf("render: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "graph.dot"))
	if err != nil {
		t.Fatalf("default output path not written: %v", err)
	}
	dot := string(data)
	for _, want := range []string{"digraph G", `"app" -> "express"`, `"express" -> "body-parser"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if !strings.Contains(out.String(), "Rendered app") {
		t.Errorf("output = %q, want render confirmation", out.String())
	}
}

func TestRenderCommandErrors(t *testing.T) {
	c, _, _ := newTestCLI(t)

	if err := execute(c, "render", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("render of a missing file succeeded")
	}
	if err := execute(c, "render", "x.json", "-f", "pdf"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}
