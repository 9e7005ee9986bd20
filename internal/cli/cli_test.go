package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

const testFixture = "testdata/repo.json"

// newTestCLI returns a CLI writing its report to out and its log and
// spinner output to a goroutine-safe buffer.
func newTestCLI(t *testing.T) (*CLI, *bytes.Buffer, *syncBuffer) {
	t.Helper()
	logs := &syncBuffer{}
	c := New(logs, LogInfo)
	out := &bytes.Buffer{}
	c.Out = out
	return c, out, logs
}

func execute(c *CLI, args ...string) error {
	cmd := c.RootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.ExecuteContext(context.Background())
}

func TestRootCommandHasSubcommands(t *testing.T) {
	c, _, _ := newTestCLI(t)
	root := c.RootCommand()
	for _, name := range []string{"resolve", "render", "browse", "serve"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestVerboseEnablesDebugLogging(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"before subcommand", []string{"-v", "resolve", "app"}},
		{"after subcommand", []string{"resolve", "app", "--verbose"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, logs := newTestCLI(t)
			path := t.TempDir() + "/graph.json"
			args := append(tt.args, "-t", "-r", testFixture, "-o", path, "-q")
			if err := execute(c, args...); err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if c.Logger.GetLevel() != LogDebug {
				t.Errorf("level = %v, want debug", c.Logger.GetLevel())
			}
			out := logs.String()
			for _, want := range []string{"resolve started", "package=express", "resolve complete"} {
				if !strings.Contains(out, want) {
					t.Errorf("debug log missing %q:\n%s", want, out)
				}
			}
		})
	}
}
