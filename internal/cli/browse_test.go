package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/depwalk/pkg/graph"
	"github.com/matzehuels/depwalk/pkg/registry"
)

func browseGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New("app")
	for _, n := range []struct {
		name  string
		depth int
	}{{"app", 0}, {"express", 1}, {"react", 1}, {"body-parser", 2}} {
		if _, err := g.AddNode(graph.Node{Ref: registry.PackageRef{Name: n.name}, Depth: n.depth, State: graph.StateResolved}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range [][2]string{{"app", "express"}, {"app", "react"}, {"express", "body-parser"}} {
		if _, err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func press(m tea.Model, keys ...tea.KeyMsg) GraphModel {
	for _, k := range keys {
		m, _ = m.Update(k)
	}
	return m.(GraphModel)
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyBack  = tea.KeyMsg{Type: tea.KeyBackspace}
)

func TestGraphModelNavigation(t *testing.T) {
	m := NewGraphModel(browseGraph(t))

	m = press(m, keyDown, keyDown)
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d after two downs over two children, want 1", m.Cursor)
	}
	m = press(m, keyUp)
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d after up, want 0", m.Cursor)
	}

	m = press(m, keyEnter)
	if m.Focus != "express" || len(m.Trail) != 1 {
		t.Fatalf("Focus = %q Trail = %v, want express under app", m.Focus, m.Trail)
	}

	// body-parser has no children; enter is a no-op there.
	m = press(m, keyEnter, keyEnter)
	if m.Focus != "body-parser" {
		t.Fatalf("Focus = %q, want body-parser", m.Focus)
	}

	m = press(m, keyBack, keyBack)
	if m.Focus != "app" || len(m.Trail) != 0 {
		t.Errorf("Focus = %q Trail = %v, want app at the top", m.Focus, m.Trail)
	}
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d, want back on express", m.Cursor)
	}
	m = press(m, keyBack)
	if m.Focus != "app" {
		t.Errorf("backspace at the root moved focus to %q", m.Focus)
	}
}

func TestGraphModelQuit(t *testing.T) {
	_, cmd := NewGraphModel(browseGraph(t)).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestGraphModelView(t *testing.T) {
	m := NewGraphModel(browseGraph(t))
	view := m.View()
	for _, want := range []string{"app", "express", "react", "resolved", "[1/2]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m = press(m, keyDown, keyEnter)
	if view := m.View(); !strings.Contains(view, "no dependencies followed") {
		t.Errorf("leaf view = %q, want empty-list hint", view)
	}
}

func TestGraphModelWindowSize(t *testing.T) {
	m, _ := NewGraphModel(browseGraph(t)).Update(tea.WindowSizeMsg{Width: 80, Height: 8})
	if got := m.(GraphModel).Height; got != 5 {
		t.Errorf("Height = %d, want the minimum 5", got)
	}
}
