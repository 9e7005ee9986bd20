package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/depwalk/pkg/config"
	"github.com/matzehuels/depwalk/pkg/errors"
	"github.com/matzehuels/depwalk/pkg/graph"
)

var (
	stateStyles = map[graph.State]lipgloss.Style{
		graph.StateResolved:  StyleSuccess,
		graph.StateTruncated: StyleWarning,
		graph.StateFailed:    StyleError,
		graph.StatePending:   StyleDim,
	}
	headerStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// printParams writes the effective run parameters as a key/value block.
func printParams(w io.Writer, cfg config.Config) {
	p := printer{w}
	p.line(StyleTitle.Render("Parameters"))
	for _, kv := range cfg.Params() {
		p.keyValue(kv.Name, kv.Value)
	}
	p.newline()
}

// printGraph writes g as a tree followed by a summary line. Each package
// appears once, under the parent that first reached it.
func printGraph(w io.Writer, g *graph.Graph) {
	p := printer{w}
	p.line(StyleTitle.Render("Dependencies of " + g.Root))
	for _, n := range treeOrder(g) {
		p.line(formatNode(n))
	}
	p.newline()
	p.line(summary(g))
}

// treeOrder lists nodes parent-first. A child is placed under a parent one
// level above it, so indenting by depth draws the breadth-first spanning
// tree. Nodes no tree path reaches follow in discovery order.
func treeOrder(g *graph.Graph) []*graph.Node {
	out := make([]*graph.Node, 0, g.NodeCount())
	seen := make(map[string]bool, g.NodeCount())

	var visit func(n *graph.Node)
	visit = func(n *graph.Node) {
		seen[n.Name()] = true
		out = append(out, n)
		for _, name := range g.Children(n.Name()) {
			child, ok := g.Node(name)
			if !ok || seen[name] || child.Depth != n.Depth+1 {
				continue
			}
			visit(child)
		}
	}
	if root := g.RootNode(); root != nil {
		visit(root)
	}
	for _, n := range g.Nodes() {
		if !seen[n.Name()] {
			seen[n.Name()] = true
			out = append(out, n)
		}
	}
	return out
}

func formatNode(n *graph.Node) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", n.Depth))
	b.WriteString(StyleValue.Render(n.Name()))
	if n.Version != "" {
		b.WriteString(StyleDim.Render("@" + n.Version))
	}
	b.WriteString(" ")
	b.WriteString(stateStyles[n.State].Render("[" + n.State.String() + "]"))
	if n.State == graph.StateFailed && n.Err != nil {
		b.WriteString(" ")
		b.WriteString(StyleError.Render(errors.UserMessage(n.Err)))
	}
	return b.String()
}

func summary(g *graph.Graph) string {
	return fmt.Sprintf("%s packages, %s edges, %s truncated, %s failed (depth %d of %d)",
		StyleNumber.Render(fmt.Sprint(g.NodeCount())),
		StyleNumber.Render(fmt.Sprint(g.EdgeCount())),
		StyleWarning.Render(fmt.Sprint(len(g.Truncated()))),
		StyleError.Render(fmt.Sprint(len(g.Failed()))),
		g.Depth(), g.MaxDepth,
	)
}

// failureTable lists failed nodes with their error codes, or returns "" when
// nothing failed.
func failureTable(g *graph.Graph) string {
	failed := g.Failed()
	if len(failed) == 0 {
		return ""
	}
	rows := make([][]string, 0, len(failed))
	for _, n := range failed {
		code, msg := "", ""
		if n.Err != nil {
			code, msg = string(errors.GetCode(n.Err)), errors.UserMessage(n.Err)
		}
		rows = append(rows, []string{n.Name(), fmt.Sprint(n.Depth), code, msg})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Package", "Depth", "Code", "Error").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 2 {
				return StyleError
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}
