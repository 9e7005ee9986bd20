package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/depwalk/pkg/errors"
	"github.com/matzehuels/depwalk/pkg/graph"
	"github.com/matzehuels/depwalk/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the depth (and errors of failed nodes) to node labels.
	Detailed bool
}

// ToDOT converts a resolution graph to Graphviz DOT source.
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed), n.Name() == g.Root)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Name(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *graph.Node, detailed bool) string {
	label := n.Name()
	if n.Version != "" {
		label += "\n" + n.Version
	}
	if !detailed {
		return label
	}

	label += fmt.Sprintf("\ndepth: %d", n.Depth)
	if n.Err != nil {
		label += "\n" + errors.UserMessage(n.Err)
	}
	return label
}

func fmtAttrs(n *graph.Node, label string, root bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch n.State {
	case graph.StateTruncated:
		attrs = append(attrs, "style=\"rounded,filled,dotted\"", "fillcolor=lightgrey")
	case graph.StateFailed:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "color=red", "fontcolor=red")
	}
	if root {
		attrs = append(attrs, "penwidth=2")
	}
	return attrs
}

var gvFormats = map[render.Format]graphviz.Format{
	render.FormatSVG: graphviz.SVG,
	render.FormatPNG: graphviz.PNG,
	render.FormatJPG: graphviz.JPG,
}

// Render lays out DOT source with Graphviz and returns the image in the
// given format (SVG, PNG or JPG).
func Render(ctx context.Context, dot string, format render.Format) ([]byte, error) {
	gvFormat, ok := gvFormats[format]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "graphviz cannot render %q", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// RenderSVG is [Render] with SVG output.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return Render(ctx, dot, render.FormatSVG)
}
