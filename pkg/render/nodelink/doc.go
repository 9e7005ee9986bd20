// Package nodelink renders resolution graphs as node-link diagrams.
//
// # Usage
//
// Convert a graph to DOT, then render it with Graphviz:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	png, err := nodelink.Render(ctx, dot, render.FormatPNG)
//
// # Styling
//
// Nodes are boxes labeled with the package name and, when known, the
// selected version. The node state is visible in the drawing:
//
//   - resolved: white fill
//   - truncated: grey fill, dotted outline
//   - failed: red outline and text, dashed outline
//
// The root is drawn with a bold outline. With [Options].Detailed each label
// also shows the depth and, for failed nodes, the error message.
//
// Rendering uses the WebAssembly build of Graphviz bundled with
// github.com/goccy/go-graphviz, so no system Graphviz install is needed.
package nodelink
