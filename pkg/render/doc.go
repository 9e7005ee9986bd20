// Package render selects output formats for resolved dependency graphs.
//
// # Formats
//
// The output format is chosen from the output file's extension with
// [FormatFromPath]:
//
//   - .json: graph export (see package io)
//   - .dot, .gv: Graphviz DOT source
//   - .svg, .png, .jpg: images rendered by the [nodelink] package
//
// The default output file, dependency_graph.png, renders a PNG.
package render
