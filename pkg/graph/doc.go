// Package graph defines the resolution graph produced by a resolver run.
//
// A [Graph] maps each package name to exactly one [Node] and keeps an
// ordered list of directed, deduplicated edges from a package to the
// packages it declares. Unlike a tree, a graph shares nodes between
// parents (diamond dependencies) and may contain cycles.
//
// # Node States
//
// Every node ends a run in one of three states:
//
//   - [StateResolved]: metadata was fetched and, if the node was within the
//     depth bound, its admitted declarations were expanded
//   - [StateTruncated]: metadata was fetched at the maximum depth and the
//     node has declarations that were not expanded
//   - [StateFailed]: the fetch failed; the node is a stub with the error
//     recorded and no outgoing edges
//
// # Depth
//
// A node's Depth is the minimum distance from the root over every path the
// resolver discovered. [Graph.Visit] keeps this invariant: re-visiting a
// known name at a smaller depth lowers the stored depth.
//
// A Graph is not safe for concurrent use. The resolver mutates it from a
// single goroutine.
package graph
