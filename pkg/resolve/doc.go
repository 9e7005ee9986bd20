// Package resolve builds the transitive dependency graph of a package.
//
// # Overview
//
// A [Resolver] walks the dependency declarations reachable from a root
// package, fetching each distinct package name from a [registry.Source] at
// most once per run:
//
//	src := registry.NewHTTPSource("https://registry.npmjs.org")
//	r := resolve.New(src, resolve.Options{MaxDepth: 3, Filter: "react"})
//	g, err := r.Resolve(ctx, registry.PackageRef{Name: "react-dom"})
//
// # Traversal
//
// Traversal is breadth-first, one depth level at a time. The packages of
// a level are fetched concurrently on a bounded worker pool; the results
// are then applied to the graph by the calling goroutine alone, in frontier
// order. A name is marked visited when it is first discovered, before it is
// queued, so it can never be fetched twice.
//
// For each fetched package:
//
//   - A failed fetch turns the node into a stub ([graph.StateFailed]) with
//     the error recorded. Siblings are unaffected.
//   - The declarations returned by [deps.Extract] are filtered by substring
//     before any node or edge is created.
//   - Below the depth bound, each admitted declaration adds an edge and,
//     if the name is new, a child node for the next level.
//   - At the depth bound the node is a leaf: it is marked
//     [graph.StateTruncated] when it has admitted declarations.
//
// # Errors
//
// Fetch errors never fail a run; they are recorded on the node. Resolve
// returns an error only when ctx is canceled. A negative MaxDepth is a
// programming error and panics.
package resolve
