// Package deps extracts dependency declarations from a package version
// record.
//
// # Fallback Policy
//
// A record's runtime dependencies take precedence. When the record declares
// at least one runtime dependency, only those are returned. Otherwise the
// peer dependencies are returned, followed by the dev dependencies:
//
//	decls := deps.Extract(record)
//	for _, d := range decls {
//	    fmt.Println(d.Name, d.Range, d.Kind)
//	}
//
// Declarations keep the order in which the registry document lists them.
// A name that appears twice (in one mapping, or in both peer and dev) is
// reported once, with the kind and range of its first occurrence.
//
// # Filtering
//
// [Filter] applies the resolver's substring filter. It is applied before
// any node or edge is created, so a rejected name is never fetched.
package deps
