// Package registry fetches raw package metadata for dependency resolution.
//
// # Sources
//
// A [Source] returns the metadata document of a package by name:
//
//   - [HTTPSource]: live mode, GET <registry>/<name> against an
//     npm-compatible registry, with retry on transient failures
//   - [FixtureSource]: test mode, a local JSON document keyed by package
//     name, read once
//
// # Documents
//
// [DecodeMetadata] accepts a full packument
//
//	{"name": "a", "dist-tags": {"latest": "1.0.0"}, "versions": {"1.0.0": {...}}}
//
// or a single version record
//
//	{"version": "1.0.0", "dependencies": {"b": "^2.0.0"}}
//
// Dependency maps decode into [DependencyMap], which keeps document order.
//
// # Outcomes
//
// [Do] combines fetching and version selection into a [Result] whose
// [Result.Outcome] is one of OK, NotFound, NetworkFailure or Malformed.
// The resolver switches on it to decide between expanding a node and
// recording a stub.
package registry
