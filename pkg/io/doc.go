// Package io provides JSON import and export for resolution graphs.
//
// # JSON Format
//
// A graph is written as one object with run information, nodes in
// discovery order, and edges in insertion order:
//
//	{
//	  "run_id": "7f1c...",
//	  "root": "app",
//	  "max_depth": 2,
//	  "nodes": [
//	    {"name": "app", "version": "1.0.0", "depth": 0, "state": "resolved",
//	     "declarations": [{"name": "lib", "range": "^2.0.0", "kind": "runtime"}]},
//	    {"name": "lib", "depth": 1, "state": "failed",
//	     "error": {"code": "PACKAGE_NOT_FOUND", "message": "..."}}
//	  ],
//	  "edges": [
//	    {"from": "app", "to": "lib"}
//	  ]
//	}
//
// Node state is one of "resolved", "truncated" or "failed". A failed node
// carries its error code and message; on import the error is rebuilt as an
// [errors.Error] with the same code.
//
// # Round Trip
//
// [ReadJSON] accepts what [WriteJSON] produces, so a resolved graph can be
// exported once and re-rendered later without touching the registry:
//
//	g, err := io.ImportJSON("deps.json")
//
// [errors.Error]: github.com/matzehuels/depwalk/pkg/errors.Error
package io
