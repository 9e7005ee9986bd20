package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/depwalk/pkg/errors"
	"github.com/matzehuels/depwalk/pkg/graph"
	"github.com/matzehuels/depwalk/pkg/registry"
)

// ReadJSON decodes a graph written by [WriteJSON].
//
// ReadJSON returns an error if the JSON is malformed, a node is unnamed or
// duplicated, or an edge references an unknown node. Errors are wrapped
// with the offending node or edge. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*graph.Graph, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := graph.New(data.Root)
	g.RunID = data.RunID
	g.MaxDepth = data.MaxDepth

	for _, n := range data.Nodes {
		nd := graph.Node{
			Ref:          registry.PackageRef{Name: n.Name, Version: n.Requested},
			Version:      n.Version,
			Depth:        n.Depth,
			State:        n.State,
			Declarations: n.Declarations,
		}
		if n.Error != nil {
			nd.Err = errors.New(n.Error.Code, "%s", n.Error.Message)
		}
		if _, err := g.AddNode(nd); err != nil {
			return nil, fmt.Errorf("node %q: %w", n.Name, err)
		}
	}
	for _, e := range data.Edges {
		if _, err := g.AddEdge(e.From, e.To); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}

	return g, nil
}

// ImportJSON reads a JSON file at path and returns the decoded graph.
func ImportJSON(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
