package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/depwalk/pkg/deps"
	"github.com/matzehuels/depwalk/pkg/errors"
	"github.com/matzehuels/depwalk/pkg/graph"
)

type document struct {
	RunID    string `json:"run_id,omitempty"`
	Root     string `json:"root"`
	MaxDepth int    `json:"max_depth"`
	Nodes    []node `json:"nodes"`
	Edges    []edge `json:"edges"`
}

type node struct {
	Name         string             `json:"name"`
	Requested    string             `json:"requested,omitempty"`
	Version      string             `json:"version,omitempty"`
	Depth        int                `json:"depth"`
	State        graph.State        `json:"state"`
	Declarations []deps.Declaration `json:"declarations,omitempty"`
	Error        *nodeError         `json:"error,omitempty"`
}

type nodeError struct {
	Code    errors.Code `json:"code,omitempty"`
	Message string      `json:"message"`
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WriteJSON encodes g as JSON and writes it to w.
func WriteJSON(g *graph.Graph, w io.Writer) error {
	out := document{
		RunID:    g.RunID,
		Root:     g.Root,
		MaxDepth: g.MaxDepth,
		Nodes:    make([]node, 0, g.NodeCount()),
		Edges:    make([]edge, 0, g.EdgeCount()),
	}

	for _, n := range g.Nodes() {
		nd := node{
			Name:         n.Name(),
			Requested:    n.Ref.Version,
			Version:      n.Version,
			Depth:        n.Depth,
			State:        n.State,
			Declarations: n.Declarations,
		}
		if n.Err != nil {
			nd.Error = &nodeError{Code: errors.GetCode(n.Err), Message: errors.UserMessage(n.Err)}
		}
		out.Nodes = append(out.Nodes, nd)
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, edge{From: e.From, To: e.To})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes g to a JSON file at path.
func ExportJSON(g *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(g, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
