package graph

import (
	"errors"
	"fmt"
	"slices"

	"github.com/matzehuels/depwalk/pkg/deps"
	"github.com/matzehuels/depwalk/pkg/registry"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the name is empty.
	ErrInvalidNodeID = errors.New("node name must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same name already exists.
	ErrDuplicateNodeID = errors.New("duplicate node name")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the parent
	// node does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the child
	// node does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrDepthInvariant is returned by [Graph.Validate] when a stored depth
	// is inconsistent with the edges or the depth bound.
	ErrDepthInvariant = errors.New("depth invariant violated")
)

// State is the resolution state of a node.
type State int

const (
	StatePending   State = iota // discovered, not yet fetched
	StateResolved               // fetched and expanded (or nothing to expand)
	StateTruncated              // fetched at the depth bound with unexpanded declarations
	StateFailed                 // fetch failed; stub node
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	case StateTruncated:
		return "truncated"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(b []byte) error {
	for _, st := range []State{StatePending, StateResolved, StateTruncated, StateFailed} {
		if st.String() == string(b) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown node state %q", b)
}

// Node is one package in the resolution graph.
type Node struct {
	Ref          registry.PackageRef // Requested name and version
	Version      string              // Version actually selected, if fetched
	Depth        int                 // Minimum depth from the root
	Declarations []deps.Declaration  // Admitted declarations (after filtering)
	State        State
	Err          error // Fetch error for StateFailed nodes
}

// Name returns the package name, which is the node's identity.
func (n *Node) Name() string { return n.Ref.Name }

// Edge is a directed dependency from a parent to a child package.
type Edge struct {
	From string
	To   string
}

// Graph is the result of a resolver run.
//
// The zero value is not usable; use [New].
type Graph struct {
	RunID    string // Unique identifier of the run that produced the graph
	Root     string // Name of the root package
	MaxDepth int    // Depth bound the graph was resolved with

	nodes    map[string]*Node
	order    []string
	edges    []Edge
	edgeSet  map[Edge]struct{}
	outgoing map[string][]string
	incoming map[string][]string
}

// New creates an empty graph for the given root package name.
func New(root string) *Graph {
	return &Graph{
		Root:     root,
		nodes:    make(map[string]*Node),
		edgeSet:  make(map[Edge]struct{}),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a node. Returns ErrInvalidNodeID for an empty name or
// ErrDuplicateNodeID if the name is already present.
func (g *Graph) AddNode(n Node) (*Node, error) {
	name := n.Ref.Name
	if name == "" {
		return nil, ErrInvalidNodeID
	}
	if _, exists := g.nodes[name]; exists {
		return nil, ErrDuplicateNodeID
	}
	node := &n
	g.nodes[name] = node
	g.order = append(g.order, name)
	return node, nil
}

// Visit is the check-and-mark step of a traversal. If name is new, a
// pending node at depth is created and Visit returns it with created set.
// Otherwise the existing node is returned and its depth is lowered to depth
// if depth is smaller.
func (g *Graph) Visit(ref registry.PackageRef, depth int) (n *Node, created bool) {
	if n, ok := g.nodes[ref.Name]; ok {
		n.Depth = min(n.Depth, depth)
		return n, false
	}
	n, err := g.AddNode(Node{Ref: ref, Depth: depth})
	if err != nil {
		return nil, false
	}
	return n, true
}

// AddEdge adds the edge from->to unless it already exists. It reports
// whether the edge was added. Both nodes must exist.
func (g *Graph) AddEdge(from, to string) (bool, error) {
	if _, ok := g.nodes[from]; !ok {
		return false, ErrUnknownSourceNode
	}
	if _, ok := g.nodes[to]; !ok {
		return false, ErrUnknownTargetNode
	}
	e := Edge{From: from, To: to}
	if _, dup := g.edgeSet[e]; dup {
		return false, nil
	}
	g.edgeSet[e] = struct{}{}
	g.edges = append(g.edges, e)
	g.outgoing[from] = append(g.outgoing[from], to)
	g.incoming[to] = append(g.incoming[to], from)
	return true, nil
}

// Node returns the node with the given name and true, or nil and false.
func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// RootNode returns the root node, or nil if it was never added.
func (g *Graph) RootNode() *Node { return g.nodes[g.Root] }

// Nodes returns all nodes in discovery order. With a breadth-first
// resolver this is also non-decreasing depth order.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, len(g.order))
	for i, name := range g.order {
		nodes[i] = g.nodes[name]
	}
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// HasEdge reports whether the edge from->to exists.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.edgeSet[Edge{From: from, To: to}]
	return ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Children returns the names this node has edges to, in insertion order.
// The returned slice should not be modified.
func (g *Graph) Children(name string) []string { return g.outgoing[name] }

// Parents returns the names that have edges to this node.
// The returned slice should not be modified.
func (g *Graph) Parents(name string) []string { return g.incoming[name] }

// NodesInState returns the nodes in the given state, in discovery order.
func (g *Graph) NodesInState(s State) []*Node {
	var out []*Node
	for _, name := range g.order {
		if n := g.nodes[name]; n.State == s {
			out = append(out, n)
		}
	}
	return out
}

// Truncated returns the depth-truncated nodes.
func (g *Graph) Truncated() []*Node { return g.NodesInState(StateTruncated) }

// Failed returns the stub nodes whose fetch failed.
func (g *Graph) Failed() []*Node { return g.NodesInState(StateFailed) }

// Depth returns the largest node depth, or 0 for an empty graph.
func (g *Graph) Depth() int {
	d := 0
	for _, n := range g.nodes {
		d = max(d, n.Depth)
	}
	return d
}

// Validate checks the structural invariants of a finished graph:
// every edge references existing nodes, failed nodes have no outgoing
// edges, no node is deeper than MaxDepth, and a child's depth is at most
// its parent's depth plus one.
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		from, ok := g.nodes[e.From]
		if !ok {
			return fmt.Errorf("edge %s->%s: %w", e.From, e.To, ErrUnknownSourceNode)
		}
		to, ok := g.nodes[e.To]
		if !ok {
			return fmt.Errorf("edge %s->%s: %w", e.From, e.To, ErrUnknownTargetNode)
		}
		if from.State == StateFailed {
			return fmt.Errorf("failed node %s has outgoing edge to %s", e.From, e.To)
		}
		if to.Depth > from.Depth+1 {
			return fmt.Errorf("edge %s->%s: child depth %d > parent depth %d + 1: %w",
				e.From, e.To, to.Depth, from.Depth, ErrDepthInvariant)
		}
	}
	for _, n := range g.nodes {
		if n.Depth > g.MaxDepth {
			return fmt.Errorf("node %s at depth %d exceeds max depth %d: %w",
				n.Name(), n.Depth, g.MaxDepth, ErrDepthInvariant)
		}
	}
	return nil
}
