package graph_test

import (
	"fmt"

	"github.com/matzehuels/depwalk/pkg/graph"
	"github.com/matzehuels/depwalk/pkg/registry"
)

func ExampleGraph_Visit() {
	g := graph.New("app")
	g.Visit(registry.PackageRef{Name: "app"}, 0)

	// A diamond: app -> left -> shared, app -> right -> shared.
	for _, mid := range []string{"left", "right"} {
		g.Visit(registry.PackageRef{Name: mid}, 1)
		g.AddEdge("app", mid)
		if _, created := g.Visit(registry.PackageRef{Name: "shared"}, 2); created {
			fmt.Println("discovered shared via", mid)
		}
		g.AddEdge(mid, "shared")
	}

	fmt.Println("nodes:", g.NodeCount())
	fmt.Println("edges:", g.EdgeCount())
	fmt.Println("parents of shared:", g.Parents("shared"))
	// Output:
	// discovered shared via left
	// nodes: 4
	// edges: 4
	// parents of shared: [left right]
}
