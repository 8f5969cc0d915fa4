package graph_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/floorgen/pkg/adjacency"
	"github.com/matzehuels/floorgen/pkg/catalog"
	"github.com/matzehuels/floorgen/pkg/graph"
)

func ExampleBuilder_Build() {
	cat := catalog.Default()
	cls, _ := adjacency.Default(cat)

	g, warnings, err := graph.NewBuilder(cat, cls).Build([]string{"living_room", "bedroom", "kitchen"})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println("types:", g.TypeIDs())
	fmt.Println("warnings:", len(warnings))
	for _, t := range g.Triples() {
		fmt.Println(t)
	}
	// Output:
	// types: [0 2 1]
	// warnings: 0
	// [0 1 1]
	// [1 1 0]
	// [0 1 2]
	// [2 1 0]
	// [1 -1 2]
	// [2 -1 1]
}

func ExampleBuilder_Build_unknownRoom() {
	cat := catalog.Default()
	cls, _ := adjacency.Default(cat)

	g, warnings, _ := graph.NewBuilder(cat, cls).Build([]string{"kitchen", "sauna"})
	fmt.Println(g.NodeCount(), "node")
	fmt.Println(warnings[0])
	fmt.Println(g.Triples())
	// Output:
	// 1 node
	// unknown room type "sauna", skipping
	// [[0 1 0]]
}

func ExampleReadGraphFile() {
	cat := catalog.Default()
	cls, _ := adjacency.Default(cat)
	g, _, _ := graph.NewBuilder(cat, cls).Build([]string{"living_room", "bathroom"})

	dir, _ := os.MkdirTemp("", "graph-example")
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "graph.json")

	if err := graph.WriteGraphFile(g, path); err != nil {
		fmt.Println("Error:", err)
		return
	}
	loaded, err := graph.ReadGraphFile(path)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(loaded.NodeCount(), "nodes,", loaded.AdjacentPairs(), "adjacent pair")
	// Output:
	// 2 nodes, 1 adjacent pair
}
