package graph

import (
	"encoding/json"
	"fmt"
	"os"

	ferrors "github.com/matzehuels/floorgen/pkg/errors"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph serializes a graph to pretty-printed JSON bytes.
func MarshalGraph(g *ConstraintGraph) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// UnmarshalGraph deserializes a graph and checks its invariants.
//
// It accepts a bare graph object as well as a document that carries the
// graph under a "graph" key, such as the JSON output of the graph command.
func UnmarshalGraph(data []byte) (*ConstraintGraph, error) {
	var wrapped struct {
		Graph *ConstraintGraph `json:"graph"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "unmarshal graph")
	}
	g := wrapped.Graph
	if g == nil {
		g = &ConstraintGraph{}
		if err := json.Unmarshal(data, g); err != nil {
			return nil, ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "unmarshal graph")
		}
	}
	if err := g.Validate(); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "invalid graph")
	}
	return g, nil
}

// WriteGraphFile writes a graph to a JSON file.
func WriteGraphFile(g *ConstraintGraph, path string) error {
	data, err := MarshalGraph(g)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadGraphFile reads and validates a graph from a JSON file.
func ReadGraphFile(path string) (*ConstraintGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalGraph(data)
}
