// Package mask holds the per-room grid maps the layout model reads and writes,
// and encodes them into the two-channel conditioning tensor.
//
// A [Map] is a square grid of values in [-1, 1]. Positive cells mean "part of
// this room". [Unassigned] (-1) fills a map that carries no information yet.
//
// [Encode] builds one [Row] per node: channel 0 is the node's prior mask if
// the node is fixed and a grid of Unassigned otherwise; channel 1 is an
// indicator grid, 1 everywhere for fixed nodes and 0 for the rest.
package mask

import (
	"fmt"
	"slices"
)

const (
	// Unassigned marks a grid cell that carries no layout information.
	Unassigned float32 = -1

	// DefaultSize is the side length of the model's output grid.
	DefaultSize = 64
)

// Map is a square, row-major grid of Size*Size values.
type Map struct {
	Size int       `json:"size"`
	Data []float32 `json:"data"`
}

// Filled returns a size×size map with every cell set to v.
func Filled(size int, v float32) Map {
	data := make([]float32, size*size)
	if v != 0 {
		for i := range data {
			data[i] = v
		}
	}
	return Map{Size: size, Data: data}
}

// Blank returns a size×size map of Unassigned.
func Blank(size int) Map { return Filled(size, Unassigned) }

// At returns the value at column x, row y.
func (m Map) At(x, y int) float32 { return m.Data[y*m.Size+x] }

// Set writes v at column x, row y.
func (m Map) Set(x, y int, v float32) { m.Data[y*m.Size+x] = v }

// Clone returns a deep copy.
func (m Map) Clone() Map {
	return Map{Size: m.Size, Data: slices.Clone(m.Data)}
}

// Validate reports whether m is a well-formed size×size map.
func (m Map) Validate(size int) error {
	if m.Size != size {
		return fmt.Errorf("map size %d, want %d", m.Size, size)
	}
	if len(m.Data) != size*size {
		return fmt.Errorf("map has %d cells, want %d", len(m.Data), size*size)
	}
	return nil
}

// Occupied reports whether the cell at (x, y) belongs to the room.
func (m Map) Occupied(x, y int) bool { return m.At(x, y) > 0 }

// Area counts occupied cells.
func (m Map) Area() int {
	n := 0
	for _, v := range m.Data {
		if v > 0 {
			n++
		}
	}
	return n
}

// Bounds returns the bounding box of occupied cells as [x0, y0, x1, y1)
// and false if no cell is occupied.
func (m Map) Bounds() (x0, y0, x1, y1 int, ok bool) {
	x0, y0 = m.Size, m.Size
	for y := 0; y < m.Size; y++ {
		for x := 0; x < m.Size; x++ {
			if !m.Occupied(x, y) {
				continue
			}
			ok = true
			x0, y0 = min(x0, x), min(y0, y)
			x1, y1 = max(x1, x+1), max(y1, y+1)
		}
	}
	if !ok {
		return 0, 0, 0, 0, false
	}
	return x0, y0, x1, y1, true
}
