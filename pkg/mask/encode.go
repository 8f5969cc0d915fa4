package mask

import (
	"github.com/zyedidia/generic/mapset"

	ferrors "github.com/matzehuels/floorgen/pkg/errors"
)

// Row is the conditioning for one node.
type Row struct {
	Mask      Map `json:"mask"`      // channel 0
	Indicator Map `json:"indicator"` // channel 1
}

// Tensor is the [nodes, 2, size, size] conditioning input of the model.
type Tensor struct {
	Rows []Row `json:"rows"`
}

// Len returns the number of node rows.
func (t Tensor) Len() int { return len(t.Rows) }

// Flatten returns the tensor as [node][channel][y][x].
func (t Tensor) Flatten() [][][][]float32 {
	out := make([][][][]float32, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = [][][]float32{grid(r.Mask), grid(r.Indicator)}
	}
	return out
}

func grid(m Map) [][]float32 {
	rows := make([][]float32, m.Size)
	for y := range rows {
		rows[y] = append([]float32(nil), m.Data[y*m.Size:(y+1)*m.Size]...)
	}
	return rows
}

// Encode builds the conditioning tensor for a pass.
//
// prior may be nil, in which case every node starts Unassigned and fixed must
// be empty. Otherwise it needs one map of the given size per node. Masks of
// fixed nodes are copied from prior; every other node is overwritten with
// Unassigned regardless of what prior holds.
func Encode(nodes, size int, prior []Map, fixed []int) (Tensor, error) {
	if nodes <= 0 {
		return Tensor{}, ferrors.New(ferrors.ErrCodeInvalidInput, "node count must be positive, got %d", nodes)
	}
	if size <= 0 {
		return Tensor{}, ferrors.New(ferrors.ErrCodeInvalidInput, "mask size must be positive, got %d", size)
	}
	if prior != nil && len(prior) != nodes {
		return Tensor{}, ferrors.New(ferrors.ErrCodeInvalidInput, "prior has %d masks for %d nodes", len(prior), nodes)
	}
	for i, m := range prior {
		if err := m.Validate(size); err != nil {
			return Tensor{}, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "prior mask %d", i)
		}
	}

	set := mapset.New[int]()
	for _, idx := range fixed {
		if idx < 0 || idx >= nodes {
			return Tensor{}, ferrors.New(ferrors.ErrCodeInvalidInput, "fixed index %d out of range [0,%d)", idx, nodes)
		}
		set.Put(idx)
	}
	if prior == nil && set.Size() > 0 {
		return Tensor{}, ferrors.New(ferrors.ErrCodeInvalidInput, "cannot fix %d nodes without prior masks", set.Size())
	}

	t := Tensor{Rows: make([]Row, nodes)}
	for i := range t.Rows {
		if set.Has(i) {
			t.Rows[i] = Row{Mask: prior[i].Clone(), Indicator: Filled(size, 1)}
		} else {
			t.Rows[i] = Row{Mask: Blank(size), Indicator: Filled(size, 0)}
		}
	}
	return t, nil
}
