// Package procedural is an in-process model backend that places each unfixed
// room as a rectangle in its own grid slot, sized and offset by the node's
// noise vector. Fixed rooms are returned exactly as conditioned.
//
// It has no learned knowledge of floor plans; it exists so the refinement
// loop, rendering and the API can run without an inference service.
package procedural

import (
	"context"
	"math"

	ferrors "github.com/matzehuels/floorgen/pkg/errors"
	"github.com/matzehuels/floorgen/pkg/mask"
	"github.com/matzehuels/floorgen/pkg/model"
)

// Generator is the procedural backend. The zero value is ready to use.
type Generator struct {
	// MinFill is the smallest share of its slot a room covers along each
	// axis. Zero means 0.5.
	MinFill float64
}

// New returns a procedural generator.
func New() *Generator { return &Generator{} }

// Invoke implements model.Generator.
func (g *Generator) Invoke(ctx context.Context, in model.Input) ([]mask.Map, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "procedural model")
	}

	n, size := in.Nodes(), in.Size()
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols
	slotW, slotH := float64(size)/float64(cols), float64(size)/float64(rows)

	minFill := g.MinFill
	if minFill <= 0 || minFill > 1 {
		minFill = 0.5
	}

	out := make([]mask.Map, n)
	for i, row := range in.Conditioning.Rows {
		if isFixed(row) {
			out[i] = row.Mask.Clone()
			continue
		}

		noise := in.Noise[i]
		fw := minFill + (1-minFill)*sigmoid(at(noise, 0))
		fh := minFill + (1-minFill)*sigmoid(at(noise, 1))
		w, h := fw*slotW, fh*slotH
		x0 := float64(i%cols)*slotW + (slotW-w)*sigmoid(at(noise, 2))
		y0 := float64(i/cols)*slotH + (slotH-h)*sigmoid(at(noise, 3))

		m := mask.Blank(size)
		fill(m, int(x0), int(y0), int(math.Ceil(x0+w)), int(math.Ceil(y0+h)))
		out[i] = m
	}
	return out, nil
}

func isFixed(r mask.Row) bool {
	return len(r.Indicator.Data) > 0 && r.Indicator.Data[0] > 0
}

func fill(m mask.Map, x0, y0, x1, y1 int) {
	x1, y1 = min(x1, m.Size), min(y1, m.Size)
	for y := max(y0, 0); y < y1; y++ {
		for x := max(x0, 0); x < x1; x++ {
			m.Set(x, y, 1)
		}
	}
}

func at(v []float32, i int) float64 {
	if i < len(v) {
		return float64(v[i])
	}
	return 0
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }
