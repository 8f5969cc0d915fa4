// Package floorplan draws a generated layout as an SVG floor plan.
//
// Each node's mask is thresholded at 0: cells with a positive value belong to
// the room. Rooms are painted in node order with their catalog colour and
// outlined in black along the boundary of their occupied cells. Later rooms
// paint over earlier ones where masks overlap; the model does not guarantee
// non-overlapping rooms.
//
//	svg, err := floorplan.RenderSVG(res.Masks, res.NodeTypeIDs, cat, floorplan.Options{Labels: true})
package floorplan

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/floorgen/pkg/catalog"
	"github.com/matzehuels/floorgen/pkg/mask"
)

// DefaultSize is the side length of the output image in pixels.
const DefaultSize = 256

// fallbackColor paints rooms whose type is missing from the catalog.
var fallbackColor = catalog.RGB{}

// Options configures rendering.
type Options struct {
	// Size is the output side length in pixels. Zero means DefaultSize.
	Size int
	// NoOutline skips the black room contours.
	NoOutline bool
	// Labels writes each room's name at the centre of its bounding box.
	Labels bool
}

// Room is one drawn room, reported for debugging and tests.
type Room struct {
	Node   int
	TypeID int
	Name   string
	Color  catalog.RGB
	Area   int
}

// RenderSVG draws masks (one per node) coloured by typeIDs.
func RenderSVG(masks []mask.Map, typeIDs []int, cat *catalog.Catalog, opts Options) ([]byte, error) {
	svg, _, err := render(masks, typeIDs, cat, opts)
	return svg, err
}

// Rooms returns what RenderSVG would draw, without drawing it.
func Rooms(masks []mask.Map, typeIDs []int, cat *catalog.Catalog) ([]Room, error) {
	_, rooms, err := render(masks, typeIDs, cat, Options{})
	return rooms, err
}

func render(masks []mask.Map, typeIDs []int, cat *catalog.Catalog, opts Options) ([]byte, []Room, error) {
	if len(masks) != len(typeIDs) {
		return nil, nil, fmt.Errorf("%d masks for %d type ids", len(masks), len(typeIDs))
	}
	if len(masks) == 0 {
		return nil, nil, fmt.Errorf("no masks to render")
	}
	grid := masks[0].Size
	for i, m := range masks {
		if err := m.Validate(grid); err != nil {
			return nil, nil, fmt.Errorf("mask %d: %w", i, err)
		}
	}

	size := opts.Size
	if size <= 0 {
		size = DefaultSize
	}
	scale := float64(size) / float64(grid)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n", size, size, size, size)
	fmt.Fprintf(&buf, `  <rect width="%d" height="%d" fill="#FFFFFF"/>`+"\n", size, size)

	rooms := make([]Room, len(masks))
	for i, m := range masks {
		room := Room{Node: i, TypeID: typeIDs[i], Color: fallbackColor, Area: m.Area()}
		if cat != nil {
			if rt, ok := cat.ByID(typeIDs[i]); ok {
				room.Name, room.Color = rt.Name, rt.Color
			}
		}
		rooms[i] = room
		if room.Area == 0 {
			continue
		}

		fmt.Fprintf(&buf, `  <g class="room" data-node="%d" data-type="%s">`+"\n", i, html.EscapeString(room.Name))
		fmt.Fprintf(&buf, `    <path d="%s" fill="%s"/>`+"\n", fillPath(m, scale), room.Color.Hex())
		if !opts.NoOutline {
			fmt.Fprintf(&buf, `    <path d="%s" fill="none" stroke="#000000" stroke-width="1"/>`+"\n", outlinePath(m, scale))
		}
		buf.WriteString("  </g>\n")
	}

	if opts.Labels {
		for i, m := range masks {
			x0, y0, x1, y1, ok := m.Bounds()
			if !ok || rooms[i].Name == "" {
				continue
			}
			cx, cy := float64(x0+x1)/2*scale, float64(y0+y1)/2*scale
			fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="%.1f" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
				cx, cy, max(8, scale*2.5), html.EscapeString(rooms[i].Name))
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), rooms, nil
}

// fillPath merges each row's occupied cells into horizontal runs.
func fillPath(m mask.Map, scale float64) string {
	var b bytes.Buffer
	for y := 0; y < m.Size; y++ {
		for x := 0; x < m.Size; {
			if !m.Occupied(x, y) {
				x++
				continue
			}
			start := x
			for x < m.Size && m.Occupied(x, y) {
				x++
			}
			fmt.Fprintf(&b, "M%s %sH%sV%sH%sZ",
				num(float64(start)*scale), num(float64(y)*scale),
				num(float64(x)*scale), num(float64(y+1)*scale),
				num(float64(start)*scale))
		}
	}
	return b.String()
}

// outlinePath emits every cell edge that separates an occupied cell from an
// unoccupied one (or the grid border).
func outlinePath(m mask.Map, scale float64) string {
	occupied := func(x, y int) bool {
		return x >= 0 && y >= 0 && x < m.Size && y < m.Size && m.Occupied(x, y)
	}

	var b bytes.Buffer
	seg := func(x0, y0, x1, y1 int) {
		fmt.Fprintf(&b, "M%s %sL%s %s",
			num(float64(x0)*scale), num(float64(y0)*scale),
			num(float64(x1)*scale), num(float64(y1)*scale))
	}
	for y := 0; y < m.Size; y++ {
		for x := 0; x < m.Size; x++ {
			if !occupied(x, y) {
				continue
			}
			if !occupied(x, y-1) {
				seg(x, y, x+1, y)
			}
			if !occupied(x, y+1) {
				seg(x, y+1, x+1, y+1)
			}
			if !occupied(x-1, y) {
				seg(x, y, x, y+1)
			}
			if !occupied(x+1, y) {
				seg(x+1, y, x+1, y+1)
			}
		}
	}
	return b.String()
}

func num(v float64) string {
	return fmt.Sprintf("%g", float64(int64(v*100+0.5))/100)
}
