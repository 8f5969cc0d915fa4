package server

import (
	"context"
	"net/http"

	"github.com/matzehuels/floorgen/pkg/adjacency"
	"github.com/matzehuels/floorgen/pkg/buildinfo"
	"github.com/matzehuels/floorgen/pkg/catalog"
	ferrors "github.com/matzehuels/floorgen/pkg/errors"
	"github.com/matzehuels/floorgen/pkg/graph"
	"github.com/matzehuels/floorgen/pkg/mask"
	"github.com/matzehuels/floorgen/pkg/pipeline"
	"github.com/matzehuels/floorgen/pkg/refine"
	"github.com/matzehuels/floorgen/pkg/render"
	"github.com/matzehuels/floorgen/pkg/render/nodelink"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

type roomsResponse struct {
	FeatureDim int                `json:"feature_dim"`
	Rooms      []catalog.RoomType `json:"rooms"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.counters.Snapshot())
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	cat := s.runner.Builder.Catalog()
	writeJSON(w, http.StatusOK, roomsResponse{FeatureDim: cat.FeatureDim(), Rooms: cat.Types()})
}

// graphRequest is the body of POST /v1/graph.
type graphRequest struct {
	Rooms []string `json:"rooms"`
	// Format is "json" (default) or a diagram format: dot, svg, png, pdf.
	Format   string `json:"format,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`
}

type graphResponse struct {
	Features        [][]float32 `json:"features"`
	Edges           [][3]int    `json:"edges"`
	ResolvedTypeIDs []int       `json:"resolved_type_ids"`
	Warnings        []string    `json:"warnings"`
	Hash            string      `json:"hash"`
}

var contentTypes = map[string]string{
	render.FormatDOT: "text/vnd.graphviz",
	render.FormatSVG: "image/svg+xml",
	render.FormatPNG: "image/png",
	render.FormatPDF: "application/pdf",
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	var req graphRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	gr, err := s.runner.BuildGraph(r.Context(), req.Rooms)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if req.Format == "" || req.Format == render.FormatJSON {
		writeJSON(w, http.StatusOK, graphResponse{
			Features:        gr.Features(),
			Edges:           gr.Edges(),
			ResolvedTypeIDs: gr.ResolvedTypeIDs,
			Warnings:        gr.Warnings,
			Hash:            gr.Hash,
		})
		return
	}

	data, err := s.runner.RenderGraph(r.Context(), gr, req.Format, nodelink.Options{Detailed: req.Detailed})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[req.Format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// layoutRequest is the body of POST /v1/layout.
type layoutRequest struct {
	Rooms []string `json:"rooms"`
	Seed  *uint64  `json:"seed,omitempty"`
	// Masks includes the raw mask grids in the response.
	Masks bool `json:"masks,omitempty"`
	// SVG includes the rendered floor plan in the response.
	SVG    bool `json:"svg,omitempty"`
	Labels bool `json:"labels,omitempty"`
}

type layoutResponse struct {
	RunID           string              `json:"run_id"`
	Seed            uint64              `json:"seed"`
	ResolvedTypeIDs []int               `json:"resolved_type_ids"`
	NodeTypeIDs     []int               `json:"node_type_ids"`
	AdjacentPairs   [][2]int            `json:"adjacent_pairs"`
	Warnings        []string            `json:"warnings"`
	Passes          []refine.PassRecord `json:"passes"`
	Stats           pipeline.Stats      `json:"stats"`
	Masks           []mask.Map          `json:"masks,omitempty"`
	Rooms           []roomSummary       `json:"rooms"`
	SVG             string              `json:"svg,omitempty"`
	RenderError     *errorDetail        `json:"render_error,omitempty"`
}

type roomSummary struct {
	Node   int    `json:"node"`
	TypeID int    `json:"type_id"`
	Area   int    `json:"area"`
	Bounds [4]int `json:"bounds"`
}

type errorDetail struct {
	Code    ferrors.Code `json:"code"`
	Message string       `json:"message"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := pipeline.Options{
		Seed:         req.Seed,
		Labels:       req.Labels,
		TotalTimeout: s.totalTimeout,
		Logger:       s.logger,
	}
	if req.SVG {
		opts.Formats = []string{render.FormatSVG}
	}

	res, err := s.runner.GenerateLayout(r.Context(), req.Rooms, opts)
	if err != nil {
		if r.Context().Err() == context.Canceled {
			// client went away; nothing to write to
			return
		}
		s.writeError(w, r, err)
		return
	}

	resp := layoutResponse{
		RunID:           res.RunID,
		Seed:            res.Seed,
		ResolvedTypeIDs: res.ResolvedTypeIDs,
		NodeTypeIDs:     res.NodeTypeIDs,
		AdjacentPairs:   adjacentPairs(res.Graph),
		Warnings:        res.Warnings,
		Passes:          res.Passes,
		Stats:           res.Stats,
		Rooms:           summarize(res.Masks, res.NodeTypeIDs),
	}
	if req.Masks {
		resp.Masks = res.Masks
	}
	if svg, ok := res.Artifacts[render.FormatSVG]; ok {
		resp.SVG = string(svg)
	}
	if res.RenderErr != nil {
		resp.RenderError = &errorDetail{Code: ferrors.GetCode(res.RenderErr), Message: ferrors.UserMessage(res.RenderErr)}
	}
	writeJSON(w, http.StatusOK, resp)
}

func adjacentPairs(g *graph.ConstraintGraph) [][2]int {
	pairs := [][2]int{}
	for _, e := range g.Edges {
		if e.Src < e.Dst && e.Relation == adjacency.Adjacent {
			pairs = append(pairs, [2]int{e.Src, e.Dst})
		}
	}
	return pairs
}

func summarize(masks []mask.Map, typeIDs []int) []roomSummary {
	rooms := make([]roomSummary, len(masks))
	for i, m := range masks {
		rooms[i] = roomSummary{Node: i, TypeID: typeIDs[i], Area: m.Area()}
		if x0, y0, x1, y1, ok := m.Bounds(); ok {
			rooms[i].Bounds = [4]int{x0, y0, x1, y1}
		}
	}
	return rooms
}
