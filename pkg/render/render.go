package render

import (
	"honnef.co/go/curve"

	"github.com/sectorviz/sectorviz/pkg/errors"
	"github.com/sectorviz/sectorviz/pkg/render/geom"
	"github.com/sectorviz/sectorviz/pkg/style"
)

// Sink is an output backend. A sink receives the primitive stream already in
// z-order, composites it into an intermediate layer with alpha-over, blends
// that layer onto the background with the configured mode, and encodes the
// result. Raster sinks produce pixels (PNG); vector sinks produce a document
// (SVG). Both must render the same stream to visually equivalent output,
// modulo rasterization itself.
type Sink interface {
	// Begin allocates a surface. origin is the radial center in canvas
	// coordinates; every wedge outline is built around it.
	Begin(canvas geom.Size, origin curve.Point, background style.Color) error
	// DrawWedge composites one primitive into the intermediate layer.
	// Invisible primitives are structural and must not paint.
	DrawWedge(p Primitive) error
	// BlendLayer merges the intermediate layer onto the background.
	BlendLayer(mode style.BlendMode) error
	// Finish encodes and returns the finished output.
	Finish() ([]byte, error)
}

// Render drives a sink over a composited primitive stream. It is the only
// place the backend is touched; everything before it is pure computation.
func Render(s Sink, plan *geom.Plan, prims []Primitive, background style.Color, mode style.BlendMode) ([]byte, error) {
	if err := s.Begin(plan.Canvas, plan.Origin, background); err != nil {
		return nil, err
	}
	for _, p := range prims {
		if err := s.DrawWedge(p); err != nil {
			return nil, err
		}
	}
	if err := s.BlendLayer(mode); err != nil {
		return nil, err
	}
	out, err := s.Finish()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackend, err, "encoding output")
	}
	return out, nil
}
