// Package render turns an analyzed disk plus a resolved style into a stream
// of drawable primitives and drives an output sink over that stream.
//
// The pipeline is strictly two-stage: every primitive composites into one
// intermediate layer with plain alpha-over, and only that finished layer is
// blended onto the canvas background with the configured blend mode. Element
// overlap therefore looks identical no matter which global mode is selected.
package render

import (
	"cmp"
	"slices"

	"github.com/sectorviz/sectorviz/pkg/disk"
	"github.com/sectorviz/sectorviz/pkg/errors"
	"github.com/sectorviz/sectorviz/pkg/render/geom"
	"github.com/sectorviz/sectorviz/pkg/style"
)

// Layer identifies a primitive's place in the fixed z-order.
type Layer int

const (
	// LayerTrack is the base ring drawn under a track's elements.
	LayerTrack Layer = iota
	// LayerElement is sector/marker data.
	LayerElement
	// LayerMask is a weak/error overlay drawn above everything in its span.
	LayerMask
)

// Primitive is one quadrant wedge with its resolved appearance, ready for a
// sink. Primitives arrive at sinks already in final z-order.
type Primitive struct {
	Wedge geom.Wedge
	Fill  style.Color
	// Stroke is drawn as a separate quadrant-local outline pass when
	// StrokeWidth is positive. It never spans the overlap seam.
	Stroke      style.Color
	StrokeWidth float64
	Layer       Layer
	// Visible is false only for structural primitives: a track ring whose
	// configured fill has zero alpha still occupies the stream so
	// metadata-only renders keep their ring geometry, but sinks must not
	// paint it.
	Visible bool
}

// Composite builds the full primitive stream for the given plan. sides maps
// plan side index to disk side index, letting a single-side plan render
// either face. The z-order is fixed: per track, the base ring first, then
// elements in ascending angular order, then mask overlays; tracks are
// emitted outside-in per side.
func Composite(plan *geom.Plan, d *disk.Disk, spec *style.Spec, sides []int) ([]Primitive, error) {
	if len(sides) != plan.SideCount() {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"plan has %d sides but %d disk sides were mapped", plan.SideCount(), len(sides))
	}

	var prims []Primitive
	for planSide, diskSide := range sides {
		if diskSide < 0 || diskSide >= d.SideCount() {
			return nil, errors.New(errors.ErrCodeInvalidInput, "disk has no side %d", diskSide)
		}
		tracks := d.Sides[diskSide].Tracks
		for trackIdx := 0; trackIdx < plan.TrackCount() && trackIdx < len(tracks); trackIdx++ {
			ring, err := plan.Ring(planSide, trackIdx)
			if err != nil {
				return nil, err
			}
			// Rotation direction follows the physical disk side, not the
			// plan slot, so a single-side render of side 1 stays CCW.
			trackPrims, err := compositeTrack(plan, ring, diskSide, tracks[trackIdx], spec)
			if err != nil {
				return nil, err
			}
			prims = append(prims, trackPrims...)
		}
	}
	return prims, nil
}

func compositeTrack(plan *geom.Plan, ring geom.Ring, diskSide int, t disk.Track, spec *style.Spec) ([]Primitive, error) {
	var prims []Primitive

	// Base ring. Structurally present even with a zero-alpha fill.
	ringStart, ringEnd := plan.Angles(diskSide, 0, 1)
	for _, w := range geom.SplitQuadrants(ring, ringStart, ringEnd) {
		prims = append(prims, Primitive{
			Wedge:       w,
			Fill:        spec.TrackStyle.Fill,
			Stroke:      spec.TrackStyle.Stroke,
			StrokeWidth: spec.TrackStyle.StrokeWidth,
			Layer:       LayerTrack,
			Visible:     !spec.TrackStyle.Fill.Transparent(),
		})
	}

	// Elements in ascending angular order regardless of listing order.
	elements := slices.Clone(t.Elements)
	slices.SortStableFunc(elements, func(a, b disk.Element) int {
		return cmp.Compare(a.Start, b.Start)
	})
	for _, e := range elements {
		st, err := spec.ResolveElement(e.Kind)
		if err != nil {
			return nil, err
		}
		// A zero-alpha element can never produce a pixel; skip it.
		if st.Fill.Transparent() && (st.StrokeWidth == 0 || st.Stroke.Transparent()) {
			continue
		}
		a0, a1 := plan.Angles(diskSide, e.Start, e.End)
		for _, w := range geom.SplitQuadrants(ring, a0, a1) {
			prims = append(prims, Primitive{
				Wedge:       w,
				Fill:        st.Fill,
				Stroke:      st.Stroke,
				StrokeWidth: st.StrokeWidth,
				Layer:       LayerElement,
				Visible:     true,
			})
		}
	}

	// Masks last so they dominate the data beneath their span.
	for _, m := range t.Masks {
		c, err := spec.ResolveMask(m.Kind)
		if err != nil {
			return nil, err
		}
		if c.Transparent() {
			continue
		}
		a0, a1 := plan.Angles(diskSide, m.Start, m.End)
		for _, w := range geom.SplitQuadrants(ring, a0, a1) {
			prims = append(prims, Primitive{
				Wedge:   w,
				Fill:    c,
				Layer:   LayerMask,
				Visible: true,
			})
		}
	}

	return prims, nil
}
