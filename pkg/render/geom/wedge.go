package geom

import (
	"math"

	"honnef.co/go/curve"
)

// quadrantOverlap is the angular bleed, in radians, added where a wedge
// meets a quadrant boundary or the 0/2π wrap. Adjacent quadrant wedges
// overlap by twice this amount, which hides floating-point seam artifacts at
// shared edges. The cost is double-blending within the overlap for fills
// with partial alpha, which is why full-opacity element fills are
// recommended. Roughly 0.57 degrees; large enough to cover rasterizer
// rounding at any sane canvas size, small enough to be invisible at full
// opacity.
const quadrantOverlap = 0.01

// arcTolerance bounds the deviation of the cubic Bézier approximation from
// the true circular arc, in output units.
const arcTolerance = 0.05

// Wedge is one quadrant-local annular sector: the atomic drawable primitive.
// Angles are screen-space radians with Start < End.
type Wedge struct {
	Ring     Ring
	Quadrant int // 0-3, counted from the +x axis
	Start    float64
	End      float64
}

// SplitQuadrants cuts the span [start, end] (radians, start < end) at every
// quadrant boundary and returns one Wedge per segment, each extended by the
// overlap bleed at internal cuts. The span's own endpoints are extended only
// when the span closes a full circle, where the start/end junction is itself
// a seam.
func SplitQuadrants(ring Ring, start, end float64) []Wedge {
	if end <= start {
		return nil
	}
	fullCircle := end-start >= 2*math.Pi-1e-9

	const quadrant = math.Pi / 2
	var wedges []Wedge
	segStart := start
	for segStart < end {
		boundary := math.Floor(segStart/quadrant+1) * quadrant
		segEnd := math.Min(boundary, end)

		w := Wedge{
			Ring:     ring,
			Quadrant: quadrantIndex(segStart),
			Start:    segStart,
			End:      segEnd,
		}
		// Bleed across internal cuts and, for closed rings, across the
		// start/end junction too.
		if w.Start > start || fullCircle {
			w.Start -= quadrantOverlap
		}
		if w.End < end || fullCircle {
			w.End += quadrantOverlap
		}
		wedges = append(wedges, w)

		segStart = segEnd
	}
	return wedges
}

func quadrantIndex(angle float64) int {
	q := int(math.Floor(angle/(math.Pi/2))) % 4
	if q < 0 {
		q += 4
	}
	return q
}

// Outline builds the closed outline of a wedge around origin: the outer arc
// swept forward, a radial edge inward, the inner arc swept back, and a
// closing radial edge. The arcs are cubic Bézier approximations usable by
// both the rasterizer and the SVG writer.
func (w Wedge) Outline(origin curve.Point) curve.BezPath {
	sweep := w.End - w.Start

	var path curve.BezPath
	outer := curve.Arc{
		Center:     origin,
		Radii:      curve.Vec2{X: w.Ring.Outer, Y: w.Ring.Outer},
		StartAngle: w.Start,
		SweepAngle: sweep,
	}
	for el := range outer.PathElements(arcTolerance) {
		path.Push(el)
	}

	inner := curve.Arc{
		Center:     origin,
		Radii:      curve.Vec2{X: w.Ring.Inner, Y: w.Ring.Inner},
		StartAngle: w.End,
		SweepAngle: -sweep,
	}
	first := true
	for el := range inner.PathElements(arcTolerance) {
		if first {
			// The inner arc starts with a MoveTo; turn it into the radial
			// edge connecting the two arcs.
			path.LineTo(el.P0)
			first = false
			continue
		}
		path.Push(el)
	}
	path.ClosePath()
	return path
}
