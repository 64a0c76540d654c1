// Package geom computes the radial coordinate system for a disk render: ring
// radii per track, angular spans per element, quadrant splits, and the
// margin-adjusted drawing area.
//
// Layout is a pure function of its parameters. Identical inputs produce
// bit-identical plans, which is what makes golden-image tests and diffable
// output possible.
package geom

import (
	"math"

	"honnef.co/go/curve"

	"github.com/sectorviz/sectorviz/pkg/errors"
	"github.com/sectorviz/sectorviz/pkg/style"
)

// DefaultMinRadiusRatio reserves the hub hole: the innermost fraction of the
// available radius that no track band may enter.
const DefaultMinRadiusRatio = 0.3

// Size is a canvas size in output units (pixels for raster, view-box units
// for vector output).
type Size struct {
	W, H float64
}

// Params are the inputs to Layout.
type Params struct {
	TrackCount int
	SideCount  int
	Margins    style.Margins
	// SideSpacing is the radial gap between the side-0 and side-1 ring
	// stacks. Only used when SideCount is 2.
	SideSpacing float64
	// TrackGap is the fraction of each raw band left empty, split evenly
	// between the band's inner and outer edges. In [0, 1).
	TrackGap float64
	// MinRadiusRatio is the hub fraction of the available radius. Zero
	// selects DefaultMinRadiusRatio.
	MinRadiusRatio float64
	// IndexAngle rotates the index position, in radians. Zero places the
	// index at the +x axis.
	IndexAngle float64
	Canvas     Size
}

// Ring is the drawn annular band of one track on one side.
type Ring struct {
	Side  int
	Track int
	// Inner and Outer are the drawn radii after the track gap is applied.
	Inner float64
	Outer float64
	// Center is the midline radius of the raw band. It does not move as
	// TrackGap changes.
	Center float64
}

// Plan is the computed radial coordinate system for one render.
type Plan struct {
	Canvas Size
	// Origin is the center of the margin-adjusted drawing area.
	Origin curve.Point
	// Radius is the available drawing radius after margins.
	Radius float64
	// MinRadius is the hub radius; no band reaches inside it.
	MinRadius float64

	indexAngle float64
	sideCount  int
	rings      [][]Ring // [side][track]
}

// Layout computes the radial coordinate system. It fails with
// INSUFFICIENT_RADIUS when margins and side spacing consume more than the
// available canvas, leaving non-positive band width.
func Layout(p Params) (*Plan, error) {
	if p.TrackCount <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "track count must be positive, got %d", p.TrackCount)
	}
	if p.SideCount != 1 && p.SideCount != 2 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "side count must be 1 or 2, got %d", p.SideCount)
	}
	if p.TrackGap < 0 || p.TrackGap >= 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "track gap must be in [0, 1), got %g", p.TrackGap)
	}

	m := p.Margins
	boxW := p.Canvas.W - m.Left - m.Right
	boxH := p.Canvas.H - m.Top - m.Bottom
	if boxW <= 0 || boxH <= 0 {
		return nil, errors.New(errors.ErrCodeInsufficientRadius,
			"margins consume the %gx%g canvas", p.Canvas.W, p.Canvas.H)
	}

	radius := math.Min(boxW, boxH) / 2
	ratio := p.MinRadiusRatio
	if ratio == 0 {
		ratio = DefaultMinRadiusRatio
	}
	if ratio < 0 || ratio >= 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "min radius ratio must be in [0, 1), got %g", ratio)
	}
	minRadius := radius * ratio

	annulus := radius - minRadius
	if p.SideCount == 2 {
		annulus -= p.SideSpacing
	}
	stack := annulus / float64(p.SideCount)
	rawBand := stack / float64(p.TrackCount)
	if rawBand <= 0 {
		return nil, errors.New(errors.ErrCodeInsufficientRadius,
			"side spacing %g leaves no room for %d tracks in radius %g", p.SideSpacing, p.TrackCount, radius)
	}

	plan := &Plan{
		Canvas: p.Canvas,
		Origin: curve.Point{
			X: m.Left + boxW/2,
			Y: m.Top + boxH/2,
		},
		Radius:     radius,
		MinRadius:  minRadius,
		indexAngle: p.IndexAngle,
		sideCount:  p.SideCount,
		rings:      make([][]Ring, p.SideCount),
	}

	// Track 0 sits at the outer edge, matching the physical medium. Side 0
	// is the outer stack; side 1 nests inside it after the side spacing.
	inset := p.TrackGap * rawBand / 2
	for side := 0; side < p.SideCount; side++ {
		stackOuter := radius - float64(side)*(stack+p.SideSpacing)
		rings := make([]Ring, p.TrackCount)
		for track := 0; track < p.TrackCount; track++ {
			rawOuter := stackOuter - float64(track)*rawBand
			rawInner := rawOuter - rawBand
			rings[track] = Ring{
				Side:   side,
				Track:  track,
				Inner:  rawInner + inset,
				Outer:  rawOuter - inset,
				Center: (rawInner + rawOuter) / 2,
			}
		}
		plan.rings[side] = rings
	}

	return plan, nil
}

// SideCount returns the number of ring stacks in the plan.
func (p *Plan) SideCount() int {
	return p.sideCount
}

// TrackCount returns the number of rings per side.
func (p *Plan) TrackCount() int {
	return len(p.rings[0])
}

// Ring returns the band for one track on one side.
func (p *Plan) Ring(side, track int) (Ring, error) {
	if side < 0 || side >= len(p.rings) {
		return Ring{}, errors.New(errors.ErrCodeInvalidInput, "side %d outside plan", side)
	}
	if track < 0 || track >= len(p.rings[side]) {
		return Ring{}, errors.New(errors.ErrCodeInvalidInput, "track %d outside plan", track)
	}
	return p.rings[side][track], nil
}

// Angles converts an angular span in revolutions (as reported by the disk
// listing) into screen-space radians. side is the physical disk side, which
// fixes the rotation direction regardless of where the side sits in the
// plan: side 0 rotates clockwise, side 1 counter-clockwise, following the
// reading direction of the two heads. The returned pair always satisfies
// start < end.
func (p *Plan) Angles(side int, startRev, endRev float64) (float64, float64) {
	dir := 1.0
	if side == 1 {
		dir = -1.0
	}
	a0 := p.indexAngle + dir*startRev*2*math.Pi
	a1 := p.indexAngle + dir*endRev*2*math.Pi
	if a0 > a1 {
		a0, a1 = a1, a0
	}
	return a0, a1
}
