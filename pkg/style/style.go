// Package style holds the resolved visual configuration for a render: the
// margins and spacing of the radial layout, the global blend mode, and the
// per-element fill/stroke styling with inheritance from a default style.
//
// A Spec is constructed once (from a TOML style file via [Load], or from
// [Default]) and is immutable for the duration of a render. Colors are fully
// validated at load time; nothing in the rendering pipeline ever sees an
// unresolved or out-of-range color.
package style

import (
	"github.com/sectorviz/sectorviz/pkg/disk"
	"github.com/sectorviz/sectorviz/pkg/errors"
)

// ElementStyle is a fully resolved element appearance.
type ElementStyle struct {
	Fill        Color
	Stroke      Color
	StrokeWidth float64
}

// ElementOverride is a partial element style. Nil fields inherit from the
// spec's default style, field by field, when resolved.
type ElementOverride struct {
	Fill        *Color
	Stroke      *Color
	StrokeWidth *float64
}

// Margins are canvas edge insets in output units.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// Spec is the top-level resolved style configuration.
type Spec struct {
	// Margins inset the drawing area from the canvas edges.
	Margins Margins
	// SideSpacing is the radial gap inserted between the two nested ring
	// stacks when both sides render. Ignored for single-side renders.
	SideSpacing float64
	// TrackGap is the fraction of each track band left empty, in [0, 1).
	// The gap splits evenly between the inner and outer edges of the band,
	// which keeps band centers fixed as the gap changes.
	TrackGap float64
	// Blend is the global layer blend mode.
	Blend BlendMode
	// Background is the canvas color the finished layer blends onto.
	Background Color
	// DefaultStyle is the base appearance every element inherits from.
	DefaultStyle ElementStyle
	// TrackStyle draws the base ring under each track's elements. A
	// zero-alpha fill still emits a structural ring primitive, used for
	// metadata-only renders.
	TrackStyle ElementStyle
	// MaskColors maps each mask kind to its overlay color.
	MaskColors map[disk.MaskKind]Color
	// Overrides maps element kinds to partial style overrides.
	Overrides map[disk.ElementKind]ElementOverride
}

// Default returns the stock style: opaque steel-blue data elements over a
// dark track ring, red error masks, translucent green weak masks, Normal
// blending. Element fills are fully opaque on purpose; see [Color.Opaque].
func Default() *Spec {
	return &Spec{
		Margins:     Margins{Top: 10, Right: 10, Bottom: 10, Left: 10},
		SideSpacing: 16,
		TrackGap:    0.1,
		Blend:       BlendNormal,
		Background:  FromHex(0x101014FF),
		DefaultStyle: ElementStyle{
			Fill:        FromHex(0x6A8AB0FF),
			Stroke:      FromHex(0x000000FF),
			StrokeWidth: 0,
		},
		TrackStyle: ElementStyle{
			Fill: FromHex(0x202020FF),
		},
		MaskColors: map[disk.MaskKind]Color{
			disk.MaskWeak:  FromHex(0x40FF40A0),
			disk.MaskError: FromHex(0xFF4040A0),
		},
		Overrides: map[disk.ElementKind]ElementOverride{
			disk.ElementMarker:               {Fill: colorPtr(FromHex(0xE0E0E0FF))},
			disk.ElementSectorHeader:         {Fill: colorPtr(FromHex(0x88C080FF))},
			disk.ElementSectorBadHeader:      {Fill: colorPtr(FromHex(0xC08080FF))},
			disk.ElementSectorBadData:        {Fill: colorPtr(FromHex(0xB05050FF))},
			disk.ElementSectorDeletedData:    {Fill: colorPtr(FromHex(0x8060A0FF))},
			disk.ElementSectorBadDeletedData: {Fill: colorPtr(FromHex(0x905070FF))},
		},
	}
}

func colorPtr(c Color) *Color { return &c }

// ResolveElement merges the default style with any override registered for
// kind. Fill, stroke, and stroke width inherit independently.
func (s *Spec) ResolveElement(kind disk.ElementKind) (ElementStyle, error) {
	if !kind.Valid() {
		return ElementStyle{}, errors.New(errors.ErrCodeUnknownElement,
			"no style resolution for element kind %v", kind)
	}
	resolved := s.DefaultStyle
	ov, ok := s.Overrides[kind]
	if !ok {
		return resolved, nil
	}
	if ov.Fill != nil {
		resolved.Fill = *ov.Fill
	}
	if ov.Stroke != nil {
		resolved.Stroke = *ov.Stroke
	}
	if ov.StrokeWidth != nil {
		resolved.StrokeWidth = *ov.StrokeWidth
	}
	return resolved, nil
}

// ResolveMask looks up the overlay color for a mask kind. The mask set is
// closed, so a miss indicates a style/core version skew; the failure path
// exists for that case rather than for normal operation.
func (s *Spec) ResolveMask(kind disk.MaskKind) (Color, error) {
	c, ok := s.MaskColors[kind]
	if !ok {
		return Color{}, errors.New(errors.ErrCodeUnknownMask,
			"no mask color configured for %v", kind)
	}
	return c, nil
}

// Validate checks the spec's numeric invariants.
func (s *Spec) Validate() error {
	m := s.Margins
	if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
		return errors.New(errors.ErrCodeInvalidStyle, "margins must be non-negative")
	}
	if s.SideSpacing < 0 {
		return errors.New(errors.ErrCodeInvalidStyle, "side_spacing must be non-negative, got %g", s.SideSpacing)
	}
	if s.TrackGap < 0 || s.TrackGap >= 1 {
		return errors.New(errors.ErrCodeInvalidStyle, "track_gap must be in [0, 1), got %g", s.TrackGap)
	}
	if !s.Blend.Valid() {
		return errors.New(errors.ErrCodeInvalidBlendMode, "invalid blend mode %d", int(s.Blend))
	}
	for _, k := range disk.MaskKinds() {
		if _, ok := s.MaskColors[k]; !ok {
			return errors.New(errors.ErrCodeUnknownMask, "missing mask color for %v", k)
		}
	}
	for k := range s.Overrides {
		if !k.Valid() {
			return errors.New(errors.ErrCodeUnknownElement, "override for unknown element kind %v", k)
		}
	}
	return nil
}
