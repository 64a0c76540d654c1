package sink

import (
	"bytes"
	"fmt"

	"honnef.co/go/curve"

	"github.com/sectorviz/sectorviz/pkg/errors"
	"github.com/sectorviz/sectorviz/pkg/render"
	"github.com/sectorviz/sectorviz/pkg/render/geom"
	"github.com/sectorviz/sectorviz/pkg/style"
)

// pathPrecision bounds coordinate precision in emitted path data. Three
// decimals is well under a thousandth of a unit at any sane view-box size.
const pathPrecision = 3

// SVGOption configures a vector sink.
type SVGOption func(*SVG)

// WithDocumentTitle adds a <title> element to the document.
func WithDocumentTitle(title string) SVGOption {
	return func(s *SVG) { s.title = title }
}

// SVG serializes the primitive stream as an SVG document. The intermediate
// layer becomes a group; the global blend mode becomes the group's
// mix-blend-mode, evaluated by the viewer against the background rect inside
// the same isolated stacking context. That keeps the raster and vector
// outputs visually equivalent: per-wedge compositing stays plain alpha-over
// in both.
type SVG struct {
	title string

	canvas     geom.Size
	origin     curve.Point
	background style.Color
	wedges     bytes.Buffer
	mode       style.BlendMode
	blended    bool
}

// NewSVG creates a vector sink.
func NewSVG(opts ...SVGOption) *SVG {
	s := &SVG{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ render.Sink = (*SVG)(nil)

// Begin implements render.Sink.
func (s *SVG) Begin(canvas geom.Size, origin curve.Point, background style.Color) error {
	if canvas.W <= 0 || canvas.H <= 0 {
		return errors.New(errors.ErrCodeBackend, "view box %gx%g is empty", canvas.W, canvas.H)
	}
	s.canvas = canvas
	s.origin = origin
	s.background = background
	s.wedges.Reset()
	s.blended = false
	return nil
}

// DrawWedge implements render.Sink.
func (s *SVG) DrawWedge(p render.Primitive) error {
	if !p.Visible {
		return nil
	}

	d := curve.SVG(p.Wedge.Outline(s.origin).Elements(), curve.SVGOptions{MaxPrecision: pathPrecision})

	fmt.Fprintf(&s.wedges, `    <path d="%s"`, d)
	if p.Fill.Transparent() {
		s.wedges.WriteString(` fill="none"`)
	} else {
		fmt.Fprintf(&s.wedges, ` fill="%s"`, hexRGB(p.Fill))
		if !p.Fill.Opaque() {
			fmt.Fprintf(&s.wedges, ` fill-opacity="%s"`, opacity(p.Fill))
		}
	}
	if p.StrokeWidth > 0 && !p.Stroke.Transparent() {
		fmt.Fprintf(&s.wedges, ` stroke="%s" stroke-width="%g"`, hexRGB(p.Stroke), p.StrokeWidth)
		if !p.Stroke.Opaque() {
			fmt.Fprintf(&s.wedges, ` stroke-opacity="%s"`, opacity(p.Stroke))
		}
	}
	s.wedges.WriteString("/>\n")
	return nil
}

// BlendLayer implements render.Sink.
func (s *SVG) BlendLayer(mode style.BlendMode) error {
	if !mode.Valid() {
		return errors.New(errors.ErrCodeInvalidBlendMode, "invalid blend mode %d", int(mode))
	}
	s.mode = mode
	s.blended = true
	return nil
}

// Finish implements render.Sink: assemble the document.
func (s *SVG) Finish() ([]byte, error) {
	if !s.blended {
		return nil, errors.New(errors.ErrCodeBackend, "Finish before BlendLayer")
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %g %g" width="%g" height="%g">`+"\n",
		s.canvas.W, s.canvas.H, s.canvas.W, s.canvas.H)
	if s.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", s.title)
	}

	buf.WriteString("  <g style=\"isolation:isolate\">\n")
	fmt.Fprintf(&buf, `    <rect width="%g" height="%g" fill="%s"`, s.canvas.W, s.canvas.H, hexRGB(s.background))
	if !s.background.Opaque() {
		fmt.Fprintf(&buf, ` fill-opacity="%s"`, opacity(s.background))
	}
	buf.WriteString("/>\n")

	fmt.Fprintf(&buf, "    <g style=\"mix-blend-mode:%s\">\n", cssBlendName(s.mode))
	buf.Write(s.wedges.Bytes())
	buf.WriteString("    </g>\n  </g>\n</svg>\n")
	return buf.Bytes(), nil
}

func hexRGB(c style.Color) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func opacity(c style.Color) string {
	return fmt.Sprintf("%.3g", float64(c.A)/255)
}

// cssBlendName maps the closed blend-mode set to CSS mix-blend-mode values.
func cssBlendName(m style.BlendMode) string {
	switch m {
	case style.BlendNormal:
		return "normal"
	case style.BlendMultiply:
		return "multiply"
	case style.BlendScreen:
		return "screen"
	case style.BlendOverlay:
		return "overlay"
	case style.BlendDarken:
		return "darken"
	case style.BlendLighten:
		return "lighten"
	case style.BlendColorDodge:
		return "color-dodge"
	case style.BlendColorBurn:
		return "color-burn"
	case style.BlendHardLight:
		return "hard-light"
	case style.BlendSoftLight:
		return "soft-light"
	case style.BlendDifference:
		return "difference"
	case style.BlendExclusion:
		return "exclusion"
	case style.BlendHue:
		return "hue"
	case style.BlendSaturation:
		return "saturation"
	case style.BlendColor:
		return "color"
	case style.BlendLuminosity:
		return "luminosity"
	}
	return "normal"
}
