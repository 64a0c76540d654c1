// Package sink provides the output backends for the renderer: a raster sink
// that rasterizes the primitive stream to PNG and a vector sink that
// serializes it to SVG. Both consume the same stream and agree on geometry;
// the only differences are rasterization artifacts versus
// resolution-independence.
package sink

import (
	"bytes"
	"image"
	"image/color"

	"github.com/gogpu/gg"
	"honnef.co/go/curve"

	"github.com/sectorviz/sectorviz/pkg/errors"
	"github.com/sectorviz/sectorviz/pkg/render"
	"github.com/sectorviz/sectorviz/pkg/render/geom"
	"github.com/sectorviz/sectorviz/pkg/style"
)

// RasterOption configures a raster sink.
type RasterOption func(*Raster)

// WithSupersample renders at factor times the requested size and downsamples
// at the end. Valid factors are 1, 2, 4, and 8.
func WithSupersample(factor int) RasterOption {
	return func(r *Raster) { r.supersample = factor }
}

// Raster rasterizes the primitive stream into pixels and encodes PNG.
// The intermediate layer is a transparent canvas that all primitives
// alpha-over into; the global blend mode applies only when the finished
// layer meets the background.
type Raster struct {
	supersample int

	canvas     geom.Size
	origin     curve.Point
	background style.Color
	layer      *gg.Context
	blended    image.Image
}

// NewRaster creates a raster sink.
func NewRaster(opts ...RasterOption) *Raster {
	r := &Raster{supersample: 1}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ render.Sink = (*Raster)(nil)

// Begin implements render.Sink.
func (r *Raster) Begin(canvas geom.Size, origin curve.Point, background style.Color) error {
	if canvas.W < 1 || canvas.H < 1 {
		return errors.New(errors.ErrCodeBackend, "canvas %gx%g too small to rasterize", canvas.W, canvas.H)
	}
	switch r.supersample {
	case 1, 2, 4, 8:
	default:
		return errors.New(errors.ErrCodeBackend, "invalid supersample factor %d (want 1, 2, 4, or 8)", r.supersample)
	}

	r.canvas = canvas
	r.origin = origin
	r.background = background
	r.blended = nil

	s := float64(r.supersample)
	r.layer = gg.NewContext(int(canvas.W*s), int(canvas.H*s))
	r.layer.Scale(s, s)
	return nil
}

// DrawWedge implements render.Sink.
func (r *Raster) DrawWedge(p render.Primitive) error {
	if r.layer == nil {
		return errors.New(errors.ErrCodeBackend, "DrawWedge before Begin")
	}
	if !p.Visible {
		return nil
	}

	outline := p.Wedge.Outline(r.origin)

	if !p.Fill.Transparent() {
		tracePath(r.layer, outline)
		setColor(r.layer, p.Fill)
		if err := r.layer.Fill(); err != nil {
			return errors.Wrap(errors.ErrCodeBackend, err, "filling wedge")
		}
	}
	if p.StrokeWidth > 0 && !p.Stroke.Transparent() {
		tracePath(r.layer, outline)
		setColor(r.layer, p.Stroke)
		r.layer.SetLineWidth(p.StrokeWidth)
		if err := r.layer.Stroke(); err != nil {
			return errors.Wrap(errors.ErrCodeBackend, err, "stroking wedge")
		}
	}
	return nil
}

// BlendLayer implements render.Sink. The layer is merged per pixel onto the
// solid background using the configured blend function.
func (r *Raster) BlendLayer(mode style.BlendMode) error {
	if r.layer == nil {
		return errors.New(errors.ErrCodeBackend, "BlendLayer before Begin")
	}
	if !mode.Valid() {
		return errors.New(errors.ErrCodeInvalidBlendMode, "invalid blend mode %d", int(mode))
	}

	src := r.layer.Image()
	bounds := src.Bounds()
	out := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			res := render.Blend(mode,
				style.Color{R: c.R, G: c.G, B: c.B, A: c.A},
				r.background)
			out.SetNRGBA(x, y, color.NRGBA{R: res.R, G: res.G, B: res.B, A: res.A})
		}
	}
	r.blended = out
	return nil
}

// Finish implements render.Sink: downsample if supersampling, encode PNG.
func (r *Raster) Finish() ([]byte, error) {
	if r.blended == nil {
		return nil, errors.New(errors.ErrCodeBackend, "Finish before BlendLayer")
	}

	final := gg.NewContext(int(r.canvas.W), int(r.canvas.H))
	final.DrawImageEx(gg.ImageBufFromImage(r.blended), gg.DrawImageOptions{
		DstWidth:      r.canvas.W,
		DstHeight:     r.canvas.H,
		Interpolation: gg.InterpBicubic,
		Opacity:       1.0,
		BlendMode:     gg.BlendNormal,
	})

	var buf bytes.Buffer
	if err := final.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackend, err, "encoding PNG")
	}
	return buf.Bytes(), nil
}

func setColor(ctx *gg.Context, c style.Color) {
	ctx.SetRGBA(
		float64(c.R)/255,
		float64(c.G)/255,
		float64(c.B)/255,
		float64(c.A)/255,
	)
}

// tracePath replays a Bézier outline onto the drawing context.
func tracePath(ctx *gg.Context, path curve.BezPath) {
	ctx.ClearPath()
	for _, el := range path {
		switch el.Kind {
		case curve.MoveToKind:
			ctx.MoveTo(el.P0.X, el.P0.Y)
		case curve.LineToKind:
			ctx.LineTo(el.P0.X, el.P0.Y)
		case curve.QuadToKind:
			ctx.QuadraticTo(el.P0.X, el.P0.Y, el.P1.X, el.P1.Y)
		case curve.CubicToKind:
			ctx.CubicTo(el.P0.X, el.P0.Y, el.P1.X, el.P1.Y, el.P2.X, el.P2.Y)
		case curve.ClosePathKind:
			ctx.ClosePath()
		}
	}
}
