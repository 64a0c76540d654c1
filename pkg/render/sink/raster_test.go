package sink

import (
	"bytes"
	"image/png"
	"testing"

	"honnef.co/go/curve"

	"github.com/sectorviz/sectorviz/pkg/errors"
	"github.com/sectorviz/sectorviz/pkg/render"
	"github.com/sectorviz/sectorviz/pkg/render/geom"
	"github.com/sectorviz/sectorviz/pkg/style"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func testWedges(t *testing.T) []render.Primitive {
	t.Helper()
	ring := geom.Ring{Side: 0, Track: 0, Inner: 30, Outer: 45, Center: 37.5}
	var prims []render.Primitive
	for _, w := range geom.SplitQuadrants(ring, 0.2, 1.4) {
		prims = append(prims, render.Primitive{
			Wedge:   w,
			Fill:    style.Color{R: 106, G: 138, B: 176, A: 255},
			Layer:   render.LayerElement,
			Visible: true,
		})
	}
	if len(prims) == 0 {
		t.Fatal("no wedges produced")
	}
	return prims
}

func renderTo(t *testing.T, s render.Sink, mode style.BlendMode) []byte {
	t.Helper()
	canvas := geom.Size{W: 120, H: 120}
	origin := curve.Pt(60, 60)
	if err := s.Begin(canvas, origin, style.Color{R: 20, G: 20, B: 24, A: 255}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	for _, p := range testWedges(t) {
		if err := s.DrawWedge(p); err != nil {
			t.Fatalf("DrawWedge: %v", err)
		}
	}
	if err := s.BlendLayer(mode); err != nil {
		t.Fatalf("BlendLayer: %v", err)
	}
	out, err := s.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	return out
}

func TestRasterProducesPNG(t *testing.T) {
	out := renderTo(t, NewRaster(), style.BlendNormal)
	if !bytes.HasPrefix(out, pngMagic) {
		t.Fatalf("output does not start with PNG signature: % x", out[:min(8, len(out))])
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != 120 || cfg.Height != 120 {
		t.Errorf("decoded size = %dx%d, want 120x120", cfg.Width, cfg.Height)
	}
}

func TestRasterSupersampleOutputSize(t *testing.T) {
	// Supersampling is internal; the encoded image stays at canvas size.
	for _, factor := range []int{2, 4, 8} {
		out := renderTo(t, NewRaster(WithSupersample(factor)), style.BlendNormal)
		cfg, err := png.DecodeConfig(bytes.NewReader(out))
		if err != nil {
			t.Fatalf("factor %d: DecodeConfig: %v", factor, err)
		}
		if cfg.Width != 120 || cfg.Height != 120 {
			t.Errorf("factor %d: size = %dx%d, want 120x120", factor, cfg.Width, cfg.Height)
		}
	}
}

func TestRasterRejectsBadSupersample(t *testing.T) {
	for _, factor := range []int{0, 3, 16, -1} {
		s := NewRaster(WithSupersample(factor))
		err := s.Begin(geom.Size{W: 10, H: 10}, curve.Pt(5, 5), style.Color{A: 255})
		if !errors.Is(err, errors.ErrCodeBackend) {
			t.Errorf("factor %d: err = %v, want BACKEND_ERROR", factor, err)
		}
	}
}

func TestRasterCallOrder(t *testing.T) {
	s := NewRaster()
	if err := s.DrawWedge(render.Primitive{Visible: true}); !errors.Is(err, errors.ErrCodeBackend) {
		t.Errorf("DrawWedge before Begin: err = %v, want BACKEND_ERROR", err)
	}
	if err := s.BlendLayer(style.BlendNormal); !errors.Is(err, errors.ErrCodeBackend) {
		t.Errorf("BlendLayer before Begin: err = %v, want BACKEND_ERROR", err)
	}
	if _, err := s.Finish(); !errors.Is(err, errors.ErrCodeBackend) {
		t.Errorf("Finish before BlendLayer: err = %v, want BACKEND_ERROR", err)
	}
}

func TestRasterInvisiblePrimitiveDoesNotPaint(t *testing.T) {
	bg := style.Color{R: 1, G: 2, B: 3, A: 255}
	s := NewRaster()
	if err := s.Begin(geom.Size{W: 8, H: 8}, curve.Pt(4, 4), bg); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	prims := testWedges(t)
	prims[0].Visible = false
	if err := s.DrawWedge(prims[0]); err != nil {
		t.Fatalf("DrawWedge: %v", err)
	}
	if err := s.BlendLayer(style.BlendNormal); err != nil {
		t.Fatalf("BlendLayer: %v", err)
	}
	out, err := s.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	// Every pixel must still be the background color.
	r, g, b, _ := img.At(4, 4).RGBA()
	if uint8(r>>8) != bg.R || uint8(g>>8) != bg.G || uint8(b>>8) != bg.B {
		t.Errorf("invisible wedge painted: pixel = %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestRasterRejectsInvalidBlendMode(t *testing.T) {
	s := NewRaster()
	if err := s.Begin(geom.Size{W: 8, H: 8}, curve.Pt(4, 4), style.Color{A: 255}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := s.BlendLayer(style.BlendMode(99)); !errors.Is(err, errors.ErrCodeInvalidBlendMode) {
		t.Errorf("err = %v, want INVALID_BLEND_MODE", err)
	}
}
