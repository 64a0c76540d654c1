package render

import (
	"testing"

	"github.com/sectorviz/sectorviz/pkg/style"
)

func opaque(r, g, b uint8) style.Color {
	return style.Color{R: r, G: g, B: b, A: 255}
}

func TestBlendNormalIsAlphaOver(t *testing.T) {
	// fully opaque source replaces the backdrop
	got := Blend(style.BlendNormal, opaque(10, 20, 30), opaque(200, 200, 200))
	if got != opaque(10, 20, 30) {
		t.Errorf("opaque over = %v, want source", got)
	}

	// half-transparent source mixes linearly
	src := style.Color{R: 255, G: 0, B: 0, A: 128}
	got = Blend(style.BlendNormal, src, opaque(0, 0, 0))
	if got.A != 255 {
		t.Errorf("alpha = %d, want 255 over opaque backdrop", got.A)
	}
	if got.R < 126 || got.R > 130 {
		t.Errorf("red = %d, want ~128", got.R)
	}
	if got.G != 0 || got.B != 0 {
		t.Errorf("green/blue = %d/%d, want 0/0", got.G, got.B)
	}
}

func TestBlendTransparentSourceKeepsBackdrop(t *testing.T) {
	dst := opaque(42, 43, 44)
	got := Blend(style.BlendMultiply, style.Color{}, dst)
	if got != dst {
		t.Errorf("transparent source changed backdrop: %v", got)
	}
}

func TestBlendMultiply(t *testing.T) {
	// multiply by white is identity
	got := Blend(style.BlendMultiply, opaque(255, 255, 255), opaque(100, 150, 200))
	if got != opaque(100, 150, 200) {
		t.Errorf("multiply by white = %v, want backdrop", got)
	}
	// multiply by black is black
	got = Blend(style.BlendMultiply, opaque(0, 0, 0), opaque(100, 150, 200))
	if got != opaque(0, 0, 0) {
		t.Errorf("multiply by black = %v, want black", got)
	}
	// half by half is a quarter
	got = Blend(style.BlendMultiply, opaque(128, 128, 128), opaque(128, 128, 128))
	if got.R < 63 || got.R > 66 {
		t.Errorf("half*half red = %d, want ~64", got.R)
	}
}

func TestBlendScreen(t *testing.T) {
	// screen with black is identity
	got := Blend(style.BlendScreen, opaque(0, 0, 0), opaque(100, 150, 200))
	if got != opaque(100, 150, 200) {
		t.Errorf("screen with black = %v, want backdrop", got)
	}
	// screen with white is white
	got = Blend(style.BlendScreen, opaque(255, 255, 255), opaque(100, 150, 200))
	if got != opaque(255, 255, 255) {
		t.Errorf("screen with white = %v, want white", got)
	}
}

func TestBlendDarkenLighten(t *testing.T) {
	a, b := opaque(100, 200, 50), opaque(150, 100, 50)
	if got := Blend(style.BlendDarken, a, b); got != opaque(100, 100, 50) {
		t.Errorf("darken = %v, want per-channel min", got)
	}
	if got := Blend(style.BlendLighten, a, b); got != opaque(150, 200, 50) {
		t.Errorf("lighten = %v, want per-channel max", got)
	}
}

func TestBlendDifference(t *testing.T) {
	got := Blend(style.BlendDifference, opaque(200, 50, 0), opaque(50, 200, 0))
	if got != opaque(150, 150, 0) {
		t.Errorf("difference = %v, want |a-b|", got)
	}
}

func TestBlendLuminosityPreservesBackdropChroma(t *testing.T) {
	// gray source over saturated backdrop: hue/sat from backdrop, light from source
	got := Blend(style.BlendLuminosity, opaque(128, 128, 128), opaque(255, 0, 0))
	if got.G == got.R {
		t.Errorf("luminosity lost backdrop chroma: %v", got)
	}
}

func TestBlendAllModesProduceValidOutput(t *testing.T) {
	src := style.Color{R: 180, G: 90, B: 45, A: 200}
	dst := opaque(60, 120, 240)
	for _, mode := range style.BlendModes() {
		got := Blend(mode, src, dst)
		// over an opaque backdrop the result stays opaque for every mode
		if got.A != 255 {
			t.Errorf("%v: alpha = %d, want 255", mode, got.A)
		}
	}
}

func TestBlendExtremesDodgeBurn(t *testing.T) {
	// dodge of black backdrop stays black
	if got := Blend(style.BlendColorDodge, opaque(128, 128, 128), opaque(0, 0, 0)); got != opaque(0, 0, 0) {
		t.Errorf("dodge over black = %v, want black", got)
	}
	// burn of white backdrop stays white
	if got := Blend(style.BlendColorBurn, opaque(128, 128, 128), opaque(255, 255, 255)); got != opaque(255, 255, 255) {
		t.Errorf("burn over white = %v, want white", got)
	}
}
