package style

import (
	"strings"
	"testing"

	"github.com/sectorviz/sectorviz/pkg/disk"
	"github.com/sectorviz/sectorviz/pkg/errors"
)

const sampleStyle = `
margins = [12, 12, 12, 12]
side_spacing = 48.0
track_gap = 0.25
blend_mode = "Multiply"

[default_style]
fill = [100, 110, 120, 255]
stroke = 0x000000FF
stroke_width = 0.5

[track_style]
fill = [0, 0, 0, 0]

[masks]
weak = 0x00FF00A0
error = [255, 0, 0, 160]

[element_styles.sector_data]
fill = 0x4080FFFF

[element_styles.sector_bad_data]
fill = [176, 80, 80, 255]
stroke_width = 1.5
`

func TestLoad(t *testing.T) {
	spec, err := Load(strings.NewReader(sampleStyle))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got, want := spec.Margins, (Margins{Top: 12, Right: 12, Bottom: 12, Left: 12}); got != want {
		t.Errorf("margins = %+v, want %+v", got, want)
	}
	if got, want := spec.SideSpacing, 48.0; got != want {
		t.Errorf("side_spacing = %g, want %g", got, want)
	}
	if got, want := spec.TrackGap, 0.25; got != want {
		t.Errorf("track_gap = %g, want %g", got, want)
	}
	if got, want := spec.Blend, BlendMultiply; got != want {
		t.Errorf("blend = %v, want %v", got, want)
	}
	if got, want := spec.DefaultStyle.Fill, (Color{R: 100, G: 110, B: 120, A: 255}); got != want {
		t.Errorf("default fill = %v, want %v", got, want)
	}
	if got, want := spec.DefaultStyle.StrokeWidth, 0.5; got != want {
		t.Errorf("default stroke_width = %g, want %g", got, want)
	}
	if !spec.TrackStyle.Fill.Transparent() {
		t.Errorf("track fill should be transparent, got %v", spec.TrackStyle.Fill)
	}
	if got, want := spec.MaskColors[disk.MaskWeak], FromHex(0x00FF00A0); got != want {
		t.Errorf("weak mask = %v, want %v", got, want)
	}
	if got, want := spec.MaskColors[disk.MaskError], (Color{R: 255, A: 160}); got != want {
		t.Errorf("error mask = %v, want %v", got, want)
	}

	// element_styles table replaces the stock overrides entirely
	if got, want := len(spec.Overrides), 2; got != want {
		t.Fatalf("override count = %d, want %d", got, want)
	}
	ov := spec.Overrides[disk.ElementSectorBadData]
	if ov.Fill == nil || *ov.Fill != (Color{R: 176, G: 80, B: 80, A: 255}) {
		t.Errorf("sector_bad_data fill override = %v", ov.Fill)
	}
	if ov.Stroke != nil {
		t.Error("sector_bad_data stroke should remain inherited")
	}
	if ov.StrokeWidth == nil || *ov.StrokeWidth != 1.5 {
		t.Errorf("sector_bad_data stroke_width override = %v", ov.StrokeWidth)
	}
}

func TestLoadEmptyFileYieldsDefaults(t *testing.T) {
	spec, err := Load(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if spec.TrackGap != def.TrackGap || spec.Blend != def.Blend {
		t.Errorf("empty file should yield defaults, got %+v", spec)
	}
}

func TestLoadRejectsBadBlendMode(t *testing.T) {
	_, err := Load(strings.NewReader(`blend_mode = "Dissolve"`))
	if !errors.Is(err, errors.ErrCodeInvalidBlendMode) {
		t.Errorf("error = %v, want INVALID_BLEND_MODE", err)
	}
}

func TestLoadRejectsBadColor(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"channel out of range", "[default_style]\nfill = [300, 0, 0, 255]"},
		{"wrong arity", "[default_style]\nfill = [1, 2, 3]"},
		{"oversized hex", "[default_style]\nfill = 0x1FFFFFFFF"},
		{"mask color", "[masks]\nweak = [0, 256, 0, 255]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.in))
			if !errors.Is(err, errors.ErrCodeInvalidColor) {
				t.Errorf("error = %v, want INVALID_COLOR", err)
			}
		})
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(strings.NewReader(`margin = [1, 2, 3, 4]`))
	if !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("error = %v, want INVALID_STYLE", err)
	}
}

func TestLoadRejectsUnknownElementKind(t *testing.T) {
	_, err := Load(strings.NewReader("[element_styles.sector_extra]\nfill = [1,2,3,4]"))
	if !errors.Is(err, errors.ErrCodeUnknownElement) {
		t.Errorf("error = %v, want UNKNOWN_ELEMENT", err)
	}
}

func TestLoadRejectsUnknownMaskKind(t *testing.T) {
	_, err := Load(strings.NewReader("[masks]\nfuzzy = [1,2,3,4]"))
	if !errors.Is(err, errors.ErrCodeUnknownMask) {
		t.Errorf("error = %v, want UNKNOWN_MASK", err)
	}
}

func TestLoadRejectsBadTrackGap(t *testing.T) {
	_, err := Load(strings.NewReader(`track_gap = 1.0`))
	if !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("error = %v, want INVALID_STYLE", err)
	}
}

func TestLoadRejectsNegativeStrokeWidth(t *testing.T) {
	_, err := Load(strings.NewReader("[default_style]\nstroke_width = -1.0"))
	if !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("error = %v, want INVALID_STYLE", err)
	}
}
