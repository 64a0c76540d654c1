package style

import (
	"github.com/sectorviz/sectorviz/pkg/errors"
)

// BlendMode selects the per-channel function used when the fully composited
// element layer is merged onto the canvas background. It applies once, at
// final layer composition, never per primitive — element-to-element overlap
// is always plain alpha-over, so overlap seams look identical no matter
// which global mode is configured.
type BlendMode int

// The closed set of supported blend modes. These are the standard separable
// and non-separable compositing functions; the output sinks implement the
// corresponding formulas over premultiplied-alpha colors.
const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
	BlendDifference
	BlendExclusion
	BlendHue
	BlendSaturation
	BlendColor
	BlendLuminosity

	blendModeCount
)

var blendModeNames = [...]string{
	BlendNormal:     "Normal",
	BlendMultiply:   "Multiply",
	BlendScreen:     "Screen",
	BlendOverlay:    "Overlay",
	BlendDarken:     "Darken",
	BlendLighten:    "Lighten",
	BlendColorDodge: "ColorDodge",
	BlendColorBurn:  "ColorBurn",
	BlendHardLight:  "HardLight",
	BlendSoftLight:  "SoftLight",
	BlendDifference: "Difference",
	BlendExclusion:  "Exclusion",
	BlendHue:        "Hue",
	BlendSaturation: "Saturation",
	BlendColor:      "Color",
	BlendLuminosity: "Luminosity",
}

// String returns the canonical style-file name of the mode.
func (m BlendMode) String() string {
	if m >= 0 && m < blendModeCount {
		return blendModeNames[m]
	}
	return "Invalid"
}

// Valid reports whether m is a member of the closed blend-mode set.
func (m BlendMode) Valid() bool {
	return m >= 0 && m < blendModeCount
}

// BlendModes returns all supported blend modes in declaration order.
func BlendModes() []BlendMode {
	modes := make([]BlendMode, blendModeCount)
	for i := range modes {
		modes[i] = BlendMode(i)
	}
	return modes
}

// ParseBlendMode resolves a style-file blend mode name. Unrecognized names
// fail with INVALID_BLEND_MODE; they never silently default to Normal.
func ParseBlendMode(s string) (BlendMode, error) {
	for m, name := range blendModeNames {
		if name == s {
			return BlendMode(m), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidBlendMode, "unknown blend mode %q", s)
}
