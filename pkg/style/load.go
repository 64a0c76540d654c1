package style

import (
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/sectorviz/sectorviz/pkg/disk"
	"github.com/sectorviz/sectorviz/pkg/errors"
)

// rawSpec mirrors the TOML style-file schema. Color values decode as `any`
// so both accepted encodings survive: a 4-element integer array or a packed
// 0xRRGGBBAA integer.
type rawSpec struct {
	Margins       []float64                  `toml:"margins"`
	SideSpacing   *float64                   `toml:"side_spacing"`
	TrackGap      *float64                   `toml:"track_gap"`
	BlendMode     *string                    `toml:"blend_mode"`
	Background    any                        `toml:"background"`
	DefaultStyle  *rawElementStyle           `toml:"default_style"`
	TrackStyle    *rawElementStyle           `toml:"track_style"`
	Masks         map[string]any             `toml:"masks"`
	ElementStyles map[string]rawElementStyle `toml:"element_styles"`
}

type rawElementStyle struct {
	Fill        any      `toml:"fill"`
	Stroke      any      `toml:"stroke"`
	StrokeWidth *float64 `toml:"stroke_width"`
}

// Load reads a TOML style file and resolves it over the stock defaults.
// Every key is optional; present keys override [Default] field by field,
// except element_styles, which replaces the stock override table as a whole
// when present (a file that styles elements defines all its element styling).
// Unknown keys, malformed colors, and unrecognized blend-mode names all fail
// resolution; nothing is clamped or silently defaulted.
func Load(r io.Reader) (*Spec, error) {
	var raw rawSpec
	md, err := toml.NewDecoder(r).Decode(&raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidStyle, err, "decoding style file")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidStyle,
			"unrecognized style keys: %s", strings.Join(keys, ", "))
	}
	return resolveSpec(&raw)
}

// LoadFile is a convenience wrapper over [Load] for filesystem paths.
func LoadFile(path string) (*Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "style file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "opening style file %s", path)
	}
	defer f.Close()
	return Load(f)
}

func resolveSpec(raw *rawSpec) (*Spec, error) {
	spec := Default()
	colors := make(colorCache)

	if raw.Margins != nil {
		if len(raw.Margins) != 4 {
			return nil, errors.New(errors.ErrCodeInvalidStyle,
				"margins must have 4 values (top, right, bottom, left), got %d", len(raw.Margins))
		}
		spec.Margins = Margins{
			Top:    raw.Margins[0],
			Right:  raw.Margins[1],
			Bottom: raw.Margins[2],
			Left:   raw.Margins[3],
		}
	}
	if raw.SideSpacing != nil {
		spec.SideSpacing = *raw.SideSpacing
	}
	if raw.TrackGap != nil {
		spec.TrackGap = *raw.TrackGap
	}
	if raw.BlendMode != nil {
		mode, err := ParseBlendMode(*raw.BlendMode)
		if err != nil {
			return nil, err
		}
		spec.Blend = mode
	}
	if raw.Background != nil {
		c, err := colors.resolve(raw.Background)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "background")
		}
		spec.Background = c
	}

	if raw.DefaultStyle != nil {
		if err := applyElementStyle(&spec.DefaultStyle, raw.DefaultStyle, colors); err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "default_style")
		}
	}
	if raw.TrackStyle != nil {
		if err := applyElementStyle(&spec.TrackStyle, raw.TrackStyle, colors); err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "track_style")
		}
	}

	for name, rawColor := range raw.Masks {
		kind, ok := disk.ParseMaskKind(name)
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownMask, "masks: unknown mask kind %q", name)
		}
		c, err := colors.resolve(rawColor)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "masks.%s", name)
		}
		spec.MaskColors[kind] = c
	}

	if raw.ElementStyles != nil {
		spec.Overrides = make(map[disk.ElementKind]ElementOverride, len(raw.ElementStyles))
		for name, rawStyle := range raw.ElementStyles {
			kind, ok := disk.ParseElementKind(name)
			if !ok {
				return nil, errors.New(errors.ErrCodeUnknownElement,
					"element_styles: unknown element kind %q", name)
			}
			ov, err := resolveOverride(&rawStyle, colors)
			if err != nil {
				return nil, errors.Wrap(errors.GetCode(err), err, "element_styles.%s", name)
			}
			spec.Overrides[kind] = ov
		}
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

func applyElementStyle(dst *ElementStyle, raw *rawElementStyle, colors colorCache) error {
	if raw.Fill != nil {
		c, err := colors.resolve(raw.Fill)
		if err != nil {
			return err
		}
		dst.Fill = c
	}
	if raw.Stroke != nil {
		c, err := colors.resolve(raw.Stroke)
		if err != nil {
			return err
		}
		dst.Stroke = c
	}
	if raw.StrokeWidth != nil {
		if *raw.StrokeWidth < 0 {
			return errors.New(errors.ErrCodeInvalidStyle,
				"stroke_width must be non-negative, got %g", *raw.StrokeWidth)
		}
		dst.StrokeWidth = *raw.StrokeWidth
	}
	return nil
}

func resolveOverride(raw *rawElementStyle, colors colorCache) (ElementOverride, error) {
	var ov ElementOverride
	if raw.Fill != nil {
		c, err := colors.resolve(raw.Fill)
		if err != nil {
			return ElementOverride{}, err
		}
		ov.Fill = &c
	}
	if raw.Stroke != nil {
		c, err := colors.resolve(raw.Stroke)
		if err != nil {
			return ElementOverride{}, err
		}
		ov.Stroke = &c
	}
	if raw.StrokeWidth != nil {
		if *raw.StrokeWidth < 0 {
			return ElementOverride{}, errors.New(errors.ErrCodeInvalidStyle,
				"stroke_width must be non-negative, got %g", *raw.StrokeWidth)
		}
		ov.StrokeWidth = raw.StrokeWidth
	}
	return ov, nil
}
