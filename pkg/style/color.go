package style

import (
	"fmt"

	"github.com/sectorviz/sectorviz/pkg/errors"
)

// Color is a normalized RGBA value, 8 bits per channel. Alpha 0 is fully
// transparent. All style colors resolve to this representation before any
// geometry work begins, so a malformed style file never produces a partially
// rendered image.
type Color struct {
	R, G, B, A uint8
}

// RGBA implements color.Color from the standard library, returning
// alpha-premultiplied 16-bit channels.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101 * uint32(c.A) / 0xff
	g = uint32(c.G) * 0x101 * uint32(c.A) / 0xff
	b = uint32(c.B) * 0x101 * uint32(c.A) / 0xff
	a = uint32(c.A) * 0x101
	return
}

// Hex returns the packed big-endian RGBA encoding of c.
func (c Color) Hex() uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

// String formats c as a 0xRRGGBBAA literal.
func (c Color) String() string {
	return fmt.Sprintf("0x%08X", c.Hex())
}

// Transparent reports whether c contributes no pixels at all.
func (c Color) Transparent() bool {
	return c.A == 0
}

// Opaque reports whether c has full alpha. Fully opaque fills are
// recommended for elements: the quadrant wedges overlap slightly, and
// partial alpha double-blends at the overlap, making seams visible.
func (c Color) Opaque() bool {
	return c.A == 0xff
}

// FromHex unpacks a big-endian 0xRRGGBBAA value.
func FromHex(v uint32) Color {
	return Color{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}
}

// ResolveColor normalizes a raw style color into a Color. Two encodings are
// accepted: a 4-element numeric array [r, g, b, a] with each channel in
// 0–255, or a single integer interpreted as packed big-endian 0xRRGGBBAA.
// Anything else fails with INVALID_COLOR; values are never clamped and never
// fall back to a default.
func ResolveColor(raw any) (Color, error) {
	switch v := raw.(type) {
	case []any:
		return resolveChannels(v)
	case []int64:
		anys := make([]any, len(v))
		for i, n := range v {
			anys[i] = n
		}
		return resolveChannels(anys)
	case []int:
		anys := make([]any, len(v))
		for i, n := range v {
			anys[i] = int64(n)
		}
		return resolveChannels(anys)
	case int64:
		return resolvePacked(v)
	case int:
		return resolvePacked(int64(v))
	case uint32:
		return FromHex(v), nil
	case uint64:
		if v > 0xFFFFFFFF {
			return Color{}, errors.New(errors.ErrCodeInvalidColor,
				"hex literal 0x%X exceeds 32-bit RGBA range", v)
		}
		return FromHex(uint32(v)), nil
	}
	return Color{}, errors.New(errors.ErrCodeInvalidColor,
		"unsupported color encoding %T (want [r,g,b,a] array or 0xRRGGBBAA integer)", raw)
}

func resolveChannels(vals []any) (Color, error) {
	if len(vals) != 4 {
		return Color{}, errors.New(errors.ErrCodeInvalidColor,
			"color array must have 4 channels, got %d", len(vals))
	}
	var ch [4]uint8
	for i, v := range vals {
		n, ok := v.(int64)
		if !ok {
			return Color{}, errors.New(errors.ErrCodeInvalidColor,
				"color channel %d is %T, want integer", i, v)
		}
		if n < 0 || n > 255 {
			return Color{}, errors.New(errors.ErrCodeInvalidColor,
				"color channel %d out of range: %d (want 0-255)", i, n)
		}
		ch[i] = uint8(n)
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

func resolvePacked(v int64) (Color, error) {
	if v < 0 || v > 0xFFFFFFFF {
		return Color{}, errors.New(errors.ErrCodeInvalidColor,
			"hex literal 0x%X outside 32-bit RGBA range", v)
	}
	return FromHex(uint32(v)), nil
}

// colorCache memoizes resolution per distinct raw input within one style
// load. Resolution is pure, so the cache only avoids redundant validation.
type colorCache map[string]Color

func (cc colorCache) resolve(raw any) (Color, error) {
	key := fmt.Sprintf("%T:%v", raw, raw)
	if c, ok := cc[key]; ok {
		return c, nil
	}
	c, err := ResolveColor(raw)
	if err != nil {
		return Color{}, err
	}
	cc[key] = c
	return c, nil
}
