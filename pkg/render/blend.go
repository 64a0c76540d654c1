package render

import (
	"math"

	"github.com/sectorviz/sectorviz/pkg/style"
)

// Blend composites src over dst using the given blend mode and returns the
// result. Inputs and output are straight-alpha colors; the premultiplication
// required by the compositing algebra happens internally.
//
// Blending follows the standard two-part definition: the source color is
// first mixed toward B(backdrop, source) in proportion to the backdrop's
// alpha, then the mixed color is composited source-over. With BlendNormal
// this reduces to plain alpha-over.
func Blend(mode style.BlendMode, src, dst style.Color) style.Color {
	as := float64(src.A) / 255
	ab := float64(dst.A) / 255
	if as == 0 {
		return dst
	}

	cs := [3]float64{float64(src.R) / 255, float64(src.G) / 255, float64(src.B) / 255}
	cb := [3]float64{float64(dst.R) / 255, float64(dst.G) / 255, float64(dst.B) / 255}

	mixed := blendFunc(mode, cb, cs)
	for i := range mixed {
		mixed[i] = (1-ab)*cs[i] + ab*mixed[i]
	}

	ao := as + ab*(1-as)
	if ao == 0 {
		return style.Color{}
	}
	var out [3]float64
	for i := range out {
		out[i] = (as*mixed[i] + ab*cb[i]*(1-as)) / ao
	}

	return style.Color{
		R: channelByte(out[0]),
		G: channelByte(out[1]),
		B: channelByte(out[2]),
		A: channelByte(ao),
	}
}

func channelByte(v float64) uint8 {
	return uint8(math.Round(math.Min(math.Max(v, 0), 1) * 255))
}

// blendFunc evaluates B(backdrop, source) for every mode in the closed set.
func blendFunc(mode style.BlendMode, cb, cs [3]float64) [3]float64 {
	switch mode {
	case style.BlendHue:
		return setLum(setSat(cs, sat(cb)), lum(cb))
	case style.BlendSaturation:
		return setLum(setSat(cb, sat(cs)), lum(cb))
	case style.BlendColor:
		return setLum(cs, lum(cb))
	case style.BlendLuminosity:
		return setLum(cb, lum(cs))
	}

	var out [3]float64
	for i := range out {
		out[i] = blendChannel(mode, cb[i], cs[i])
	}
	return out
}

// blendChannel is the separable per-channel formula for B(cb, cs).
func blendChannel(mode style.BlendMode, cb, cs float64) float64 {
	switch mode {
	case style.BlendNormal:
		return cs
	case style.BlendMultiply:
		return cb * cs
	case style.BlendScreen:
		return cb + cs - cb*cs
	case style.BlendOverlay:
		return blendChannel(style.BlendHardLight, cs, cb)
	case style.BlendDarken:
		return math.Min(cb, cs)
	case style.BlendLighten:
		return math.Max(cb, cs)
	case style.BlendColorDodge:
		if cb == 0 {
			return 0
		}
		if cs == 1 {
			return 1
		}
		return math.Min(1, cb/(1-cs))
	case style.BlendColorBurn:
		if cb == 1 {
			return 1
		}
		if cs == 0 {
			return 0
		}
		return 1 - math.Min(1, (1-cb)/cs)
	case style.BlendHardLight:
		if cs <= 0.5 {
			return cb * 2 * cs
		}
		return blendChannel(style.BlendScreen, cb, 2*cs-1)
	case style.BlendSoftLight:
		if cs <= 0.5 {
			return cb - (1-2*cs)*cb*(1-cb)
		}
		var d float64
		if cb <= 0.25 {
			d = ((16*cb-12)*cb + 4) * cb
		} else {
			d = math.Sqrt(cb)
		}
		return cb + (2*cs-1)*(d-cb)
	case style.BlendDifference:
		return math.Abs(cb - cs)
	case style.BlendExclusion:
		return cb + cs - 2*cb*cs
	}
	return cs
}

// lum is the luminosity of a color, per the non-separable blend definitions.
func lum(c [3]float64) float64 {
	return 0.3*c[0] + 0.59*c[1] + 0.11*c[2]
}

func clipColor(c [3]float64) [3]float64 {
	l := lum(c)
	n := math.Min(c[0], math.Min(c[1], c[2]))
	x := math.Max(c[0], math.Max(c[1], c[2]))
	if n < 0 {
		for i := range c {
			c[i] = l + (c[i]-l)*l/(l-n)
		}
	}
	if x > 1 {
		for i := range c {
			c[i] = l + (c[i]-l)*(1-l)/(x-l)
		}
	}
	return c
}

func setLum(c [3]float64, l float64) [3]float64 {
	d := l - lum(c)
	for i := range c {
		c[i] += d
	}
	return clipColor(c)
}

func sat(c [3]float64) float64 {
	return math.Max(c[0], math.Max(c[1], c[2])) - math.Min(c[0], math.Min(c[1], c[2]))
}

func setSat(c [3]float64, s float64) [3]float64 {
	// Indexes of min, mid, max channel.
	imin, imid, imax := 0, 1, 2
	order := func(i, j int) (int, int) {
		if c[i] <= c[j] {
			return i, j
		}
		return j, i
	}
	imin, imid = order(imin, imid)
	imid, imax = order(imid, imax)
	imin, imid = order(imin, imid)

	var out [3]float64
	if c[imax] > c[imin] {
		out[imid] = (c[imid] - c[imin]) * s / (c[imax] - c[imin])
		out[imax] = s
	}
	out[imin] = 0
	return out
}
