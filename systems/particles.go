package systems

import (
	"image/color"
	"math"
)

// AnimParams are the global animation parameters shared by all particles.
type AnimParams struct {
	Size   float64 // Sprite size multiplier
	Random float64 // In-plane jitter amplitude in source pixels
	Depth  float64 // Out-of-plane scatter amplitude in source pixels
}

// IntroRamp eases the animation parameters from their start values to
// their resting values when an image is first shown.
type IntroRamp struct {
	size, random, depth *Tween
}

// NewIntroRamp starts a ramp. Size and randomness take duration seconds,
// depth takes 1.5x as long.
func NewIntroRamp(from, to AnimParams, duration float64) *IntroRamp {
	return &IntroRamp{
		size:   NewTween(from.Size, to.Size, duration, EaseOutQuad),
		random: NewTween(from.Random, to.Random, duration, EaseOutQuad),
		depth:  NewTween(from.Depth, to.Depth, duration*1.5, EaseOutQuad),
	}
}

// Step advances the ramp and returns the current parameters.
func (r *IntroRamp) Step(dt float64) AnimParams {
	r.size.Step(dt)
	r.random.Step(dt)
	r.depth.Step(dt)
	return r.Params()
}

// Params returns the current parameters without advancing.
func (r *IntroRamp) Params() AnimParams {
	return AnimParams{Size: r.size.Value(), Random: r.random.Value(), Depth: r.depth.Value()}
}

// Done reports whether every parameter has settled.
func (r *IntroRamp) Done() bool {
	return r.size.Done() && r.random.Done() && r.depth.Done()
}

// Hash01 returns a deterministic pseudo-random value in [0,1) for x.
func Hash01(x float64) float64 {
	s := math.Sin(x*12.9898+78.233) * 43758.5453
	return s - math.Floor(s)
}

// Grey returns the perceptual luminance of c in [0,1].
func Grey(c color.RGBA) float64 {
	return (0.21*float64(c.R) + 0.71*float64(c.G) + 0.07*float64(c.B)) / 255
}

// Displacement is a particle's offset from its rest pixel in source pixels,
// expressed in surface axes (DX along U, DY along V, DZ along the normal).
type Displacement struct {
	DX, DY, DZ float64
	Scale      float64 // Sprite size multiplier
}

// minGrey keeps dark pixels from vanishing entirely.
const minGrey = 0.2

// Displace computes where a particle sits this frame. index seeds the
// per-particle randomness, angle is its push direction, grey its source
// luminance and touch the touch field sample under it. push is the radial
// displacement at full touch intensity.
func Displace(index int, angle, grey, touch float64, params AnimParams, push float64) Displacement {
	fi := float64(index)
	r0 := Hash01(fi)
	r1 := Hash01(fi*1.618 + 0.5)
	r2 := Hash01(fi * 0.1)

	d := Displacement{
		DX: (r0 - 0.5) * params.Random,
		DY: (r1 - 0.5) * params.Random,
	}

	rndz := r0 + r2
	d.DZ = rndz * r0 * 2 * params.Depth

	if touch > 0 {
		k := touch * push * rndz
		d.DZ += k
		d.DX += math.Cos(angle) * k
		d.DY += math.Sin(angle) * k
	}

	d.Scale = (1.5 + Hash01(fi+0.25)) * math.Max(grey, minGrey) * params.Size
	return d
}
