package systems

import "math"

// EaseFunc maps normalized time t in [0,1] to progress.
type EaseFunc func(t float64) float64

// EaseOutSine decelerates along a quarter sine wave.
func EaseOutSine(t float64) float64 {
	return math.Sin(t * math.Pi / 2)
}

// EaseOutQuad decelerates quadratically.
func EaseOutQuad(t float64) float64 {
	return t * (2 - t)
}

// Linear is the identity ease.
func Linear(t float64) float64 {
	return t
}

// Tween interpolates a scalar from From to To over Duration seconds.
type Tween struct {
	From, To float64
	Duration float64
	Elapsed  float64
	Ease     EaseFunc
}

// NewTween creates a tween that starts immediately.
func NewTween(from, to, duration float64, ease EaseFunc) *Tween {
	if ease == nil {
		ease = Linear
	}
	return &Tween{From: from, To: to, Duration: duration, Ease: ease}
}

// Value returns the current interpolated value.
func (t *Tween) Value() float64 {
	if t.Duration <= 0 || t.Elapsed >= t.Duration {
		return t.To
	}
	p := t.Ease(t.Elapsed / t.Duration)
	return t.From + (t.To-t.From)*p
}

// Step advances the tween by dt seconds and returns the new value.
func (t *Tween) Step(dt float64) float64 {
	t.Elapsed += dt
	if t.Elapsed > t.Duration {
		t.Elapsed = t.Duration
	}
	return t.Value()
}

// Done reports whether the tween has reached its end value.
func (t *Tween) Done() bool {
	return t.Elapsed >= t.Duration
}

// Retarget restarts the tween from its current value toward to.
func (t *Tween) Retarget(to float64) {
	t.From = t.Value()
	t.To = to
	t.Elapsed = 0
}
