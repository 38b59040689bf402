package systems

import "math"

// PointerScript drives a pointer along a figure-eight inside a rectangle.
// It stands in for a user when no window is open.
type PointerScript struct {
	Bounds Bounds
	Period float64 // Seconds per loop
	Margin float64 // Fraction of each side kept clear

	t float64
}

// NewPointerScript creates a script over b looping every period seconds.
func NewPointerScript(b Bounds, period float64) *PointerScript {
	if period <= 0 {
		period = 1
	}
	return &PointerScript{Bounds: b, Period: period, Margin: 0.1}
}

// Next advances the script by dt seconds and returns the pointer position.
func (s *PointerScript) Next(dt float64) (x, y float64) {
	s.t += dt
	return s.At(s.t)
}

// At returns the pointer position at time t without advancing.
func (s *PointerScript) At(t float64) (x, y float64) {
	phase := 2 * math.Pi * t / s.Period
	ax := s.Bounds.Width * (0.5 - s.Margin)
	ay := s.Bounds.Height * (0.5 - s.Margin)
	x = s.Bounds.Left + s.Bounds.Width/2 + ax*math.Sin(phase)
	y = s.Bounds.Top + s.Bounds.Height/2 + ay*math.Sin(2*phase)
	return x, y
}

// Elapsed returns the script time in seconds.
func (s *PointerScript) Elapsed() float64 {
	return s.t
}
