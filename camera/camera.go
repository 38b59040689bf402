// Package camera provides a perspective camera for ray casting and projection.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Camera is a pinhole perspective camera looking from Position toward Target.
type Camera struct {
	Position r3.Vec
	Target   r3.Vec
	Up       r3.Vec

	// Vertical field of view in degrees
	FovY float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64
}

// New creates a camera with the given pose and viewport.
func New(position, target, up r3.Vec, fovY, viewportW, viewportH float64) *Camera {
	return &Camera{
		Position:  position,
		Target:    target,
		Up:        up,
		FovY:      fovY,
		ViewportW: viewportW,
		ViewportH: viewportH,
	}
}

// Aspect returns viewport width over height.
func (c *Camera) Aspect() float64 {
	if c.ViewportH <= 0 {
		return 1
	}
	return c.ViewportW / c.ViewportH
}

// Resize updates viewport dimensions, and with them the aspect ratio.
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// basis returns the camera's forward, right and up unit vectors.
func (c *Camera) basis() (forward, right, up r3.Vec) {
	forward = r3.Unit(r3.Sub(c.Target, c.Position))
	right = r3.Unit(r3.Cross(forward, c.Up))
	up = r3.Cross(right, forward)
	return forward, right, up
}

func (c *Camera) tanHalfFov() float64 {
	return math.Tan(c.FovY * math.Pi / 360)
}

// Ray returns the world-space ray through the given normalized device
// coordinates. ndcX runs -1 (left) to 1 (right), ndcY -1 (bottom) to 1 (top).
// The direction is unit length.
func (c *Camera) Ray(ndcX, ndcY float64) (origin, dir r3.Vec) {
	forward, right, up := c.basis()
	t := c.tanHalfFov()
	d := r3.Add(forward, r3.Add(
		r3.Scale(ndcX*t*c.Aspect(), right),
		r3.Scale(ndcY*t, up),
	))
	return c.Position, r3.Unit(d)
}

// Project maps a world point to screen pixels (top-left origin).
// ok is false for points on or behind the camera plane.
// depth is the distance along the view direction.
func (c *Camera) Project(p r3.Vec) (sx, sy, depth float64, ok bool) {
	forward, right, up := c.basis()
	d := r3.Sub(p, c.Position)
	depth = r3.Dot(d, forward)
	if depth <= 1e-9 {
		return 0, 0, depth, false
	}
	t := c.tanHalfFov()
	ndcX := r3.Dot(d, right) / (depth * t * c.Aspect())
	ndcY := r3.Dot(d, up) / (depth * t)
	sx = (ndcX + 1) / 2 * c.ViewportW
	sy = (1 - ndcY) / 2 * c.ViewportH
	return sx, sy, depth, true
}

// PixelsPerUnit returns how many screen pixels one world unit spans at the
// given view depth.
func (c *Camera) PixelsPerUnit(depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	return c.ViewportH / (2 * depth * c.tanHalfFov())
}

// Vec converts a config triple into a vector.
func Vec(v [3]float64) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}
