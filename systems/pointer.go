package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// RayCaster produces world-space rays from normalized device coordinates.
type RayCaster interface {
	Ray(ndcX, ndcY float64) (origin, dir r3.Vec)
}

// Plane is a finite rectangle in world space. AxisU and AxisV are unit
// vectors spanning it; UV (0,0) is the bottom-left corner and (1,1) the top-right.
type Plane struct {
	Center        r3.Vec
	Normal        r3.Vec
	AxisU, AxisV  r3.Vec
	Width, Height float64
}

// NewFacingPlane returns a plane centered at center facing +Z, with U along
// +X and V along +Y.
func NewFacingPlane(center r3.Vec, width, height float64) Plane {
	return Plane{
		Center: center,
		Normal: r3.Vec{Z: 1},
		AxisU:  r3.Vec{X: 1},
		AxisV:  r3.Vec{Y: 1},
		Width:  width,
		Height: height,
	}
}

// Intersect casts a ray at the plane and returns the hit in plane UV.
// Rays parallel to the plane, hits behind the origin and hits outside the
// rectangle report ok == false.
func (p Plane) Intersect(origin, dir r3.Vec) (u, v float64, ok bool) {
	if p.Width <= 0 || p.Height <= 0 {
		return 0, 0, false
	}
	denom := r3.Dot(dir, p.Normal)
	if math.Abs(denom) < 1e-12 {
		return 0, 0, false
	}
	t := r3.Dot(r3.Sub(p.Center, origin), p.Normal) / denom
	if t < 0 {
		return 0, 0, false
	}
	hit := r3.Add(origin, r3.Scale(t, dir))
	d := r3.Sub(hit, p.Center)
	u = 0.5 + r3.Dot(d, p.AxisU)/p.Width
	v = 0.5 + r3.Dot(d, p.AxisV)/p.Height
	if u < 0 || u > 1 || v < 0 || v > 1 {
		return 0, 0, false
	}
	return u, v, true
}

// WorldAt returns the world position of plane coordinates (u, v).
func (p Plane) WorldAt(u, v float64) r3.Vec {
	return r3.Add(p.Center, r3.Add(
		r3.Scale((u-0.5)*p.Width, p.AxisU),
		r3.Scale((v-0.5)*p.Height, p.AxisV),
	))
}

// Bounds is the on-screen rectangle of the interactive surface in client pixels.
type Bounds struct {
	Left, Top     float64
	Width, Height float64
}

// BoundsFunc measures the current surface bounds.
type BoundsFunc func() Bounds

// PointerOptions configures the cosmetic cursor follower.
type PointerOptions struct {
	CursorSize     float64 // Cursor target is offset by this many pixels
	FollowDuration float64 // Seconds for the cursor to reach a new target
}

// PointerMapper converts client pointer positions into touch field samples
// by casting a ray through the camera onto the surface plane.
// Not safe for concurrent use; the touch field it feeds is.
type PointerMapper struct {
	field  *TouchField
	caster RayCaster
	plane  Plane

	boundsFn    BoundsFunc
	bounds      Bounds
	boundsValid bool

	opts             PointerOptions
	cursorX, cursorY *Tween

	hits, misses int
}

// NewPointerMapper wires a mapper to a field, camera and surface plane.
func NewPointerMapper(field *TouchField, caster RayCaster, plane Plane, boundsFn BoundsFunc, opts PointerOptions) *PointerMapper {
	return &PointerMapper{
		field:    field,
		caster:   caster,
		plane:    plane,
		boundsFn: boundsFn,
		opts:     opts,
		cursorX:  NewTween(0, 0, opts.FollowDuration, EaseOutQuad),
		cursorY:  NewTween(0, 0, opts.FollowDuration, EaseOutQuad),
	}
}

// Resize invalidates the cached bounds; the next event measures again.
func (m *PointerMapper) Resize() {
	m.boundsValid = false
}

// SetPlane replaces the surface plane, e.g. after the image changes size.
func (m *PointerMapper) SetPlane(p Plane) {
	m.plane = p
}

// Plane returns the current surface plane.
func (m *PointerMapper) Plane() Plane {
	return m.plane
}

func (m *PointerMapper) currentBounds() Bounds {
	if !m.boundsValid {
		if m.boundsFn != nil {
			m.bounds = m.boundsFn()
		}
		m.boundsValid = true
	}
	return m.bounds
}

// NDC maps client pixels to normalized device coordinates against the
// cached bounds. ok is false when the bounds are empty.
func (m *PointerMapper) NDC(clientX, clientY float64) (ndcX, ndcY float64, ok bool) {
	b := m.currentBounds()
	if b.Width <= 0 || b.Height <= 0 {
		return 0, 0, false
	}
	ndcX = ((clientX-b.Left)/b.Width)*2 - 1
	ndcY = -((clientY-b.Top)/b.Height)*2 + 1
	return ndcX, ndcY, true
}

// HandleMove processes one pointer event. It retargets the cursor and, if
// the ray through the pointer hits the surface, adds a touch at the hit UV.
// Returns whether a touch was added.
func (m *PointerMapper) HandleMove(clientX, clientY float64) bool {
	m.cursorX.Retarget(clientX - m.opts.CursorSize)
	m.cursorY.Retarget(clientY - m.opts.CursorSize)

	ndcX, ndcY, ok := m.NDC(clientX, clientY)
	if !ok || m.caster == nil || m.field == nil {
		m.misses++
		return false
	}
	origin, dir := m.caster.Ray(ndcX, ndcY)
	u, v, hit := m.plane.Intersect(origin, dir)
	if !hit {
		m.misses++
		return false
	}
	m.field.AddTouch(u, v)
	m.hits++
	return true
}

// Tick advances the cursor follow animation by dt seconds.
func (m *PointerMapper) Tick(dt float64) {
	m.cursorX.Step(dt)
	m.cursorY.Step(dt)
}

// Cursor returns the animated cursor position in client pixels.
func (m *PointerMapper) Cursor() (x, y float64) {
	return m.cursorX.Value(), m.cursorY.Value()
}

// Counts returns how many events hit and missed the surface.
func (m *PointerMapper) Counts() (hits, misses int) {
	return m.hits, m.misses
}

// Offset returns the world position of (u, v) displaced by du along AxisU,
// dv along AxisV and dn along the normal, all in world units.
func (p Plane) Offset(u, v, du, dv, dn float64) r3.Vec {
	w := p.WorldAt(u, v)
	w = r3.Add(w, r3.Scale(du, p.AxisU))
	w = r3.Add(w, r3.Scale(dv, p.AxisV))
	return r3.Add(w, r3.Scale(dn, p.Normal))
}
