package systems

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/dissolve/camera"
)

// orthoCaster shoots parallel rays down -Z from a unit square at z=1.
type orthoCaster struct {
	dir r3.Vec
}

func (o orthoCaster) Ray(ndcX, ndcY float64) (r3.Vec, r3.Vec) {
	dir := o.dir
	if dir == (r3.Vec{}) {
		dir = r3.Vec{Z: -1}
	}
	return r3.Vec{X: ndcX * 0.5, Y: ndcY * 0.5, Z: 1}, dir
}

func fixedBounds(b Bounds, calls *int) BoundsFunc {
	return func() Bounds {
		if calls != nil {
			*calls++
		}
		return b
	}
}

func newTestMapper(caster RayCaster, plane Plane, calls *int) (*PointerMapper, *TouchField) {
	field := NewTouchField(DefaultTouchFieldConfig())
	m := NewPointerMapper(field, caster, plane,
		fixedBounds(Bounds{Width: 800, Height: 600}, calls),
		PointerOptions{CursorSize: 10, FollowDuration: 0.5})
	return m, field
}

func TestNDC(t *testing.T) {
	m, _ := newTestMapper(orthoCaster{}, NewFacingPlane(r3.Vec{}, 1, 1), nil)

	testCases := []struct {
		cx, cy       float64
		wantX, wantY float64
	}{
		{0, 0, -1, 1},
		{800, 600, 1, -1},
		{400, 300, 0, 0},
		{200, 450, -0.5, -0.5},
	}
	for _, tc := range testCases {
		x, y, ok := m.NDC(tc.cx, tc.cy)
		if !ok {
			t.Fatalf("NDC(%v,%v) reported empty bounds", tc.cx, tc.cy)
		}
		if x != tc.wantX || y != tc.wantY {
			t.Errorf("NDC(%v,%v) = (%v,%v), want (%v,%v)", tc.cx, tc.cy, x, y, tc.wantX, tc.wantY)
		}
	}
}

func TestNDCSubtractsOffset(t *testing.T) {
	field := NewTouchField(DefaultTouchFieldConfig())
	m := NewPointerMapper(field, orthoCaster{}, NewFacingPlane(r3.Vec{}, 1, 1),
		fixedBounds(Bounds{Left: 100, Top: 50, Width: 200, Height: 100}, nil),
		PointerOptions{})

	x, y, _ := m.NDC(200, 100)
	if x != 0 || y != 0 {
		t.Errorf("expected surface center at NDC origin, got (%v,%v)", x, y)
	}
}

func TestHandleMoveHit(t *testing.T) {
	m, field := newTestMapper(orthoCaster{}, NewFacingPlane(r3.Vec{}, 1, 1), nil)

	if !m.HandleMove(200, 150) {
		t.Fatal("expected hit")
	}
	pts := field.Points()
	want := []TouchPoint{{U: 0.25, V: 0.75}}
	if diff := cmp.Diff(want, pts, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("touch mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleMoveMisses(t *testing.T) {
	testCases := []struct {
		name   string
		caster RayCaster
		plane  Plane
		cx, cy float64
	}{
		{"outside extent", orthoCaster{}, NewFacingPlane(r3.Vec{}, 0.5, 0.5), 10, 10},
		{"parallel ray", orthoCaster{dir: r3.Vec{X: 1}}, NewFacingPlane(r3.Vec{}, 1, 1), 400, 300},
		{"behind origin", orthoCaster{}, NewFacingPlane(r3.Vec{Z: 2}, 1, 1), 400, 300},
		{"degenerate plane", orthoCaster{}, NewFacingPlane(r3.Vec{}, 0, 0), 400, 300},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, field := newTestMapper(tc.caster, tc.plane, nil)
			if m.HandleMove(tc.cx, tc.cy) {
				t.Error("expected miss")
			}
			if field.Len() != 0 {
				t.Errorf("miss must not add a touch, got %d", field.Len())
			}
			if hits, misses := m.Counts(); hits != 0 || misses != 1 {
				t.Errorf("expected 0 hits 1 miss, got %d/%d", hits, misses)
			}
		})
	}
}

func TestEmptyBoundsDropsEvent(t *testing.T) {
	field := NewTouchField(DefaultTouchFieldConfig())
	m := NewPointerMapper(field, orthoCaster{}, NewFacingPlane(r3.Vec{}, 1, 1),
		fixedBounds(Bounds{}, nil), PointerOptions{})
	if m.HandleMove(1, 1) {
		t.Error("expected empty bounds to drop event")
	}
}

func TestBoundsCachedUntilResize(t *testing.T) {
	calls := 0
	m, _ := newTestMapper(orthoCaster{}, NewFacingPlane(r3.Vec{}, 1, 1), &calls)

	m.HandleMove(100, 100)
	m.HandleMove(200, 200)
	if calls != 1 {
		t.Errorf("expected bounds measured once, got %d", calls)
	}

	m.Resize()
	if calls != 1 {
		t.Errorf("resize must not measure eagerly, got %d", calls)
	}
	m.HandleMove(300, 300)
	if calls != 2 {
		t.Errorf("expected remeasure after resize, got %d", calls)
	}
}

func TestCursorFollow(t *testing.T) {
	m, field := newTestMapper(orthoCaster{}, NewFacingPlane(r3.Vec{}, 0.01, 0.01), nil)

	m.HandleMove(110, 60)
	x, y := m.Cursor()
	if x != 0 || y != 0 {
		t.Errorf("cursor should not jump, got (%v,%v)", x, y)
	}

	m.Tick(0.25)
	x, y = m.Cursor()
	if x <= 0 || x >= 100 || y <= 0 || y >= 50 {
		t.Errorf("expected cursor midway, got (%v,%v)", x, y)
	}

	m.Tick(0.5)
	x, y = m.Cursor()
	if x != 100 || y != 50 {
		t.Errorf("expected cursor at pointer minus size, got (%v,%v)", x, y)
	}
	if field.Len() != 0 {
		t.Error("cursor follow must not add touches")
	}
}

func TestHandleMoveWithPerspectiveCamera(t *testing.T) {
	cam := camera.New(r3.Vec{Z: 1}, r3.Vec{}, r3.Vec{Y: 1}, 45, 800, 600)
	field := NewTouchField(DefaultTouchFieldConfig())
	plane := NewFacingPlane(r3.Vec{}, 1, 0.75)
	m := NewPointerMapper(field, cam, plane,
		fixedBounds(Bounds{Width: 800, Height: 600}, nil), PointerOptions{})

	if !m.HandleMove(400, 300) {
		t.Fatal("expected center click to hit")
	}
	p := field.Points()[0]
	if math.Abs(p.U-0.5) > 1e-9 || math.Abs(p.V-0.5) > 1e-9 {
		t.Errorf("expected (0.5,0.5), got (%v,%v)", p.U, p.V)
	}

	// Upper-left of center lands in the upper-left quadrant of the plane
	m.HandleMove(300, 200)
	p = field.Points()[1]
	if p.U >= 0.5 || p.V <= 0.5 {
		t.Errorf("expected upper-left quadrant, got (%v,%v)", p.U, p.V)
	}
}

func TestPlaneWorldAtRoundtrip(t *testing.T) {
	plane := NewFacingPlane(r3.Vec{X: 1, Y: 2, Z: -3}, 2, 4)
	w := plane.WorldAt(0.25, 0.75)
	u, v, ok := plane.Intersect(r3.Add(w, r3.Vec{Z: 5}), r3.Vec{Z: -1})
	if !ok {
		t.Fatal("expected hit")
	}
	if math.Abs(u-0.25) > 1e-12 || math.Abs(v-0.75) > 1e-12 {
		t.Errorf("expected (0.25,0.75), got (%v,%v)", u, v)
	}
}

func TestPlaneOffset(t *testing.T) {
	plane := NewFacingPlane(r3.Vec{Z: -1}, 2, 1)
	got := plane.Offset(0.5, 0.5, 0.1, -0.2, 0.3)
	want := r3.Vec{X: 0.1, Y: -0.2, Z: -0.7}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("Offset() mismatch (-want +got):\n%s", diff)
	}
}
