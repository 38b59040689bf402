package systems

import (
	"image"
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func alphaBitmap(alphas []byte) []byte {
	pix := make([]byte, len(alphas)*4)
	for i, a := range alphas {
		pix[i*4] = 255
		pix[i*4+1] = 255
		pix[i*4+2] = 255
		pix[i*4+3] = a
	}
	return pix
}

func TestVisibilityTwoByTwo(t *testing.T) {
	pix := alphaBitmap([]byte{10, 200, 10, 200})
	mask := ComputeVisibility(pix, 2, 2, 34, rand.New(rand.NewSource(1)))

	if mask.NumVisible != 2 {
		t.Fatalf("expected 2 visible, got %d", mask.NumVisible)
	}
	want := []MaskParticle{
		{PixelIndex: 1, X: 1, Y: 0},
		{PixelIndex: 3, X: 1, Y: 1},
	}
	if diff := cmp.Diff(want, mask.Particles, cmpopts.IgnoreFields(MaskParticle{}, "Angle")); diff != "" {
		t.Errorf("particles mismatch (-want +got):\n%s", diff)
	}
}

func TestVisibilityOpaqueThresholdZero(t *testing.T) {
	alphas := make([]byte, 5*3)
	for i := range alphas {
		alphas[i] = 255
	}
	mask := ComputeVisibility(alphaBitmap(alphas), 5, 3, 0, nil)
	if mask.NumVisible != 15 {
		t.Errorf("expected all 15 visible, got %d", mask.NumVisible)
	}
}

func TestVisibilityTransparent(t *testing.T) {
	alphas := make([]byte, 16)
	for _, threshold := range []int{0, 1, 34, 254, 255} {
		mask := ComputeVisibility(alphaBitmap(alphas), 4, 4, threshold, nil)
		if mask.NumVisible != 0 || len(mask.Particles) != 0 {
			t.Errorf("threshold %d: expected none visible, got %d", threshold, mask.NumVisible)
		}
	}
}

func TestVisibilityMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphas := make([]byte, 32*32)
	for i := range alphas {
		alphas[i] = byte(rng.Intn(256))
	}
	pix := alphaBitmap(alphas)

	prev := math.MaxInt
	for threshold := 0; threshold <= 256; threshold++ {
		n := ComputeVisibility(pix, 32, 32, threshold, rng).NumVisible
		if n > prev {
			t.Fatalf("count increased from %d to %d at threshold %d", prev, n, threshold)
		}
		prev = n
	}
}

func TestVisibilityInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	w, h := 17, 9
	alphas := make([]byte, w*h)
	for i := range alphas {
		alphas[i] = byte(rng.Intn(256))
	}
	mask := ComputeVisibility(alphaBitmap(alphas), w, h, 100, rng)

	if len(mask.Particles) != mask.NumVisible {
		t.Fatalf("list length %d != count %d", len(mask.Particles), mask.NumVisible)
	}
	last := -1
	for _, p := range mask.Particles {
		if p.PixelIndex <= last {
			t.Errorf("indices not ascending: %d after %d", p.PixelIndex, last)
		}
		last = p.PixelIndex
		if p.X != p.PixelIndex%w || p.Y != p.PixelIndex/w {
			t.Errorf("bad offsets for %d: (%d,%d)", p.PixelIndex, p.X, p.Y)
		}
		if p.Angle < 0 || p.Angle >= math.Pi {
			t.Errorf("angle %f outside [0, π)", p.Angle)
		}
		if alphas[p.PixelIndex] <= 100 {
			t.Errorf("pixel %d with alpha %d marked visible", p.PixelIndex, alphas[p.PixelIndex])
		}
	}
}

func TestVisibilityDegenerate(t *testing.T) {
	cases := []struct {
		name string
		pix  []byte
		w, h int
	}{
		{"zero width", alphaBitmap([]byte{255}), 0, 1},
		{"negative height", alphaBitmap([]byte{255}), 1, -1},
		{"short buffer", alphaBitmap([]byte{255}), 2, 2},
		{"nil buffer", nil, 3, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mask := ComputeVisibility(tc.pix, tc.w, tc.h, 0, nil)
			if mask.NumVisible != 0 || len(mask.Particles) != 0 {
				t.Errorf("expected empty mask, got %d", mask.NumVisible)
			}
		})
	}
}

func TestVisibilityDeterministicAngles(t *testing.T) {
	pix := alphaBitmap([]byte{255, 255, 255, 255})
	a := ComputeVisibility(pix, 2, 2, 0, rand.New(rand.NewSource(42)))
	b := ComputeVisibility(pix, 2, 2, 0, rand.New(rand.NewSource(42)))
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different masks:\n%s", diff)
	}
}

func TestVisibilityFromImage(t *testing.T) {
	if m := VisibilityFromImage(nil, 0, nil); m.NumVisible != 0 {
		t.Errorf("nil image should be empty, got %d", m.NumVisible)
	}

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(2, 1, color.NRGBA{A: 255})
	img.SetNRGBA(3, 3, color.NRGBA{A: 255})

	m := VisibilityFromImage(img, 34, nil)
	if m.NumVisible != 2 {
		t.Fatalf("expected 2 visible, got %d", m.NumVisible)
	}
	if m.Particles[0].X != 2 || m.Particles[0].Y != 1 {
		t.Errorf("expected first particle at (2,1), got (%d,%d)", m.Particles[0].X, m.Particles[0].Y)
	}

	// Sub-image with a wider stride
	sub := img.SubImage(image.Rect(2, 1, 4, 4)).(*image.NRGBA)
	m = VisibilityFromImage(sub, 34, nil)
	if m.NumVisible != 2 {
		t.Fatalf("expected 2 visible in sub-image, got %d", m.NumVisible)
	}
	if m.Particles[0].PixelIndex != 0 || m.Particles[1].X != 1 || m.Particles[1].Y != 2 {
		t.Errorf("unexpected sub-image particles: %+v", m.Particles)
	}
}

func TestSurfaceUV(t *testing.T) {
	mask := VisibilityMask{Width: 4, Height: 2}
	u, v := mask.SurfaceUV(MaskParticle{X: 0, Y: 0})
	if u != 0.125 || v != 0.75 {
		t.Errorf("top-left pixel center: got (%f,%f)", u, v)
	}
	u, v = mask.SurfaceUV(MaskParticle{X: 3, Y: 1})
	if u != 0.875 || v != 0.25 {
		t.Errorf("bottom-right pixel center: got (%f,%f)", u, v)
	}
}
