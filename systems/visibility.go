package systems

import (
	"image"
	"math"
	"math/rand"
)

// MaskParticle is one visible source pixel.
type MaskParticle struct {
	PixelIndex int     // Row-major index into the source image
	X, Y       int     // PixelIndex % width, PixelIndex / width
	Angle      float64 // Random orientation in [0, π)
}

// VisibilityMask is the set of source pixels whose alpha exceeds a threshold.
// It is immutable once computed.
type VisibilityMask struct {
	Width, Height int
	NumVisible    int
	Particles     []MaskParticle // Ascending PixelIndex
}

// ComputeVisibility scans an RGBA byte buffer (4 bytes per pixel, row-major,
// top row first) and returns every pixel whose alpha byte is strictly
// greater than threshold. Degenerate input yields an empty mask.
// A nil rng uses the package-level source.
func ComputeVisibility(pixels []byte, width, height, threshold int, rng *rand.Rand) VisibilityMask {
	if width <= 0 || height <= 0 || len(pixels) < width*height*4 {
		return VisibilityMask{}
	}

	n := width * height
	count := 0
	for i := 0; i < n; i++ {
		if int(pixels[i*4+3]) > threshold {
			count++
		}
	}

	mask := VisibilityMask{
		Width:      width,
		Height:     height,
		NumVisible: count,
		Particles:  make([]MaskParticle, 0, count),
	}
	for i := 0; i < n; i++ {
		if int(pixels[i*4+3]) <= threshold {
			continue
		}
		mask.Particles = append(mask.Particles, MaskParticle{
			PixelIndex: i,
			X:          i % width,
			Y:          i / width,
			Angle:      randFloat(rng) * math.Pi,
		})
	}
	return mask
}

// VisibilityFromImage computes the mask of an NRGBA image.
// A nil image yields an empty mask.
func VisibilityFromImage(img *image.NRGBA, threshold int, rng *rand.Rand) VisibilityMask {
	if img == nil {
		return VisibilityMask{}
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	pix := img.Pix
	if img.Stride != w*4 {
		// Sub-image; repack rows contiguously
		pix = make([]byte, w*h*4)
		for y := 0; y < h; y++ {
			off := img.PixOffset(b.Min.X, b.Min.Y+y)
			copy(pix[y*w*4:(y+1)*w*4], img.Pix[off:off+w*4])
		}
	}
	return ComputeVisibility(pix, w, h, threshold, rng)
}

// SurfaceUV maps a particle's pixel position to surface coordinates,
// with V increasing upward so that it matches the touch field's flip.
func (m VisibilityMask) SurfaceUV(p MaskParticle) (u, v float64) {
	if m.Width == 0 || m.Height == 0 {
		return 0, 0
	}
	u = (float64(p.X) + 0.5) / float64(m.Width)
	v = 1 - (float64(p.Y)+0.5)/float64(m.Height)
	return u, v
}

func randFloat(rng *rand.Rand) float64 {
	if rng == nil {
		return rand.Float64()
	}
	return rng.Float64()
}
