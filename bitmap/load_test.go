package bitmap

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "src.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadKeepsPixels(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(1, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	src.SetNRGBA(1, 1, color.NRGBA{R: 40, G: 50, B: 60, A: 128})

	img, err := Load(writePNG(t, src), 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("expected 2x2, got %v", img.Bounds())
	}
	if got := img.NRGBAAt(1, 0); got != (color.NRGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("pixel (1,0) = %v", got)
	}
	if got := img.NRGBAAt(1, 1).A; got != 128 {
		t.Errorf("expected alpha 128 at (1,1), got %d", got)
	}
	if got := img.NRGBAAt(0, 0).A; got != 0 {
		t.Errorf("expected transparent (0,0), got alpha %d", got)
	}
}

func TestLoadDownscales(t *testing.T) {
	src := Solid(400, 100, color.NRGBA{R: 255, A: 255})

	img, err := Load(writePNG(t, src), 200)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 50 {
		t.Errorf("expected 200x50, got %v", img.Bounds())
	}
	if got := img.NRGBAAt(100, 25).A; got != 255 {
		t.Errorf("expected opaque interior after scale, got alpha %d", got)
	}
}

func TestFitPortrait(t *testing.T) {
	img := Fit(Solid(30, 90, color.NRGBA{A: 255}), 45)
	if img.Bounds().Dx() != 15 || img.Bounds().Dy() != 45 {
		t.Errorf("expected 15x45, got %v", img.Bounds())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.png"), 0); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.png")
	if err := os.WriteFile(path, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, 0); err == nil {
		t.Error("expected decode error")
	}
}

func TestDisc(t *testing.T) {
	img := Disc(20, 20, color.NRGBA{G: 255, A: 255})
	if img.NRGBAAt(10, 10).A != 255 {
		t.Error("center should be opaque")
	}
	if img.NRGBAAt(0, 0).A != 0 {
		t.Error("corner should be transparent")
	}
}
