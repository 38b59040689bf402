package game

import (
	"image"
	"image/color"
	"log/slog"
	"math/rand"
	"path/filepath"

	"github.com/pthm-cable/dissolve/bitmap"
	"github.com/pthm-cable/dissolve/components"
	"github.com/pthm-cable/dissolve/config"
	"github.com/pthm-cable/dissolve/systems"
)

// demoSize is the side of the built-in disc shown when no image is configured.
const demoSize = 128

// LoadImage replaces the particle cloud with one sampled from the image at
// path. An empty path shows a built-in disc. A failed decode is logged and
// leaves zero particles.
func (g *Game) LoadImage(path string) {
	cfg := config.Cfg()

	var img *image.NRGBA
	name := "demo"
	if path == "" {
		img = bitmap.Disc(demoSize, demoSize, color.NRGBA{R: 235, G: 225, B: 210, A: 255})
	} else {
		name = filepath.Base(path)
		loaded, err := bitmap.Load(path, cfg.Image.MaxSize)
		if err != nil {
			slog.Warn("image load failed", "path", path, "error", err)
		}
		img = loaded
	}

	g.SetImage(name, img)
}

// SetImage despawns the current particles and spawns one per visible pixel
// of img. A nil image leaves the cloud empty.
func (g *Game) SetImage(name string, img *image.NRGBA) {
	cfg := config.Cfg()

	g.despawnParticles()
	g.image = img
	g.imageName = name
	g.field.Reset()

	seed := cfg.Mask.Seed
	if seed == 0 {
		seed = g.rng.Int63()
	}
	g.mask = systems.VisibilityFromImage(img, cfg.Mask.Threshold, randSource(seed))

	var w, h int
	if img != nil {
		w, h = img.Rect.Dx(), img.Rect.Dy()
	}
	sw, sh := cfg.SurfaceSize(w, h)
	g.mapper.SetPlane(systems.NewFacingPlane(g.mapper.Plane().Center, sw, sh))

	g.spawnParticles()
	g.startIntro()

	slog.Info("image loaded",
		"name", name,
		"width", w,
		"height", h,
		"visible", g.mask.NumVisible,
		"threshold", cfg.Mask.Threshold,
	)
}

// spawnParticles creates one entity per particle in the current mask.
func (g *Game) spawnParticles() {
	for _, mp := range g.mask.Particles {
		u, v := g.mask.SurfaceUV(mp)
		c := g.image.NRGBAAt(g.image.Rect.Min.X+mp.X, g.image.Rect.Min.Y+mp.Y)
		rgba := color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}

		pixel := components.Pixel{Index: int32(mp.PixelIndex), X: int32(mp.X), Y: int32(mp.Y)}
		anchor := components.Anchor{U: u, V: v}
		spin := components.Spin{Angle: mp.Angle}
		tint := components.Tint{Color: rgba, Grey: systems.Grey(rgba)}

		e := g.particleMap.NewEntity(&pixel, &anchor, &spin, &tint)
		g.particles = append(g.particles, e)
	}
}

// despawnParticles removes every particle entity.
func (g *Game) despawnParticles() {
	for _, e := range g.particles {
		if g.world.Alive(e) {
			g.world.RemoveEntity(e)
		}
	}
	g.particles = g.particles[:0]
	g.sprites = g.sprites[:0]
}

// startIntro restarts the size, randomness and depth ramp.
func (g *Game) startIntro() {
	ic := config.Cfg().Intro
	from := systems.AnimParams{Size: ic.SizeFrom, Random: ic.RandomFrom, Depth: ic.DepthFrom}
	to := systems.AnimParams{Size: ic.SizeTo, Random: ic.RandomTo, Depth: ic.DepthTo}
	g.intro = systems.NewIntroRamp(from, to, ic.Duration)
	g.params = g.intro.Params()
}

func randSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
