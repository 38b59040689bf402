package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dissolve/config"
	"github.com/pthm-cable/dissolve/renderer"
	"github.com/pthm-cable/dissolve/systems"
	"github.com/pthm-cable/dissolve/telemetry"
	"github.com/pthm-cable/dissolve/ui"
)

// controlsLegend is drawn along the bottom edge.
const controlsLegend = "Move: touch | Space: pause | R: replay intro | T: touch texture | Tab: tuning | P: timing | Drop an image to load it"

// layoutSprites positions every particle for this frame. It samples a
// snapshot of the touch field so the buffer lock is taken once.
func (g *Game) layoutSprites() {
	g.sprites = g.sprites[:0]
	if g.image == nil || g.mask.Height == 0 {
		return
	}
	g.field.Snapshot(&g.snapshot)

	plane := g.mapper.Plane()
	px := plane.Height / float64(g.mask.Height) // world units per source pixel
	push := float64(g.touchPush)
	spriteSize := float64(g.spriteSize)
	params := g.params
	params.Depth *= float64(config.Cfg().Particles.DepthScale)

	query := g.particleFilter.Query()
	for query.Next() {
		pixel, anchor, spin, tint := query.Get()

		touch := g.snapshot.Sample(anchor.U, anchor.V)
		d := systems.Displace(int(pixel.Index), spin.Angle, tint.Grey, touch, params, push)

		world := plane.Offset(anchor.U, anchor.V, d.DX*px, d.DY*px, d.DZ*px)
		sx, sy, depth, ok := g.camera.Project(world)
		if !ok {
			continue
		}
		size := d.Scale * spriteSize * px * g.camera.PixelsPerUnit(depth)
		if size <= 0 || math.IsNaN(size) {
			continue
		}

		g.sprites = append(g.sprites, renderer.Sprite{
			X:     float32(sx),
			Y:     float32(sy),
			Size:  float32(size),
			Color: rl.Color(tint.Color),
		})
	}
}

// syncTouchTexture uploads the touch buffer when it changed.
func (g *Game) syncTouchTexture() {
	if g.touchTexture == nil {
		g.touchTexture = renderer.NewTouchTexture(g.field.Size())
	}
	if g.touchTexture.Sync(g.field) {
		g.collector.RecordUpload()
	}
}

// Draw renders the current frame.
func (g *Game) Draw() {
	cfg := config.Cfg()
	if g.particleRenderer == nil {
		g.particleRenderer = renderer.NewParticleRenderer()
	}

	rl.BeginDrawing()
	bg := cfg.Particles.Background
	rl.ClearBackground(rl.Color{R: bg[0], G: bg[1], B: bg[2], A: 255})

	g.particleRenderer.Draw(g.sprites)

	g.drawUI()

	rl.EndDrawing()
}

// drawUI draws overlays and panels on top of the particles.
func (g *Game) drawUI() {
	sh := int32(g.screenHeight)

	if g.overlays.IsEnabled(ui.OverlayTouchTexture) && g.touchTexture != nil {
		side := float32(200)
		g.touchTexture.DrawOverlay(10, g.screenHeight-side-35, side, 220)
	}

	if g.overlays.IsEnabled(ui.OverlayCursor) {
		x, y := g.mapper.Cursor()
		size := config.Cfg().Pointer.CursorSize
		g.hud.DrawCursor(float32(x), float32(y), size*2)
	}

	if g.overlays.IsEnabled(ui.OverlayHUD) {
		mouse := rl.GetMousePosition()
		uploads := 0
		if g.touchTexture != nil {
			uploads = g.touchTexture.Uploads()
		}
		g.hud.Draw(ui.HUDData{
			Title:        config.Cfg().Screen.Title,
			ImageName:    g.imageName,
			Particles:    len(g.particles),
			Pixels:       g.mask.Width * g.mask.Height,
			TouchPoints:  g.field.Len(),
			TouchState:   g.field.State().String(),
			Uploads:      uploads,
			Intensity:    float32(g.intensityAt(float64(mouse.X), float64(mouse.Y))),
			Tick:         g.tick,
			FPS:          rl.GetFPS(),
			Paused:       g.paused,
			Intro:        g.intro != nil && !g.intro.Done(),
			ScreenWidth:  int32(g.screenWidth),
			ScreenHeight: sh,
		})
		g.controls.Draw(g.overlays)
		g.hud.DrawControls(sh, controlsLegend)
	}

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		stats := g.perfCollector.Stats()
		g.perfPanel.Draw(ui.PerfPanelData{
			PhaseAvg: stats.PhaseAvg,
			Total:    stats.AvgTickDuration,
			FPS:      stats.FPS,
		}, telemetry.Phases())
	}

	if g.overlays.IsEnabled(ui.OverlayTuning) {
		g.drawTuning()
	}
}

// drawTuning shows the tuning panel and applies its edits.
func (g *Game) drawTuning() {
	fc := g.field.Config()
	res := g.tuning.Draw(ui.TuningValues{
		RadiusFraction: float32(fc.RadiusFraction),
		Sensitivity:    float32(fc.Sensitivity),
		TouchPush:      g.touchPush,
		SpriteSize:     g.spriteSize,
	})
	if res.Changed {
		g.field.SetRadiusFraction(float64(res.Values.RadiusFraction))
		g.field.SetSensitivity(float64(res.Values.Sensitivity))
		g.touchPush = res.Values.TouchPush
		g.spriteSize = res.Values.SpriteSize
	}
	if res.Reset {
		g.field.Reset()
	}
	if res.Replay {
		g.startIntro()
	}
}

// intensityAt samples the touch field under a client position, or 0 when
// the pointer is off the surface.
func (g *Game) intensityAt(clientX, clientY float64) float64 {
	ndcX, ndcY, ok := g.mapper.NDC(clientX, clientY)
	if !ok {
		return 0
	}
	origin, dir := g.camera.Ray(ndcX, ndcY)
	u, v, hit := g.mapper.Plane().Intersect(origin, dir)
	if !hit {
		return 0
	}
	return g.field.SampleUV(u, v)
}
