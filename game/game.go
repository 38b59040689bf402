package game

import (
	"image"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/dissolve/camera"
	"github.com/pthm-cable/dissolve/components"
	"github.com/pthm-cable/dissolve/config"
	"github.com/pthm-cable/dissolve/renderer"
	"github.com/pthm-cable/dissolve/systems"
	"github.com/pthm-cable/dissolve/telemetry"
	"github.com/pthm-cable/dissolve/ui"
)

// Options configures optional game features.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	Headless       bool
	ImagePath      string // Overrides config image.path when set
}

// Game holds the complete state of the dissolve effect.
type Game struct {
	world *ecs.World
	rng   *rand.Rand

	particleMap *ecs.Map4[
		components.Pixel,
		components.Anchor,
		components.Spin,
		components.Tint,
	]
	particleFilter *ecs.Filter4[
		components.Pixel,
		components.Anchor,
		components.Spin,
		components.Tint,
	]
	particles []ecs.Entity

	// Source image and its mask
	image     *image.NRGBA
	imageName string
	mask      systems.VisibilityMask

	// Touch interaction
	field    *systems.TouchField
	mapper   *systems.PointerMapper
	camera   *camera.Camera
	snapshot systems.TouchSnapshot
	script   *systems.PointerScript

	// Animation
	intro      *systems.IntroRamp
	params     systems.AnimParams
	touchPush  float32
	spriteSize float32
	sprites    []renderer.Sprite

	// Rendering (nil in headless mode)
	particleRenderer *renderer.ParticleRenderer
	touchTexture     *renderer.TouchTexture
	hud              *ui.HUD
	overlays         *ui.OverlayRegistry
	controls         *ui.ControlsPanel
	perfPanel        *ui.PerfPanel
	tuning           *ui.TuningPanel

	// Telemetry
	perfCollector *telemetry.PerfCollector
	collector     *telemetry.Collector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)

	// State
	tick     int32
	paused   bool
	headless bool

	// Window dimensions
	screenWidth, screenHeight float32
}

// NewGameWithOptions creates a game. Rendering resources are created lazily
// on first draw, so headless games never touch the graphics context.
func NewGameWithOptions(opts Options) *Game {
	cfg := config.Cfg()
	world := ecs.NewWorld()

	g := &Game{
		world:        world,
		rng:          rand.New(rand.NewSource(opts.Seed)),
		headless:     opts.Headless,
		logStats:     opts.LogStats,
		screenWidth:  cfg.Derived.ScreenW32,
		screenHeight: cfg.Derived.ScreenH32,
		touchPush:    cfg.Particles.TouchPush,
		spriteSize:   cfg.Particles.SpriteSize,
		particleMap: ecs.NewMap4[
			components.Pixel,
			components.Anchor,
			components.Spin,
			components.Tint,
		](world),
		particleFilter: ecs.NewFilter4[
			components.Pixel,
			components.Anchor,
			components.Spin,
			components.Tint,
		](world),
	}

	g.field = systems.NewTouchField(systems.TouchFieldConfig{
		Size:           cfg.Touch.Size,
		MaxAge:         cfg.Touch.MaxAge,
		RadiusFraction: cfg.Touch.RadiusFraction,
		Sensitivity:    cfg.Touch.Sensitivity,
		PeakAlpha:      cfg.Touch.PeakAlpha,
	})

	g.camera = camera.New(
		camera.Vec(cfg.Camera.Position),
		camera.Vec(cfg.Camera.Target),
		camera.Vec(cfg.Camera.Up),
		cfg.Camera.FovY,
		float64(g.screenWidth), float64(g.screenHeight),
	)

	w, h := cfg.SurfaceSize(0, 0)
	g.mapper = systems.NewPointerMapper(g.field, g.camera,
		systems.NewFacingPlane(camera.Vec(cfg.Surface.Center), w, h),
		g.surfaceBounds,
		systems.PointerOptions{
			CursorSize:     float64(cfg.Pointer.CursorSize),
			FollowDuration: cfg.Pointer.FollowDuration,
		})

	// Telemetry
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	g.collector = telemetry.NewCollector(statsWindow, float32(cfg.Derived.DT))

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
	}
	g.outputManager = om
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	if opts.Headless {
		g.script = systems.NewPointerScript(g.surfaceBounds(), 4)
	} else {
		g.hud = ui.NewHUD()
		g.overlays = ui.NewOverlayRegistry()
		g.controls = ui.NewControlsPanel(10, 130, 200)
		g.perfPanel = ui.NewPerfPanel(int32(g.screenWidth)-270, 10)
		g.tuning = ui.NewTuningPanel(int32(g.screenWidth)-300, 10, 290)
	}

	path := cfg.Image.Path
	if opts.ImagePath != "" {
		path = opts.ImagePath
	}
	g.LoadImage(path)

	return g
}

// surfaceBounds is the client rectangle the pointer is measured against.
func (g *Game) surfaceBounds() systems.Bounds {
	return systems.Bounds{Width: float64(g.screenWidth), Height: float64(g.screenHeight)}
}

// SetStatsCallback registers fn to receive every flushed stats window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// Update runs one interactive frame: input, pointer, then the shared tick.
func (g *Game) Update() {
	g.perfCollector.RecordFrame()
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseInput)
	g.handleInput()

	if g.paused {
		g.perfCollector.EndTick()
		return
	}

	g.perfCollector.StartPhase(telemetry.PhasePointer)
	g.handlePointer()

	g.Tick(config.Cfg().Derived.DT)

	g.perfCollector.StartPhase(telemetry.PhaseUpload)
	g.syncTouchTexture()

	g.perfCollector.EndTick()
}

// UpdateHeadless runs one frame without a window, driving the pointer
// from a scripted path.
func (g *Game) UpdateHeadless() {
	g.perfCollector.StartTick()

	dt := config.Cfg().Derived.DT
	g.perfCollector.StartPhase(telemetry.PhasePointer)
	x, y := g.script.Next(dt)
	g.collector.RecordMove(g.mapper.HandleMove(x, y))

	g.Tick(dt)

	g.perfCollector.EndTick()
}

// Tick advances the effect by dt seconds: cursor follow, touch field
// aging and rasterization, intro ramp, particle layout and telemetry.
func (g *Game) Tick(dt float64) {
	g.mapper.Tick(dt)

	g.perfCollector.StartPhase(telemetry.PhaseTouchField)
	g.field.Update()

	g.perfCollector.StartPhase(telemetry.PhaseSprites)
	if g.intro != nil {
		g.params = g.intro.Step(dt)
	}
	g.layoutSprites()

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
}

// TickCount returns the number of ticks run so far.
func (g *Game) TickCount() int32 {
	return g.tick
}

// ParticleCount returns the number of live particles.
func (g *Game) ParticleCount() int {
	return len(g.particles)
}

// Unload releases resources and closes telemetry output.
func (g *Game) Unload() {
	if g.particleRenderer != nil {
		g.particleRenderer.Unload()
	}
	if g.touchTexture != nil {
		g.touchTexture.Unload()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
