// Package config provides configuration loading and access for the dissolve effect.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Image     ImageConfig     `yaml:"image"`
	Mask      MaskConfig      `yaml:"mask"`
	Touch     TouchConfig     `yaml:"touch"`
	Pointer   PointerConfig   `yaml:"pointer"`
	Camera    CameraConfig    `yaml:"camera"`
	Surface   SurfaceConfig   `yaml:"surface"`
	Particles ParticlesConfig `yaml:"particles"`
	Intro     IntroConfig     `yaml:"intro"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// ImageConfig holds source bitmap settings.
type ImageConfig struct {
	Path    string `yaml:"path"`     // Empty = built-in demo disc
	MaxSize int    `yaml:"max_size"` // Longest side after downscale (0 = keep native size)
}

// MaskConfig holds visibility mask parameters.
type MaskConfig struct {
	Threshold int   `yaml:"threshold"` // Pixel visible iff alpha > threshold
	Seed      int64 `yaml:"seed"`      // Angle RNG seed (0 = time-based)
}

// TouchConfig holds touch field parameters.
type TouchConfig struct {
	Size           int     `yaml:"size"`            // Intensity buffer side in pixels
	MaxAge         int     `yaml:"max_age"`         // Frames before a point is evicted
	RadiusFraction float64 `yaml:"radius_fraction"` // Outer radius as a fraction of Size at full intensity
	Sensitivity    float64 `yaml:"sensitivity"`     // Force = min(dist^2 * sensitivity, 1)
	PeakAlpha      float64 `yaml:"peak_alpha"`      // Alpha of the white gradient stop
}

// PointerConfig holds pointer mapping parameters.
type PointerConfig struct {
	CursorSize     float32 `yaml:"cursor_size"`     // Cursor sprite side in screen pixels
	FollowDuration float64 `yaml:"follow_duration"` // Seconds for the cursor to catch up
}

// CameraConfig holds the perspective camera used for drawing and ray casting.
type CameraConfig struct {
	Position [3]float64 `yaml:"position"`
	Target   [3]float64 `yaml:"target"`
	Up       [3]float64 `yaml:"up"`
	FovY     float64    `yaml:"fov_y"` // Vertical field of view in degrees
}

// SurfaceConfig holds the interactive plane that particles sit on.
type SurfaceConfig struct {
	Center [3]float64 `yaml:"center"`
	Width  float64    `yaml:"width"`  // World units (0 = derive from image aspect and Height)
	Height float64    `yaml:"height"` // World units
}

// ParticlesConfig holds particle rendering parameters.
type ParticlesConfig struct {
	SpriteSize float32  `yaml:"sprite_size"` // Sprite side in source pixels at size=1
	TouchPush  float32  `yaml:"touch_push"`  // Radial push in source pixels at full touch intensity
	DepthScale float32  `yaml:"depth_scale"` // Multiplier on the depth parameter
	Background [3]uint8 `yaml:"background"`
}

// IntroConfig holds the startup ramp of the animation parameters.
type IntroConfig struct {
	Duration   float64 `yaml:"duration"` // Seconds; depth ramps over 1.5x this
	SizeFrom   float64 `yaml:"size_from"`
	SizeTo     float64 `yaml:"size_to"`
	RandomFrom float64 `yaml:"random_from"`
	RandomTo   float64 `yaml:"random_to"`
	DepthFrom  float64 `yaml:"depth_from"`
	DepthTo    float64 `yaml:"depth_to"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // Seconds per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT        float64 // 1 / Screen.TargetFPS
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
	Aspect    float64 // Screen.Width / Screen.Height
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values the simulation cannot run with.
func (c *Config) validate() error {
	if c.Touch.Size <= 0 {
		return fmt.Errorf("touch.size must be positive, got %d", c.Touch.Size)
	}
	if c.Touch.MaxAge <= 0 {
		return fmt.Errorf("touch.max_age must be positive, got %d", c.Touch.MaxAge)
	}
	if c.Touch.RadiusFraction <= 0 {
		return fmt.Errorf("touch.radius_fraction must be positive, got %g", c.Touch.RadiusFraction)
	}
	if c.Touch.Sensitivity <= 0 {
		return fmt.Errorf("touch.sensitivity must be positive, got %g", c.Touch.Sensitivity)
	}
	if c.Touch.PeakAlpha <= 0 || c.Touch.PeakAlpha > 1 {
		return fmt.Errorf("touch.peak_alpha must be in (0,1], got %g", c.Touch.PeakAlpha)
	}
	if c.Surface.Height <= 0 {
		return fmt.Errorf("surface.height must be positive, got %g", c.Surface.Height)
	}
	if c.Mask.Threshold < 0 {
		return fmt.Errorf("mask.threshold must be >= 0, got %d", c.Mask.Threshold)
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	fps := c.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	c.Derived.DT = 1.0 / float64(fps)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.Aspect = float64(c.Screen.Width) / float64(c.Screen.Height)
}

// SurfaceSize returns the world size of the interactive plane for an image
// of the given pixel dimensions. A zero Width keeps the image aspect.
func (c *Config) SurfaceSize(imageW, imageH int) (w, h float64) {
	h = c.Surface.Height
	w = c.Surface.Width
	if w == 0 {
		w = h
		if imageW > 0 && imageH > 0 {
			w = h * float64(imageW) / float64(imageH)
		}
	}
	return w, h
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
