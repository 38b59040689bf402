package systems

import (
	"math"
	"sync"

	"github.com/gogpu/gg"
)

// TouchPoint is one sample of the pointer trail in surface space.
type TouchPoint struct {
	U, V  float64
	Age   int     // Frames since creation
	Force float64 // [0,1], fixed at creation
}

// TouchFieldConfig configures a TouchField.
type TouchFieldConfig struct {
	Size           int     // Side of the square intensity buffer in pixels
	MaxAge         int     // Points older than this are evicted
	RadiusFraction float64 // Outer radius at full intensity, as a fraction of Size
	Sensitivity    float64 // Force = min(dist^2 * Sensitivity, 1)
	PeakAlpha      float64 // Alpha of the inner (white) gradient stop
}

// DefaultTouchFieldConfig returns the standard touch field parameters.
func DefaultTouchFieldConfig() TouchFieldConfig {
	return TouchFieldConfig{
		Size:           64,
		MaxAge:         120,
		RadiusFraction: 0.15,
		Sensitivity:    10000,
		PeakAlpha:      0.2,
	}
}

// TouchState reports whether the field has any live points.
type TouchState uint8

const (
	TouchIdle TouchState = iota
	TouchActive
)

func (s TouchState) String() string {
	if s == TouchActive {
		return "active"
	}
	return "idle"
}

// innerRadiusRatio is the inner gradient radius relative to the outer one.
const innerRadiusRatio = 0.25

// riseFraction is the share of MaxAge spent ramping up before decaying.
const riseFraction = 0.3

// TouchField keeps an aging trail of touch points and rasterizes it each
// tick into a square intensity buffer. Row 0 of the buffer is the top of
// the surface (V = 1).
// Safe for concurrent use.
type TouchField struct {
	mu    sync.Mutex
	cfg   TouchFieldConfig
	trail []TouchPoint
	pm    *gg.Pixmap
	dirty bool
}

// NewTouchField creates an idle field with an opaque black buffer.
// Zero or negative config fields fall back to DefaultTouchFieldConfig.
func NewTouchField(cfg TouchFieldConfig) *TouchField {
	def := DefaultTouchFieldConfig()
	if cfg.Size <= 0 {
		cfg.Size = def.Size
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = def.MaxAge
	}
	if cfg.RadiusFraction <= 0 {
		cfg.RadiusFraction = def.RadiusFraction
	}
	if cfg.Sensitivity <= 0 {
		cfg.Sensitivity = def.Sensitivity
	}
	if cfg.PeakAlpha <= 0 {
		cfg.PeakAlpha = def.PeakAlpha
	}
	pm := gg.NewPixmap(cfg.Size, cfg.Size)
	pm.Clear(gg.Black)
	return &TouchField{cfg: cfg, pm: pm}
}

// Config returns the current configuration.
func (f *TouchField) Config() TouchFieldConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfg
}

// AddTouch appends a point at surface coordinates (u, v). Values outside
// [0,1] are accepted and simply fall off the buffer when drawn.
// Force is zero for the first point of a trail, otherwise the squared
// distance from the previous point times Sensitivity, clamped to [0,1].
func (f *TouchField) AddTouch(u, v float64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	force := 0.0
	if n := len(f.trail); n > 0 {
		last := f.trail[n-1]
		dx := u - last.U
		dy := v - last.V
		force = math.Max(0, math.Min((dx*dx+dy*dy)*f.cfg.Sensitivity, 1))
	}
	f.trail = append(f.trail, TouchPoint{U: u, V: v, Force: force})
}

// Update ages every point, evicts points older than MaxAge and redraws the
// buffer from scratch, oldest point first.
func (f *TouchField) Update() {
	f.mu.Lock()
	defer f.mu.Unlock()

	// In-place compaction preserving insertion order
	alive := f.trail[:0]
	for _, p := range f.trail {
		p.Age++
		if p.Age > f.cfg.MaxAge {
			continue
		}
		alive = append(alive, p)
	}
	// Clear stale tail so the backing array does not pin old values
	for i := len(alive); i < len(f.trail); i++ {
		f.trail[i] = TouchPoint{}
	}
	f.trail = alive

	f.pm.Clear(gg.Black)
	for _, p := range f.trail {
		f.drawPoint(p)
	}
	f.dirty = true
}

// drawPoint composites one point's radial gradient onto the buffer.
// Caller must hold mu.
func (f *TouchField) drawPoint(p TouchPoint) {
	size := float64(f.cfg.Size)
	intensity := Intensity(p.Age, f.cfg.MaxAge) * p.Force
	outer := size * f.cfg.RadiusFraction * intensity
	if outer <= 0 {
		return
	}

	cx := p.U * size
	cy := (1 - p.V) * size
	brush := gg.NewRadialGradientBrush(cx, cy, outer*innerRadiusRatio, outer).
		AddColorStop(0, gg.RGBA2(1, 1, 1, f.cfg.PeakAlpha)).
		AddColorStop(1, gg.RGBA2(1, 1, 1, 0))

	x0 := max(0, int(math.Floor(cx-outer)))
	x1 := min(f.cfg.Size-1, int(math.Ceil(cx+outer)))
	y0 := max(0, int(math.Floor(cy-outer)))
	y1 := min(f.cfg.Size-1, int(math.Ceil(cy+outer)))
	r2 := outer * outer

	for y := y0; y <= y1; y++ {
		py := float64(y) + 0.5
		for x := x0; x <= x1; x++ {
			px := float64(x) + 0.5
			dx, dy := px-cx, py-cy
			if dx*dx+dy*dy > r2 {
				continue
			}
			src := brush.ColorAt(px, py)
			if src.A <= 0 {
				continue
			}
			// Source-over: rgb and alpha both move toward the opaque source by src.A
			dst := f.pm.GetPixel(x, y)
			f.pm.SetPixel(x, y, dst.Lerp(gg.RGB(src.R, src.G, src.B), src.A))
		}
	}
}

// Intensity is the age envelope of a touch point: a quarter-sine rise over
// the first 30% of maxAge, then a quarter-sine fall to zero at maxAge.
func Intensity(age, maxAge int) float64 {
	if maxAge <= 0 {
		return 0
	}
	a := float64(age)
	rise := riseFraction * float64(maxAge)
	if a < rise {
		return EaseOutSine(a / rise)
	}
	fall := float64(maxAge) - rise
	return EaseOutSine(1 - (a-rise)/fall)
}

// State reports whether any points are live.
func (f *TouchField) State() TouchState {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.trail) == 0 {
		return TouchIdle
	}
	return TouchActive
}

// Len returns the number of live points.
func (f *TouchField) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.trail)
}

// Points returns a copy of the trail, oldest first.
func (f *TouchField) Points() []TouchPoint {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]TouchPoint, len(f.trail))
	copy(out, f.trail)
	return out
}

// Size returns the side of the intensity buffer in pixels.
func (f *TouchField) Size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfg.Size
}

// Buffer returns a copy of the RGBA intensity buffer, top row first.
func (f *TouchField) Buffer() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	data := f.pm.Data()
	out := make([]byte, len(data))
	copy(out, data)
	return out
}

// CopyBuffer copies the buffer into dst and returns the number of bytes copied.
func (f *TouchField) CopyBuffer(dst []byte) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copy(dst, f.pm.Data())
}

// Pixmap returns the underlying buffer. It must only be read between
// Update calls on the same goroutine.
func (f *TouchField) Pixmap() *gg.Pixmap {
	return f.pm
}

// Dirty reports whether the buffer changed since the last ClearDirty.
func (f *TouchField) Dirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dirty
}

// ClearDirty marks the buffer as consumed by the uploader.
func (f *TouchField) ClearDirty() {
	f.mu.Lock()
	f.dirty = false
	f.mu.Unlock()
}

// SampleUV returns the red channel at surface coordinates (u, v) in [0,1].
// Coordinates outside the surface sample the nearest edge.
func (f *TouchField) SampleUV(u, v float64) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sampleLocked(u, v)
}

// TouchSnapshot is a point-in-time copy of the intensity buffer for
// lock-free sampling by many readers in one frame.
type TouchSnapshot struct {
	size int
	data []byte
}

// Snapshot copies the buffer into s, reusing its storage.
func (f *TouchField) Snapshot(s *TouchSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data := f.pm.Data()
	if cap(s.data) < len(data) {
		s.data = make([]byte, len(data))
	}
	s.data = s.data[:len(data)]
	copy(s.data, data)
	s.size = f.cfg.Size
}

// Sample returns the red channel at (u, v), like TouchField.SampleUV.
// An empty snapshot samples zero.
func (s *TouchSnapshot) Sample(u, v float64) float64 {
	if s.size == 0 {
		return 0
	}
	return sampleRed(s.data, s.size, u, v)
}

func (f *TouchField) sampleLocked(u, v float64) float64 {
	return sampleRed(f.pm.Data(), f.cfg.Size, u, v)
}

// sampleRed reads the red channel of a square RGBA buffer at surface
// coordinates, clamping to the nearest edge. Row 0 is V = 1.
func sampleRed(data []byte, size int, u, v float64) float64 {
	x := clampInt(int(math.Floor(u*float64(size))), 0, size-1)
	y := clampInt(int(math.Floor((1-v)*float64(size))), 0, size-1)
	return float64(data[(y*size+x)*4]) / 255
}

// SetRadiusFraction changes the outer radius used from the next Update.
func (f *TouchField) SetRadiusFraction(r float64) {
	f.mu.Lock()
	f.cfg.RadiusFraction = r
	f.mu.Unlock()
}

// SetSensitivity changes the force multiplier for subsequent points.
func (f *TouchField) SetSensitivity(k float64) {
	f.mu.Lock()
	f.cfg.Sensitivity = k
	f.mu.Unlock()
}

// Reset drops every point and clears the buffer.
func (f *TouchField) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trail = f.trail[:0]
	f.pm.Clear(gg.Black)
	f.dirty = true
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
