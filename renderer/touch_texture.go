package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dissolve/systems"
)

// TouchTexture mirrors the touch field's intensity buffer on the GPU.
// The buffer is only uploaded when the field reports it changed.
type TouchTexture struct {
	texture rl.Texture2D
	size    int
	buf     []byte
	pixels  []color.RGBA

	uploads     int
	initialized bool
}

// NewTouchTexture creates a texture holder for a size×size field.
func NewTouchTexture(size int) *TouchTexture {
	return &TouchTexture{
		size:   size,
		buf:    make([]byte, size*size*4),
		pixels: make([]color.RGBA, size*size),
	}
}

// Init allocates the GPU texture (must be called after the raylib window is created).
func (t *TouchTexture) Init() {
	if t.initialized {
		return
	}
	img := rl.GenImageColor(t.size, t.size, rl.Black)
	t.texture = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(t.texture, rl.FilterBilinear)
	t.initialized = true
}

// Sync uploads the field's buffer if it is dirty and marks it consumed.
// Returns whether an upload happened.
func (t *TouchTexture) Sync(field *systems.TouchField) bool {
	if !field.Dirty() {
		return false
	}
	if !t.initialized {
		t.Init()
	}

	n := field.CopyBuffer(t.buf)
	for i := 0; i*4+3 < n && i < len(t.pixels); i++ {
		o := i * 4
		t.pixels[i] = color.RGBA{R: t.buf[o], G: t.buf[o+1], B: t.buf[o+2], A: t.buf[o+3]}
	}
	rl.UpdateTexture(t.texture, t.pixels)
	field.ClearDirty()
	t.uploads++
	return true
}

// Uploads returns how many times the texture has been refreshed.
func (t *TouchTexture) Uploads() int {
	return t.uploads
}

// DrawOverlay renders the intensity buffer as a debug inset.
// Row 0 of the buffer is the top of the surface, so no flip is needed.
func (t *TouchTexture) DrawOverlay(x, y, side float32, alpha uint8) {
	if !t.initialized {
		return
	}
	src := rl.Rectangle{Width: float32(t.size), Height: float32(t.size)}
	dst := rl.Rectangle{X: x, Y: y, Width: side, Height: side}
	rl.DrawTexturePro(t.texture, src, dst, rl.Vector2{}, 0, rl.Color{R: 255, G: 255, B: 255, A: alpha})
	rl.DrawRectangleLines(int32(x), int32(y), int32(side), int32(side), rl.DarkGray)
}

// Unload releases GPU resources.
func (t *TouchTexture) Unload() {
	if t.initialized {
		rl.UnloadTexture(t.texture)
		t.initialized = false
	}
}
