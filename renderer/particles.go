package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// spriteTextureSize is the side of the generated soft-dot texture.
const spriteTextureSize = 32

// Sprite is one particle projected to screen space.
type Sprite struct {
	X, Y  float32 // Center in screen pixels
	Size  float32 // Side in screen pixels
	Color rl.Color
}

// ParticleRenderer draws particles as soft round sprites.
type ParticleRenderer struct {
	texture     rl.Texture2D
	initialized bool
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{}
}

// Init creates the sprite texture (must be called after the raylib window is created).
func (r *ParticleRenderer) Init() {
	if r.initialized {
		return
	}
	img := rl.GenImageGradientRadial(spriteTextureSize, spriteTextureSize, 0.3, rl.White, rl.Blank)
	r.texture = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(r.texture, rl.FilterBilinear)
	r.initialized = true
}

// Draw renders all sprites. Sprites smaller than half a pixel are skipped.
func (r *ParticleRenderer) Draw(sprites []Sprite) {
	if !r.initialized {
		r.Init()
	}

	src := rl.Rectangle{Width: spriteTextureSize, Height: spriteTextureSize}
	for i := range sprites {
		s := &sprites[i]
		if s.Size < 0.5 {
			continue
		}
		dst := rl.Rectangle{
			X:      s.X - s.Size/2,
			Y:      s.Y - s.Size/2,
			Width:  s.Size,
			Height: s.Size,
		}
		rl.DrawTexturePro(r.texture, src, dst, rl.Vector2{}, 0, s.Color)
	}
}

// Unload releases GPU resources.
func (r *ParticleRenderer) Unload() {
	if r.initialized {
		rl.UnloadTexture(r.texture)
		r.initialized = false
	}
}
