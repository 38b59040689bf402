// Package components defines ECS components for the particle cloud.
package components

import "image/color"

// Pixel identifies the source pixel a particle was spawned from.
type Pixel struct {
	Index int32 // Row-major index into the source image
	X, Y  int32
}

// Anchor is the particle's rest position in surface coordinates.
type Anchor struct {
	U, V float64
}

// Spin holds the particle's random push direction in radians, [0, π).
type Spin struct {
	Angle float64
}

// Tint is the source pixel colour carried by the particle.
type Tint struct {
	Color color.RGBA
	Grey  float64 // Perceptual luminance in [0,1]
}
