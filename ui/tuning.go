package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// TuningValues are the live-adjustable touch and particle parameters.
type TuningValues struct {
	RadiusFraction float32
	Sensitivity    float32
	TouchPush      float32
	SpriteSize     float32
}

// TuningResult reports what the user changed this frame.
type TuningResult struct {
	Values  TuningValues
	Changed bool
	Reset   bool // Clear the touch trail
	Replay  bool // Restart the intro ramp
}

// TuningPanel renders raygui sliders for touch and particle parameters.
type TuningPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewTuningPanel creates a tuning panel.
func NewTuningPanel(x, y, width int32) *TuningPanel {
	return &TuningPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *TuningPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the panel and returns the possibly edited values.
func (p *TuningPanel) Draw(v TuningValues) TuningResult {
	r := p.renderer
	pad := float32(r.Theme.Padding)
	r.DrawPanel(p.x, p.y, p.width, 260)

	res := TuningResult{Values: v}
	x := float32(p.x) + pad
	y := float32(p.y) + pad
	sliderW := float32(p.width) - pad*2 - 50

	rl.DrawText("Tuning", int32(x), int32(y), 16, rl.White)
	y += 26

	slider := func(label string, val *float32, min, max float32, format string) {
		rl.DrawText(label, int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
		y += 14
		nv := gui.SliderBar(
			rl.Rectangle{X: x, Y: y, Width: sliderW, Height: 16},
			"", "",
			*val, min, max,
		)
		rl.DrawText(fmt.Sprintf(format, *val), int32(x+sliderW+6), int32(y+2), r.Theme.FontSize, r.Theme.ValueColor)
		if nv != *val {
			*val = nv
			res.Changed = true
		}
		y += 26
	}

	slider("Touch radius (fraction of field)", &res.Values.RadiusFraction, 0.02, 0.5, "%.2f")
	slider("Sensitivity", &res.Values.Sensitivity, 100, 50000, "%.0f")
	slider("Touch push", &res.Values.TouchPush, 0, 60, "%.1f")
	slider("Sprite size", &res.Values.SpriteSize, 0.2, 4, "%.2f")

	y += 4
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 110, Height: 26}, "Clear Trail") {
		res.Reset = true
	}
	if gui.Button(rl.Rectangle{X: x + 120, Y: y, Width: 110, Height: 26}, "Replay Intro") {
		res.Replay = true
	}

	return res
}
