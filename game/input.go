package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// handleInput processes keyboard input and window resizes.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	if rl.IsKeyPressed(rl.KeyR) {
		g.startIntro()
	}

	if rl.IsFileDropped() {
		files := rl.LoadDroppedFiles()
		if len(files) > 0 {
			g.LoadImage(files[0])
		}
		rl.UnloadDroppedFiles()
	}

	g.overlays.HandleKeys()
}

// handlePointer feeds the mouse, or the first touch point when present,
// to the pointer mapper. Only actual movement counts as an event.
func (g *Game) handlePointer() {
	var pos rl.Vector2
	if rl.GetTouchPointCount() > 0 {
		pos = rl.GetTouchPosition(0)
	} else {
		delta := rl.GetMouseDelta()
		if delta.X == 0 && delta.Y == 0 {
			return
		}
		pos = rl.GetMousePosition()
	}
	g.collector.RecordMove(g.mapper.HandleMove(float64(pos.X), float64(pos.Y)))
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(float64(w), float64(h))
	g.mapper.Resize()

	g.perfPanel.SetPosition(int32(w)-270, 10)
	g.tuning.SetPosition(int32(w)-300, 10)
}
