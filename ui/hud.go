package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	ImageName    string
	Particles    int
	Pixels       int
	TouchPoints  int
	TouchState   string
	Uploads      int // Touch texture refreshes
	Intensity    float32 // Touch buffer sample under the cursor
	Tick         int32
	FPS          int32
	Paused       bool
	Intro        bool
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("%s | Particles: %d / %d px", data.ImageName, data.Particles, data.Pixels),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | FPS: %d | Touch: %s (%d pts, %d uploads)", data.Tick, data.FPS, data.TouchState, data.TouchPoints, data.Uploads),
		10, 55, 16, rl.LightGray,
	)

	h.renderer.DrawBar(10, 78, "Intensity", data.Intensity, 260)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	} else if data.Intro {
		statusText = "Intro"
	}
	rl.DrawText(statusText, 10, 98, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// DrawCursor draws the follow cursor as a ring with its top-left corner at (x, y).
func (h *HUD) DrawCursor(x, y, size float32) {
	r := size / 2
	rl.DrawCircleLines(int32(x+r), int32(y+r), r, rl.Color{R: 255, G: 255, B: 255, A: 160})
}

// PerfPanelData holds frame timing for display.
type PerfPanelData struct {
	PhaseAvg map[string]time.Duration
	Total    time.Duration
	FPS      float64
}

// PerfPanel renders the per-phase frame timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the panel with phases in the given order.
func (p *PerfPanel) Draw(data PerfPanelData, phases []string) {
	r := p.renderer
	height := int32(len(phases)+3)*14 + r.Theme.Padding*2
	r.DrawPanel(p.x, p.y, 260, height)

	x := p.x + r.Theme.Padding
	y := p.y + r.Theme.Padding

	rl.DrawText("Frame Timing", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Total: %s  (%.0f fps)", data.Total.Round(time.Microsecond), data.FPS), x, y, 14, rl.Yellow)
	y += 16

	for _, name := range phases {
		avg := data.PhaseAvg[name]
		pct := float64(0)
		if data.Total > 0 {
			pct = float64(avg) / float64(data.Total) * 100
		}

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-13s %8s %5.1f%%", name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
