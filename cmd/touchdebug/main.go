// Touch debug tool - rasterizes a scripted stroke into the touch field and
// writes the intensity buffer to a PNG file for inspection. With -image it
// also reports the visibility mask of that image.
//
// Usage: go run ./cmd/touchdebug -out touch.png -steps 90 -image photo.png
package main

import (
	"flag"
	"log/slog"
	"math/rand"
	"os"

	"github.com/pthm-cable/dissolve/bitmap"
	"github.com/pthm-cable/dissolve/config"
	"github.com/pthm-cable/dissolve/systems"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outPath := flag.String("out", "touch.png", "Output PNG path")
	steps := flag.Int("steps", 90, "Ticks of scripted pointer movement")
	settle := flag.Int("settle", 0, "Extra ticks with no movement before saving")
	period := flag.Float64("period", 3, "Seconds per figure-eight loop")
	imagePath := flag.String("image", "", "Optional image to report mask stats for")
	threshold := flag.Int("threshold", -1, "Alpha threshold override (-1 = use config)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	field := systems.NewTouchField(systems.TouchFieldConfig{
		Size:           cfg.Touch.Size,
		MaxAge:         cfg.Touch.MaxAge,
		RadiusFraction: cfg.Touch.RadiusFraction,
		Sensitivity:    cfg.Touch.Sensitivity,
		PeakAlpha:      cfg.Touch.PeakAlpha,
	})

	// The script runs in a unit square with Y down; flip to surface V.
	script := systems.NewPointerScript(systems.Bounds{Width: 1, Height: 1}, *period)
	for i := 0; i < *steps; i++ {
		x, y := script.Next(cfg.Derived.DT)
		field.AddTouch(x, 1-y)
		field.Update()
	}
	for i := 0; i < *settle; i++ {
		field.Update()
	}

	if err := field.Pixmap().SavePNG(*outPath); err != nil {
		slog.Error("failed to write PNG", "path", *outPath, "error", err)
		os.Exit(1)
	}
	slog.Info("touch field written",
		"path", *outPath,
		"size", field.Size(),
		"points", field.Len(),
		"state", field.State().String(),
	)

	if *imagePath == "" {
		return
	}

	img, err := bitmap.Load(*imagePath, cfg.Image.MaxSize)
	if err != nil {
		slog.Error("failed to load image", "path", *imagePath, "error", err)
		os.Exit(1)
	}
	th := cfg.Mask.Threshold
	if *threshold >= 0 {
		th = *threshold
	}
	mask := systems.VisibilityFromImage(img, th, rand.New(rand.NewSource(1)))
	total := mask.Width * mask.Height
	var ratio float64
	if total > 0 {
		ratio = float64(mask.NumVisible) / float64(total)
	}
	slog.Info("visibility mask",
		"path", *imagePath,
		"width", mask.Width,
		"height", mask.Height,
		"threshold", th,
		"visible", mask.NumVisible,
		"ratio", ratio,
	)
}
