package export

import (
	"time"

	"github.com/san-kum/swing/internal/config"
	"github.com/san-kum/swing/internal/loop"
	"github.com/san-kum/swing/internal/pivot"
	"github.com/san-kum/swing/internal/stage"
	"github.com/san-kum/swing/internal/surface"
)

// brailleDot is the SVG size of one braille dot.
const brailleDot = 4.0

// SnapshotOptions sizes the viewport of a snapshot. A nil Pivot keeps the
// default position.
type SnapshotOptions struct {
	Width, Height float64
	Scale         float64
	Frames        int
	Pivot         *pivot.Point
}

// Snapshot mounts a stage on an SVG surface, runs Frames frames and returns
// the drawing of the last one. Zero frames yields the mount-time draw.
func Snapshot(cfg *config.Config, opts SnapshotOptions) (*SVG, *stage.Stage, error) {
	svg := NewSVG()
	st, err := capture(svg, cfg, opts)
	if err != nil {
		return nil, nil, err
	}
	return svg, st, nil
}

// BrailleSnapshot draws the frame through the terminal canvas and returns
// the dots as SVG, showing what the terminal host would display.
func BrailleSnapshot(cfg *config.Config, opts SnapshotOptions) (string, error) {
	canvas := surface.NewBraille()
	if _, err := capture(canvas, cfg, opts); err != nil {
		return "", err
	}
	return CanvasToSVG(canvas, brailleDot), nil
}

func capture(target surface.Target, cfg *config.Config, opts SnapshotOptions) (*stage.Stage, error) {
	sched := loop.NewManual()
	st, err := stage.Mount(target, sched, cfg)
	if err != nil {
		return nil, err
	}
	defer st.Unmount()

	st.Resize(opts.Width, opts.Height, opts.Scale)
	if opts.Pivot != nil {
		st.PointerMove(opts.Pivot.X, opts.Pivot.Y)
	}
	if opts.Frames <= 0 {
		return st, nil
	}
	if err := st.Start(); err != nil {
		return nil, err
	}
	now := time.Now()
	interval := time.Second / 60
	for i := 0; i < opts.Frames; i++ {
		sched.Fire(now.Add(time.Duration(i) * interval))
	}
	return st, nil
}
