// Package tui streams the pendulum to a plain terminal. It needs no mouse
// or alternate screen; frames are driven by a timer and the pivot is either
// fixed or moved along a scripted orbit.
package tui

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/san-kum/swing/internal/config"
	"github.com/san-kum/swing/internal/loop"
	"github.com/san-kum/swing/internal/pivot"
	"github.com/san-kum/swing/internal/render"
	"github.com/san-kum/swing/internal/stage"
	"github.com/san-kum/swing/internal/surface"
)

const (
	DefaultCols = 70
	DefaultRows = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

type LiveRenderer struct {
	out    io.Writer
	cols   int
	canvas *surface.Braille
	sched  *loop.TickerScheduler
	stage  *stage.Stage
	home   pivot.Point

	// Orbit moves the pivot on a circle of this radius (logical pixels)
	// around its default position. Zero keeps it still.
	Orbit       float64
	OrbitPeriod time.Duration

	mu     sync.Mutex
	frames int
}

func NewLiveRenderer(out io.Writer, cfg *config.Config, cols, rows int) (*LiveRenderer, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if cols <= 0 {
		cols = DefaultCols
	}
	if rows <= 0 {
		rows = DefaultRows
	}

	r := &LiveRenderer{
		out:         out,
		cols:        cols,
		canvas:      surface.NewBraille(),
		sched:       loop.NewTickerScheduler(cfg.FPS),
		OrbitPeriod: 4 * time.Second,
	}
	st, err := stage.Mount(r.canvas, r.sched, cfg)
	if err != nil {
		return nil, err
	}
	r.stage = st

	dotsW, dotsH := float64(cols*2), float64(rows*4)
	scale := cfg.Scale
	if scale <= 0 {
		scale = render.FitScale(dotsW, dotsH, st.Params(), st.Renderer().BobRadius)
	}
	st.Resize(dotsW/scale, dotsH/scale, scale)
	r.home = st.Pivot()
	st.OnFrame(r.render)
	return r, nil
}

func (r *LiveRenderer) Stage() *stage.Stage { return r.stage }

// Frames is the number of frames written so far.
func (r *LiveRenderer) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Run streams frames until ctx is done, then unmounts the stage.
func (r *LiveRenderer) Run(ctx context.Context) error {
	fmt.Fprint(r.out, hideCursor)
	defer fmt.Fprint(r.out, showCursor)

	if err := r.stage.Start(); err != nil {
		return err
	}
	log.Printf("tui: streaming at %v per frame", r.sched.Interval())

	var wg sync.WaitGroup
	if r.Orbit > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.orbit(ctx)
		}()
	}

	<-ctx.Done()
	r.stage.Unmount()
	wg.Wait()
	log.Printf("tui: stopped after %d steps", r.stage.Steps())
	return nil
}

func (r *LiveRenderer) orbit(ctx context.Context) {
	t := time.NewTicker(r.sched.Interval())
	defer t.Stop()
	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			phase := 2 * math.Pi * now.Sub(start).Seconds() / r.OrbitPeriod.Seconds()
			sin, cos := math.Sincos(phase)
			r.stage.PointerMove(r.home.X+r.Orbit*cos, r.home.Y+r.Orbit*sin)
		}
	}
}

func (r *LiveRenderer) render(f render.Frame) {
	s := r.stage.State()

	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  double pendulum  step=%d  E=%.3f\n", r.stage.Steps(), r.stage.Energy()))
	b.WriteString("  " + strings.Repeat("-", r.cols) + "\n")

	for _, line := range strings.SplitAfter(strings.TrimSuffix(r.canvas.String(), "\n"), "\n") {
		b.WriteString("  ")
		b.WriteString(line)
	}
	b.WriteString("\n")

	b.WriteString("  " + strings.Repeat("-", r.cols) + "\n")
	b.WriteString(fmt.Sprintf("  θ1=%+.3f θ2=%+.3f ω1=%+.4f ω2=%+.4f  pivot=(%.0f,%.0f)\n",
		s.Theta1, s.Theta2, s.Omega1, s.Omega2, f.Pivot.X, f.Pivot.Y))

	r.mu.Lock()
	r.frames++
	r.mu.Unlock()
	fmt.Fprint(r.out, b.String())
}
