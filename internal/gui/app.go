// Package gui hosts the pendulum in a raylib window. The window is the
// drawing surface: the mouse position drives the pivot and window resizes
// resize the surface.
package gui

import (
	"fmt"
	"log"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/swing/internal/config"
	"github.com/san-kum/swing/internal/dynamo"
	"github.com/san-kum/swing/internal/loop"
	"github.com/san-kum/swing/internal/stage"
)

const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// Input is what the host polls from the window once per loop iteration.
type Input struct {
	ScreenW, ScreenH int
	RenderW          int
	Mouse            rl.Vector2
	MouseMoved       bool
	Resized          bool
	Quit             bool
	Now              time.Time
}

type App struct {
	stage   *stage.Stage
	sched   *loop.Manual
	canvas  *Canvas
	sized   bool
	ShowHUD bool
}

func NewApp(cfg *config.Config) (*App, error) {
	return newApp(newCanvas(rlPainter{}), cfg)
}

func newApp(canvas *Canvas, cfg *config.Config) (*App, error) {
	if canvas == nil {
		return nil, dynamo.ErrSurfaceUnavailable
	}
	a := &App{sched: loop.NewManual(), canvas: canvas, ShowHUD: true}
	st, err := stage.Mount(canvas, a.sched, cfg)
	if err != nil {
		return nil, err
	}
	a.stage = st
	return a, nil
}

func (a *App) Stage() *stage.Stage { return a.stage }

// Frame handles one loop iteration's input and runs the due frame. It must
// be called between rl.BeginDrawing and rl.EndDrawing. It reports false
// once the app should close.
func (a *App) Frame(in Input) bool {
	if in.Quit {
		return false
	}

	if in.Resized || !a.sized {
		a.resize(in)
	}
	if in.MouseMoved {
		a.stage.PointerMove(float64(in.Mouse.X), float64(in.Mouse.Y))
	}

	if a.sched.Fire(in.Now) == 0 {
		// nothing due; raylib still needs the frame drawn
		a.stage.Redraw()
	}
	if a.ShowHUD {
		a.hud()
	}
	return true
}

// resize maps the window to logical pixels. Mouse and screen sizes are in
// screen coordinates; the render/screen ratio is the pixel scale.
func (a *App) resize(in Input) {
	scale := 1.0
	if in.ScreenW > 0 && in.RenderW > 0 {
		scale = float64(in.RenderW) / float64(in.ScreenW)
	}
	d := a.stage.Resize(float64(in.ScreenW), float64(in.ScreenH), scale)
	a.sized = true
	log.Printf("gui: resized to %.0fx%.0f at %.2fx", d.Width, d.Height, d.PixelScale)
}

func (a *App) hud() {
	s := a.stage.State()
	a.canvas.Text(fmt.Sprintf("θ1 %+.3f  θ2 %+.3f", s.Theta1, s.Theta2), 10, 10, 20, ColText)
	a.canvas.Text(fmt.Sprintf("E %.2f  step %d", a.stage.Energy(), a.stage.Steps()), 10, 34, 20, ColText)
	a.canvas.Text("move the mouse to drag the pivot · H hud · Q quit", 10, 58, 10, ColTextDim)
}

// Close unmounts the stage.
func (a *App) Close() {
	a.stage.Unmount()
	log.Printf("gui: unmounted after %d steps", a.stage.Steps())
}

func poll() Input {
	delta := rl.GetMouseDelta()
	return Input{
		ScreenW:    rl.GetScreenWidth(),
		ScreenH:    rl.GetScreenHeight(),
		RenderW:    rl.GetRenderWidth(),
		Mouse:      rl.GetMousePosition(),
		MouseMoved: delta.X != 0 || delta.Y != 0,
		Resized:    rl.IsWindowResized(),
		Quit:       rl.IsKeyPressed(rl.KeyQ),
		Now:        time.Now(),
	}
}

// Run opens a resizable window and animates the pendulum until it is
// closed.
func Run(cfg *config.Config) error {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(DefaultWidth, DefaultHeight, "swing")
	if !rl.IsWindowReady() {
		return fmt.Errorf("gui: open window: %w", dynamo.ErrSurfaceUnavailable)
	}
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.FPS))

	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	if err := app.stage.Start(); err != nil {
		return err
	}

	for !rl.WindowShouldClose() {
		in := poll()
		if rl.IsKeyPressed(rl.KeyH) {
			app.ShowHUD = !app.ShowHUD
		}
		rl.BeginDrawing()
		ok := app.Frame(in)
		rl.EndDrawing()
		if !ok {
			break
		}
	}
	return nil
}
