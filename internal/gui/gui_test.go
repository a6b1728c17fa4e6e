package gui

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"
	"testing"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/swing/internal/dynamo"
)

// recorder stands in for raylib so the canvas can be tested without a window.
type recorder struct {
	ops []string
}

func (r *recorder) add(format string, args ...any) {
	r.ops = append(r.ops, fmt.Sprintf(format, args...))
}

func (r *recorder) ClearBackground(c color.RGBA) { r.add("clear") }

func (r *recorder) DrawRectangleV(pos, size rl.Vector2, c color.RGBA) {
	r.add("rect %.0f,%.0f %.0fx%.0f", pos.X, pos.Y, size.X, size.Y)
}

func (r *recorder) DrawLineEx(a, b rl.Vector2, thick float32, c color.RGBA) {
	r.add("line %.0f,%.0f %.0f,%.0f w%.0f #%02x%02x%02x", a.X, a.Y, b.X, b.Y, thick, c.R, c.G, c.B)
}

func (r *recorder) DrawCircleV(center rl.Vector2, radius float32, c color.RGBA) {
	r.add("disc %.0f,%.0f r%.0f #%02x%02x%02x", center.X, center.Y, radius, c.R, c.G, c.B)
}

func (r *recorder) DrawCircleSector(center rl.Vector2, radius, start, end float32, segments int32, c color.RGBA) {
	r.add("sector %.0f,%.0f r%.0f %.0f-%.0f", center.X, center.Y, radius, start, end)
}

func (r *recorder) DrawCircleSectorLines(center rl.Vector2, radius, start, end float32, segments int32, c color.RGBA) {
	r.add("arc %.0f,%.0f r%.0f %.0f-%.0f", center.X, center.Y, radius, start, end)
}

func (r *recorder) DrawText(text string, x, y, size int32, c color.RGBA) {
	r.add("text %s", text)
}

func (r *recorder) count(prefix string) int {
	n := 0
	for _, op := range r.ops {
		if strings.HasPrefix(op, prefix) {
			n++
		}
	}
	return n
}

func TestCanvasClear(t *testing.T) {
	rec := &recorder{}
	c := newCanvas(rec)
	c.SetBackingSize(200, 100)
	c.SetScale(2)

	c.ClearRect(0, 0, 100, 50)
	c.ClearRect(10, 10, 5, 5)

	want := []string{"clear", "rect 20,20 10x10"}
	if fmt.Sprint(rec.ops) != fmt.Sprint(want) {
		t.Errorf("ops = %v, want %v", rec.ops, want)
	}
}

func TestCanvasStrokeAndFill(t *testing.T) {
	rec := &recorder{}
	c := newCanvas(rec)
	c.SetBackingSize(200, 200)
	c.SetScale(2)
	c.SetLineWidth(2)
	c.SetStrokeColor(color.RGBA{0x66, 0x66, 0x66, 0xff})
	c.SetFillColor(color.RGBA{0x88, 0x88, 0x88, 0xff})

	c.BeginPath()
	c.MoveTo(10, 10)
	c.LineTo(20, 10)
	c.LineTo(math.NaN(), 0)
	c.Stroke()

	c.BeginPath()
	c.Arc(20, 10, 5, 0, 2*math.Pi)
	c.Arc(30, 10, 5, 0, math.Pi/2)
	c.Fill()

	want := []string{
		"line 20,20 40,20 w4 #666666",
		"disc 40,20 r10 #888888",
		"sector 60,20 r10 0-90",
	}
	if fmt.Sprint(rec.ops) != fmt.Sprint(want) {
		t.Errorf("ops = %v\nwant %v", rec.ops, want)
	}
}

func TestCanvasStrokeArc(t *testing.T) {
	rec := &recorder{}
	c := newCanvas(rec)
	c.BeginPath()
	c.Arc(5, 5, 3, 0, math.Pi)
	c.Stroke()
	if len(rec.ops) != 1 || rec.ops[0] != "arc 5,5 r3 0-180" {
		t.Errorf("ops = %v", rec.ops)
	}
}

func TestNewAppNeedsCanvas(t *testing.T) {
	if _, err := newApp(nil, nil); !errors.Is(err, dynamo.ErrSurfaceUnavailable) {
		t.Errorf("err = %v, want ErrSurfaceUnavailable", err)
	}
}

func TestAppFirstFrameSizesSurface(t *testing.T) {
	rec := &recorder{}
	a, err := newApp(newCanvas(rec), nil)
	if err != nil {
		t.Fatal(err)
	}
	a.ShowHUD = false

	if !a.Frame(Input{ScreenW: 800, ScreenH: 600, RenderW: 1600, Now: time.Now()}) {
		t.Fatal("first frame asked to close")
	}

	d := a.Stage().Dimensions()
	if d.Width != 800 || d.Height != 600 || d.PixelScale != 2 {
		t.Errorf("dims = %+v", d)
	}
	if a.Stage().Steps() != 0 {
		t.Errorf("idle app stepped %d times", a.Stage().Steps())
	}
	// resize draw, then the idle repaint
	if n := rec.count("disc 1050,400 r20"); n != 2 {
		t.Errorf("first bob drawn %d times: %v", n, rec.ops)
	}
}

func TestAppFramesAndPointer(t *testing.T) {
	rec := &recorder{}
	a, err := newApp(newCanvas(rec), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Stage().Start(); err != nil {
		t.Fatal(err)
	}

	in := Input{ScreenW: 800, ScreenH: 600, RenderW: 800, Now: time.Now()}
	a.Frame(in)
	a.Frame(in)
	if a.Stage().Steps() != 2 {
		t.Errorf("steps = %d, want 2", a.Stage().Steps())
	}
	if rec.count("text θ1") != 2 {
		t.Error("hud not drawn each frame")
	}

	in.Mouse = rl.NewVector2(100, 50)
	in.MouseMoved = true
	a.Frame(in)
	if p := a.Stage().Pivot(); p.X != 100 || p.Y != 50 {
		t.Errorf("pivot = %+v, want (100, 50)", p)
	}
	if f := a.Stage().Frame(); f.Pivot.X != 100 || f.Pivot.Y != 50 {
		t.Errorf("frame drawn from %+v", f.Pivot)
	}

	// a resize keeps the moved pivot
	in.Resized, in.ScreenW = true, 1000
	a.Frame(in)
	if p := a.Stage().Pivot(); p.X != 100 {
		t.Errorf("resize moved pivot to %+v", p)
	}
	if a.Stage().Dimensions().Width != 1000 {
		t.Error("resize not applied")
	}

	if a.Frame(Input{Quit: true}) {
		t.Error("quit input did not close")
	}
	a.Close()
	steps := a.Stage().Steps()
	a.Frame(in)
	if a.Stage().Steps() != steps {
		t.Error("frame ran after close")
	}
}
