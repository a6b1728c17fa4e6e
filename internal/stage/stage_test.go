package stage

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/san-kum/swing/internal/config"
	"github.com/san-kum/swing/internal/dynamo"
	"github.com/san-kum/swing/internal/loop"
	"github.com/san-kum/swing/internal/pivot"
	"github.com/san-kum/swing/internal/render"
	"github.com/san-kum/swing/internal/surface"
)

func mount(t *testing.T) (*Stage, *loop.Manual, *surface.Braille) {
	t.Helper()
	c := surface.NewBraille()
	sched := loop.NewManual()
	st, err := Mount(c, sched, config.DefaultConfig())
	if err != nil {
		t.Fatalf("mount failed: %v", err)
	}
	return st, sched, c
}

func near(a, b surface.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

func TestMountWithoutSurface(t *testing.T) {
	if _, err := Mount(nil, loop.NewManual(), nil); !errors.Is(err, dynamo.ErrSurfaceUnavailable) {
		t.Errorf("expected ErrSurfaceUnavailable, got %v", err)
	}
}

func TestMountInvalidParams(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Params.Mass1 = 0
	if _, err := Mount(surface.NewBraille(), loop.NewManual(), cfg); !errors.Is(err, dynamo.ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}
}

func TestResizeDrawsImmediately(t *testing.T) {
	st, sched, c := mount(t)

	st.Resize(600, 600, 1)

	if sched.Pending() != 0 {
		t.Error("resize must not start the loop")
	}
	if st.Pivot() != (pivot.Point{X: 300, Y: 200}) {
		t.Errorf("expected default pivot (300, 200), got %v", st.Pivot())
	}
	f := st.Frame()
	if !near(f.Bob1, surface.Vec{X: 425, Y: 200}, 1e-9) {
		t.Errorf("resize draw should show the untouched initial state, bob1 = %v", f.Bob1)
	}
	if !c.IsSet(350, 200) {
		t.Error("expected the first rod on the canvas after resize")
	}
}

func TestFirstFrameFromOrigin(t *testing.T) {
	st, sched, _ := mount(t)
	st.Resize(600, 600, 1)
	st.PointerMove(0, 0)

	var frames []render.Frame
	st.OnFrame(func(f render.Frame) { frames = append(frames, f) })

	if err := st.Start(); err != nil {
		t.Fatal(err)
	}
	sched.Fire(time.Now())

	if len(frames) != 1 {
		t.Fatalf("expected one frame, got %d", len(frames))
	}
	f := frames[0]
	if f.Pivot != (surface.Vec{}) {
		t.Errorf("pivot = %v, want origin", f.Pivot)
	}
	// one step moves theta1 by 0.004 rad: bob1 stays within half a pixel of (125, 0)
	if !near(f.Bob1, surface.Vec{X: 125, Y: 0}, 0.6) {
		t.Errorf("bob1 = %v, want ≈ (125, 0)", f.Bob1)
	}
	if f.Bob1.Y <= 0 {
		t.Errorf("the frame must show the integrated state, bob1.y = %g", f.Bob1.Y)
	}
	if st.Steps() != 1 {
		t.Errorf("expected one step, got %d", st.Steps())
	}
}

func TestPointerMoveAppliesOnNextFrame(t *testing.T) {
	st, sched, _ := mount(t)
	st.Resize(600, 600, 1)
	if err := st.Start(); err != nil {
		t.Fatal(err)
	}

	st.PointerMove(10, 20)
	st.PointerMove(40, 50)
	if st.Frame().Pivot != (surface.Vec{X: 300, Y: 200}) {
		t.Error("pointer moves must not redraw on their own")
	}

	sched.Fire(time.Now())
	if st.Frame().Pivot != (surface.Vec{X: 40, Y: 50}) {
		t.Errorf("expected the last pointer position, got %v", st.Frame().Pivot)
	}

	// a later resize keeps the pointer pivot
	st.Resize(1000, 1000, 2)
	if st.Pivot() != (pivot.Point{X: 40, Y: 50}) {
		t.Errorf("resize must not recentre after pointer input, got %v", st.Pivot())
	}
}

func TestUnmountStopsFrames(t *testing.T) {
	st, sched, _ := mount(t)
	st.Resize(200, 200, 1)
	if err := st.Start(); err != nil {
		t.Fatal(err)
	}
	if err := st.Start(); err != nil {
		t.Fatal(err)
	}
	sched.Fire(time.Now())

	draws := 0
	st.OnFrame(func(render.Frame) { draws++ })
	st.Unmount()

	for i := 0; i < 5; i++ {
		sched.Fire(time.Now())
	}
	if draws != 0 {
		t.Errorf("expected no draws after unmount, got %d", draws)
	}
	if st.Steps() != 1 {
		t.Errorf("expected the simulation to stop at 1 step, got %d", st.Steps())
	}
	if !errors.Is(st.Start(), dynamo.ErrDriverStopped) {
		t.Error("a stopped stage must not restart")
	}
}
