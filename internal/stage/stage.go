// Package stage wires the simulation, pivot tracker, surface manager,
// renderer and loop driver into one mountable unit. Hosts mount a stage on
// their drawing surface, forward pointer and resize events to it and unmount
// it on teardown.
//
// A stage is driven from a single goroutine: the host delivers events and
// fires frames on the same goroutine (loop.Manual), or uses a timer-driven
// scheduler and only forwards pointer moves, which the tracker publishes
// atomically.
package stage

import (
	"time"

	"github.com/san-kum/swing/internal/config"
	"github.com/san-kum/swing/internal/dynamo"
	"github.com/san-kum/swing/internal/loop"
	"github.com/san-kum/swing/internal/physics"
	"github.com/san-kum/swing/internal/pivot"
	"github.com/san-kum/swing/internal/render"
	"github.com/san-kum/swing/internal/sim"
	"github.com/san-kum/swing/internal/surface"
)

type Stage struct {
	sim      *sim.Simulation
	pivot    *pivot.Tracker
	surface  *surface.Manager
	renderer *render.Renderer
	driver   *loop.Driver
	last     render.Frame
	onFrame  []func(render.Frame)
}

// Mount builds a stage on target. The loop is not started; call Resize and
// then Start.
func Mount(target surface.Target, sched loop.Scheduler, cfg *config.Config) (*Stage, error) {
	if target == nil {
		return nil, dynamo.ErrSurfaceUnavailable
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s, err := sim.New(cfg.Params)
	if err != nil {
		return nil, err
	}
	s.WithState(cfg.GetInitState())

	st := &Stage{
		sim:      s,
		pivot:    pivot.NewTracker(pivot.Point{}),
		renderer: render.New(),
	}
	st.surface = surface.NewManager(target, st.resized)
	st.driver = loop.NewDriver(sched, st.frame)
	return st, nil
}

func (st *Stage) Start() error { return st.driver.Start() }

// Unmount stops the loop and waits for a frame already in progress. The
// stage cannot be restarted. Unmount must not be called from a frame hook.
func (st *Stage) Unmount() {
	st.driver.Stop()
	st.driver.Wait()
}

// Resize forwards a viewport change and redraws at once.
func (st *Stage) Resize(width, height, scale float64) surface.Dimensions {
	return st.surface.Resize(width, height, scale)
}

// PointerMove moves the pivot. The next frame picks it up.
func (st *Stage) PointerMove(x, y float64) {
	st.pivot.Set(pivot.Point{X: x, Y: y})
}

// OnFrame registers fn to run after every draw.
func (st *Stage) OnFrame(fn func(render.Frame)) {
	st.onFrame = append(st.onFrame, fn)
}

func (st *Stage) resized(d surface.Dimensions) {
	st.pivot.Recenter(d)
	st.draw()
}

// frame integrates, damps and then draws the new state.
func (st *Stage) frame(time.Time) {
	st.sim.Step()
	st.draw()
}

// Redraw draws the current state again without stepping, for hosts that
// must repaint every buffer swap.
func (st *Stage) Redraw() { st.draw() }

func (st *Stage) draw() {
	st.last = st.renderer.Draw(st.surface.Context(), st.sim.State(), st.sim.Params(), st.pivot.Get(), st.surface.Dimensions())
	for _, fn := range st.onFrame {
		fn(st.last)
	}
}

func (st *Stage) Frame() render.Frame            { return st.last }
func (st *Stage) State() dynamo.State            { return st.sim.State() }
func (st *Stage) Params() dynamo.Params          { return st.sim.Params() }
func (st *Stage) Energy() float64                { return st.sim.Energy() }
func (st *Stage) Steps() int                     { return st.sim.Steps() }
func (st *Stage) Pivot() pivot.Point             { return st.pivot.Get() }
func (st *Stage) Dimensions() surface.Dimensions { return st.surface.Dimensions() }
func (st *Stage) Driver() *loop.Driver           { return st.driver }
func (st *Stage) Renderer() *render.Renderer     { return st.renderer }

// Dynamics exposes the pendulum model, for metrics that need its energy.
func (st *Stage) Dynamics() *physics.DoublePendulum { return st.sim.Dynamics() }

// AddMetric attaches a per-step metric to the simulation.
func (st *Stage) AddMetric(m sim.Metric) { st.sim.AddMetric(m) }
