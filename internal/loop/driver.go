package loop

import (
	"sync"
	"time"

	"github.com/san-kum/swing/internal/dynamo"
)

type State int

const (
	Idle State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

type FrameFunc func(now time.Time)

type Driver struct {
	mu       sync.Mutex
	sched    Scheduler
	frame    FrameFunc
	state    State
	pending  Handle
	gen      uint64
	frames   int
	inFlight sync.WaitGroup
}

func NewDriver(sched Scheduler, frame FrameFunc) *Driver {
	return &Driver{sched: sched, frame: frame}
}

// Start schedules the first frame. Starting a running driver is a no-op;
// starting a stopped one returns dynamo.ErrDriverStopped.
func (d *Driver) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case Running:
		return nil
	case Stopped:
		return dynamo.ErrDriverStopped
	}
	d.state = Running
	if d.pending == 0 {
		d.scheduleLocked()
	}
	return nil
}

// Stop cancels the pending frame. No frame callback runs after Stop returns,
// except one that had already begun.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == Stopped {
		return
	}
	if d.pending != 0 {
		d.sched.Cancel(d.pending)
		d.pending = 0
	}
	d.state = Stopped
}

// scheduleLocked tags each callback with a generation so a timer that fires
// after being replaced or cancelled is recognised as stale.
func (d *Driver) scheduleLocked() {
	d.gen++
	gen := d.gen
	d.pending = d.sched.Schedule(func(now time.Time) { d.fire(gen, now) })
}

func (d *Driver) fire(gen uint64, now time.Time) {
	d.mu.Lock()
	if d.state != Running || d.pending == 0 || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.pending = 0
	d.frames++
	d.inFlight.Add(1)
	d.mu.Unlock()

	func() {
		defer d.inFlight.Done()
		d.frame(now)
	}()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Running && d.pending == 0 {
		d.scheduleLocked()
	}
}

// Wait blocks until a frame that began before Stop has returned. It must not
// be called from a frame callback.
func (d *Driver) Wait() {
	d.inFlight.Wait()
}

func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Pending returns the live schedule handle, or zero.
func (d *Driver) Pending() Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Frames is the number of frame callbacks run so far.
func (d *Driver) Frames() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}
