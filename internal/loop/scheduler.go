package loop

import (
	"sync"
	"time"
)

// Handle identifies a scheduled callback. The zero Handle means none.
type Handle uint64

// Scheduler runs a callback once at the next frame boundary. Schedule must
// not invoke fn before it returns.
type Scheduler interface {
	Schedule(fn func(now time.Time)) Handle
	Cancel(h Handle)
}

type entry struct {
	h  Handle
	fn func(time.Time)
}

// Manual queues callbacks until the host calls Fire. Hosts that own their
// frame pump (a bubbletea program, a raylib window) use it to run frames on
// their own goroutine.
type Manual struct {
	mu        sync.Mutex
	next      Handle
	queue     []entry
	scheduled int
	canceled  int
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Schedule(fn func(time.Time)) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	m.queue = append(m.queue, entry{h: m.next, fn: fn})
	m.scheduled++
	return m.next
}

func (m *Manual) Cancel(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.queue {
		if e.h == h {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			m.canceled++
			return
		}
	}
}

// Fire runs every callback queued before the call and returns how many ran.
// Callbacks scheduled while firing wait for the next Fire.
func (m *Manual) Fire(now time.Time) int {
	m.mu.Lock()
	due := m.queue
	m.queue = nil
	m.mu.Unlock()

	for _, e := range due {
		e.fn(now)
	}
	return len(due)
}

// Pending is the number of callbacks waiting for Fire.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Scheduled is the total number of Schedule calls.
func (m *Manual) Scheduled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scheduled
}

func (m *Manual) Canceled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.canceled
}

// TickerScheduler fires each callback one frame interval after it was
// scheduled, on a timer goroutine.
type TickerScheduler struct {
	interval time.Duration
	mu       sync.Mutex
	next     Handle
	timers   map[Handle]*time.Timer
}

func NewTickerScheduler(fps int) *TickerScheduler {
	if fps <= 0 {
		fps = 60
	}
	return &TickerScheduler{
		interval: time.Second / time.Duration(fps),
		timers:   make(map[Handle]*time.Timer),
	}
}

func (t *TickerScheduler) Interval() time.Duration { return t.interval }

func (t *TickerScheduler) Schedule(fn func(time.Time)) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	h := t.next
	t.timers[h] = time.AfterFunc(t.interval, func() {
		t.mu.Lock()
		_, live := t.timers[h]
		delete(t.timers, h)
		t.mu.Unlock()
		if live {
			fn(time.Now())
		}
	})
	return h
}

func (t *TickerScheduler) Cancel(h Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if timer, ok := t.timers[h]; ok {
		timer.Stop()
		delete(t.timers, h)
	}
}

// Outstanding is the number of timers that have neither fired nor been
// cancelled.
func (t *TickerScheduler) Outstanding() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.timers)
}
