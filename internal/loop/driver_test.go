package loop_test

import (
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/swing/internal/dynamo"
	"github.com/san-kum/swing/internal/loop"
)

var _ = Describe("Driver", func() {
	var (
		sched  *loop.Manual
		driver *loop.Driver
		draws  int
	)

	BeforeEach(func() {
		draws = 0
		sched = loop.NewManual()
		driver = loop.NewDriver(sched, func(time.Time) { draws++ })
	})

	It("starts idle with nothing scheduled", func() {
		Expect(driver.State()).To(Equal(loop.Idle))
		Expect(driver.Pending()).To(BeZero())
		Expect(sched.Pending()).To(BeZero())
	})

	Describe("Start", func() {
		It("schedules exactly one frame", func() {
			Expect(driver.Start()).To(Succeed())
			Expect(driver.State()).To(Equal(loop.Running))
			Expect(sched.Pending()).To(Equal(1))
			Expect(driver.Pending()).NotTo(BeZero())
		})

		It("ignores a second start while running", func() {
			Expect(driver.Start()).To(Succeed())
			Expect(driver.Start()).To(Succeed())
			Expect(sched.Scheduled()).To(Equal(1))
			Expect(sched.Pending()).To(Equal(1))

			sched.Fire(time.Now())
			Expect(draws).To(Equal(1))
			Expect(sched.Pending()).To(Equal(1))
		})

		It("refuses to restart after stop", func() {
			Expect(driver.Start()).To(Succeed())
			driver.Stop()
			Expect(driver.Start()).To(MatchError(dynamo.ErrDriverStopped))
			Expect(sched.Pending()).To(BeZero())
		})
	})

	Describe("frames", func() {
		It("reschedules itself after every frame", func() {
			Expect(driver.Start()).To(Succeed())
			for i := 1; i <= 10; i++ {
				Expect(sched.Fire(time.Now())).To(Equal(1))
				Expect(draws).To(Equal(i))
				Expect(sched.Pending()).To(Equal(1))
			}
			Expect(driver.Frames()).To(Equal(10))
		})

		It("does not schedule twice when start is called from inside a frame", func() {
			var d *loop.Driver
			d = loop.NewDriver(sched, func(time.Time) {
				draws++
				Expect(d.Start()).To(Succeed())
			})
			Expect(d.Start()).To(Succeed())
			sched.Fire(time.Now())
			Expect(sched.Pending()).To(Equal(1))
		})
	})

	Describe("Stop", func() {
		It("cancels the pending frame so no draw happens afterwards", func() {
			Expect(driver.Start()).To(Succeed())
			sched.Fire(time.Now())
			Expect(draws).To(Equal(1))

			driver.Stop()
			Expect(driver.State()).To(Equal(loop.Stopped))
			Expect(sched.Canceled()).To(Equal(1))
			Expect(sched.Fire(time.Now())).To(BeZero())
			Expect(draws).To(Equal(1))
		})

		It("ends the chain when called from inside a frame", func() {
			var d *loop.Driver
			d = loop.NewDriver(sched, func(time.Time) {
				draws++
				d.Stop()
			})
			Expect(d.Start()).To(Succeed())
			sched.Fire(time.Now())
			Expect(draws).To(Equal(1))
			Expect(sched.Pending()).To(BeZero())
			Expect(d.State()).To(Equal(loop.Stopped))
		})

		It("is idempotent and valid from idle", func() {
			driver.Stop()
			driver.Stop()
			Expect(driver.State()).To(Equal(loop.Stopped))
			Expect(sched.Scheduled()).To(BeZero())
		})
	})

	Describe("stale callbacks", func() {
		It("ignores a callback that was cancelled but still fires", func() {
			leaky := &leakyScheduler{}
			d := loop.NewDriver(leaky, func(time.Time) { draws++ })
			Expect(d.Start()).To(Succeed())
			d.Stop()

			leaky.fireAll()
			Expect(draws).To(BeZero())
		})
	})
})

var _ = Describe("TickerScheduler", func() {
	It("drives frames on a timer until stopped", func() {
		sched := loop.NewTickerScheduler(200)
		var frames atomic.Int32
		d := loop.NewDriver(sched, func(time.Time) { frames.Add(1) })

		Expect(d.Start()).To(Succeed())
		Eventually(frames.Load).WithTimeout(2 * time.Second).Should(BeNumerically(">=", 3))

		d.Stop()
		Expect(sched.Outstanding()).To(BeZero())
		d.Wait()
		stopped := frames.Load()
		Consistently(frames.Load).Within(50 * time.Millisecond).Should(Equal(stopped))
	})

	It("lets Wait block on a frame that was already running", func() {
		sched := loop.NewTickerScheduler(1000)
		entered := make(chan struct{})
		release := make(chan struct{})
		var done atomic.Bool
		var once atomic.Bool
		d := loop.NewDriver(sched, func(time.Time) {
			if once.CompareAndSwap(false, true) {
				close(entered)
				<-release
				done.Store(true)
			}
		})

		Expect(d.Start()).To(Succeed())
		Eventually(entered).WithTimeout(time.Second).Should(BeClosed())
		d.Stop()
		go func() {
			time.Sleep(10 * time.Millisecond)
			close(release)
		}()
		d.Wait()
		Expect(done.Load()).To(BeTrue())
	})

	It("releases Wait when a frame panics", func() {
		sched := loop.NewManual()
		d := loop.NewDriver(sched, func(time.Time) { panic("frame failed") })

		Expect(d.Start()).To(Succeed())
		Expect(func() { sched.Fire(time.Now()) }).To(PanicWith("frame failed"))
		d.Stop()

		waited := make(chan struct{})
		go func() {
			d.Wait()
			close(waited)
		}()
		Eventually(waited).WithTimeout(time.Second).Should(BeClosed())
	})

	It("defaults to 60 frames per second", func() {
		Expect(loop.NewTickerScheduler(0).Interval()).To(Equal(time.Second / 60))
	})
})

// leakyScheduler ignores Cancel, like a host whose frame request cannot be
// revoked.
type leakyScheduler struct {
	fns []func(time.Time)
}

func (l *leakyScheduler) Schedule(fn func(time.Time)) loop.Handle {
	l.fns = append(l.fns, fn)
	return loop.Handle(len(l.fns))
}

func (l *leakyScheduler) Cancel(loop.Handle) {}

func (l *leakyScheduler) fireAll() {
	for _, fn := range l.fns {
		fn(time.Now())
	}
}
