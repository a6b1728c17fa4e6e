// Package loop drives the frame callback.
//
// A [Driver] moves through three states:
//
//	Idle ──Start──▶ Running ──Stop──▶ Stopped
//
// While Running exactly one frame is scheduled at a time; each frame
// reschedules itself after it returns. Stopped is terminal: a driver that has
// been stopped cannot be started again, build a new one instead.
//
// Frames are scheduled through a [Scheduler] so the driver can run against a
// wall-clock timer ([TickerScheduler]), a host's own frame pump ([Manual]) or
// a counting stub in tests.
package loop
