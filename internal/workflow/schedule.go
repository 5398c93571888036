package workflow

import "time"

// Task is a pending scheduled call.
type Task interface {
	// Cancel stops the call if it has not started. It reports whether the
	// call was stopped.
	Cancel() bool
}

// Scheduler runs fn once after delay on some other goroutine.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Task
}

// TimerScheduler schedules with time.AfterFunc.
type TimerScheduler struct{}

func (TimerScheduler) Schedule(delay time.Duration, fn func()) Task {
	return timerTask{t: time.AfterFunc(delay, fn)}
}

type timerTask struct {
	t *time.Timer
}

func (t timerTask) Cancel() bool {
	return t.t.Stop()
}

// Backoff is the delay table between status checks.
//
// The pause after the second check is deliberately longer than the ones
// around it; existing clients depend on that pacing.
type Backoff struct {
	Initial     time.Duration // before attempt 0
	AfterSecond time.Duration // after attempt 1
	AfterThird  time.Duration // after attempt 2
	Steady      time.Duration // after attempt 0 and every attempt from 3 on
}

func DefaultBackoff() Backoff {
	return Backoff{
		Initial:     5 * time.Second,
		AfterSecond: 45 * time.Second,
		AfterThird:  20 * time.Second,
		Steady:      10 * time.Second,
	}
}

// Next returns the wait before the check following the given 0-based
// attempt.
func (b Backoff) Next(attempt int) time.Duration {
	switch attempt {
	case 1:
		return b.AfterSecond
	case 2:
		return b.AfterThird
	default:
		return b.Steady
	}
}
