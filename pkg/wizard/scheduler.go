package wizard

import "time"

// Task is a scheduled one-shot callback.
type Task interface {
	// Cancel stops the task; it reports false if the task already ran or was
	// cancelled.
	Cancel() bool
}

// Scheduler runs fn once after d.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Task
}

// TimerScheduler schedules with time.AfterFunc.
type TimerScheduler struct{}

func (TimerScheduler) Schedule(d time.Duration, fn func()) Task {
	return timerTask{timer: time.AfterFunc(d, fn)}
}

type timerTask struct {
	timer *time.Timer
}

func (t timerTask) Cancel() bool { return t.timer.Stop() }
