package common

import "time"

// TimedExecutor runs a task at most once per interval. Poke it from
// a loop as often as you like; the task only fires when the interval
// has elapsed since the last run
type TimedExecutor struct {
	interval time.Duration
	lastRun  time.Time
	task     func()
}

func NewTimedExecutor(interval time.Duration, task func()) TimedExecutor {
	return TimedExecutor{interval: interval, task: task}
}

// Execute runs the task if the interval has elapsed, else does
// nothing
func (executor *TimedExecutor) Execute() {
	now := time.Now()
	if now.Sub(executor.lastRun) < executor.interval {
		return
	}
	executor.lastRun = now
	executor.task()
}
