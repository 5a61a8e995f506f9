package common

import "time"

// Stopwatch counts down a fixed timeout from the moment it is
// started and can be asked how much of it remains
type Stopwatch struct {
	timeout time.Duration
	started time.Time
	running bool
}

func NewStopwatch(timeout time.Duration) Stopwatch {
	return Stopwatch{timeout: timeout}
}

func (s *Stopwatch) Start() {
	s.started = time.Now()
	s.running = true
}

func (s *Stopwatch) Stop() {
	s.running = false
}

func (s *Stopwatch) Running() bool {
	return s.running
}

// Remaining tells how much of the timeout is left at the given time;
// zero or negative means the timeout has been reached
func (s *Stopwatch) Remaining(now time.Time) time.Duration {
	if !s.running {
		return 0
	}
	return s.started.Add(s.timeout).Sub(now)
}
