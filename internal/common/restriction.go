package common

import "time"

// A restriction allows only the specified number of requests within
// the given time window
type Restriction struct {
	Requests int
	Window   time.Duration
}

// Analyse counts how many of the recorded request times still fall
// inside this restriction's window and reports whether one more is
// allowed right now, and if not, how long to wait until it is.
// History is assumed to be in chronological order
func (restriction Restriction) Analyse(history []time.Time, now time.Time) (bool, time.Duration) {

	count := 0
	for i := len(history) - 1; i >= 0; i-- {
		if now.Sub(history[i]) >= restriction.Window {
			break
		}
		count++
	}
	if count < restriction.Requests {
		return true, 0
	}

	// The slot frees up when the oldest in-window request ages out
	oldest := history[len(history)-count]
	return false, oldest.Add(restriction.Window).Sub(now)
}
