package common

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// RateLimiter keeps a history of performed requests and checks it
// against a set of restrictions. Vital requests wait until a slot
// opens; non vital ones are simply rejected when none is free.
// A cooldown can be imposed from outside when the remote side
// reports a rate limit anyway
type RateLimiter struct {
	mu           sync.Mutex
	restrictions []Restriction
	history      []time.Time
	span         time.Duration
	cooldown     Stopwatch
}

func NewRateLimiter(restrictions []Restriction) *RateLimiter {
	rl := &RateLimiter{restrictions: restrictions}
	for _, restriction := range restrictions {
		if restriction.Window > rl.span {
			rl.span = restriction.Window
		}
	}
	rl.cooldown = NewStopwatch(rl.span)
	return rl
}

// Allow decides if a request may go out now. A vital request blocks
// until allowed or the context is done; a non vital one returns
// false immediately when the restrictions do not permit it
func (rl *RateLimiter) Allow(ctx context.Context, vital bool) bool {
	for {
		ok, wait := rl.check()
		if ok {
			return true
		}
		if !vital {
			log.Warn().Msg("Rejecting non vital request, rate limit reached")
			return false
		}
		log.Debug().Msg("Delaying vital request until the rate limit clears")
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return false
		}
	}
}

// ReceivedRateLimit imposes a full cooldown after the remote side
// answered 429 despite the local accounting
func (rl *RateLimiter) ReceivedRateLimit() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.cooldown.Start()
}

func (rl *RateLimiter) check() (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if rl.cooldown.Running() {
		if remaining := rl.cooldown.Remaining(now); remaining > 0 {
			return false, remaining
		}
		rl.cooldown.Stop()
	}

	rl.trim(now)

	allowed := true
	var wait time.Duration
	for _, restriction := range rl.restrictions {
		ok, restrictionWait := restriction.Analyse(rl.history, now)
		allowed = allowed && ok
		if restrictionWait > wait {
			wait = restrictionWait
		}
	}
	if allowed {
		rl.history = append(rl.history, now)
	}
	return allowed, wait
}

// Drop history entries too old to matter for any restriction
func (rl *RateLimiter) trim(now time.Time) {
	index := 0
	for i := len(rl.history) - 1; i >= 0; i-- {
		if now.Sub(rl.history[i]) >= rl.span {
			index = i + 1
			break
		}
	}
	rl.history = rl.history[index:]
}
