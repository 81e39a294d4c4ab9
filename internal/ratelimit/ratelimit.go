// Package ratelimit implements an in-memory sliding-window rate limiter
// keyed by actor and action kind. Windows are short enough that process
// restarts losing limiter state is acceptable.
package ratelimit

import (
	"sync"
	"time"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/config"
)

// Action kinds with independent limits.
const (
	ActionMessage           = "message"
	ActionSessionRequest    = "session_request"
	ActionButtonClick       = "button_click"
	ActionCounselorRegister = "counselor_register"
)

// Limit is the per-window allowance for one action kind.
type Limit struct {
	Max    int
	Window time.Duration
}

type bucket struct {
	stamps []time.Time
}

// Limiter tracks recent action timestamps per (actor, action) pair.
type Limiter struct {
	mu      sync.Mutex
	limits  map[string]Limit
	buckets map[string]*bucket
	now     func() time.Time

	reapAge time.Duration
	done    chan struct{}
	once    sync.Once
}

// New creates a limiter from configuration. Call Run to start the
// idle-bucket reaper and Stop to shut it down.
func New(cfg config.RateLimitConfig) *Limiter {
	return &Limiter{
		limits: map[string]Limit{
			ActionMessage:           {Max: cfg.MessageMax, Window: cfg.MessageWindow},
			ActionSessionRequest:    {Max: cfg.SessionRequestMax, Window: cfg.SessionRequestWindow},
			ActionButtonClick:       {Max: cfg.ButtonClickMax, Window: cfg.ButtonClickWindow},
			ActionCounselorRegister: {Max: cfg.RegisterMax, Window: cfg.RegisterWindow},
		},
		buckets: make(map[string]*bucket),
		now:     time.Now,
		reapAge: cfg.ReapAge,
		done:    make(chan struct{}),
	}
}

// Allow records an attempt and reports whether it is within the action's
// limit. When denied, retryAfter is the wait until the oldest in-window
// attempt expires. Unknown actions are always allowed.
func (l *Limiter) Allow(actorID, action string) (allowed bool, retryAfter time.Duration) {
	limit, ok := l.limits[action]
	if !ok || limit.Max <= 0 {
		return true, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	key := actorID + ":" + action

	b := l.buckets[key]
	if b == nil {
		b = &bucket{}
		l.buckets[key] = b
	}

	cutoff := now.Add(-limit.Window)
	kept := b.stamps[:0]
	for _, ts := range b.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	b.stamps = kept

	if len(b.stamps) >= limit.Max {
		oldest := b.stamps[0]
		return false, oldest.Add(limit.Window).Sub(now)
	}

	b.stamps = append(b.stamps, now)
	return true, 0
}

// Reset clears all recorded attempts for the actor across every action.
func (l *Limiter) Reset(actorID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	prefix := actorID + ":"
	for key := range l.buckets {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			delete(l.buckets, key)
		}
	}
}

// Run reaps idle buckets on the given interval until Stop is called.
func (l *Limiter) Run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.reap()
		case <-l.done:
			return
		}
	}
}

// Stop terminates the reaper loop.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.done) })
}

func (l *Limiter) reap() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.reapAge)
	for key, b := range l.buckets {
		if len(b.stamps) == 0 || !b.stamps[len(b.stamps)-1].After(cutoff) {
			delete(l.buckets, key)
		}
	}
}
