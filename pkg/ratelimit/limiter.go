package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"twitchapi/pkg/logger"
)

// ErrCostExceedsQuota is returned when a single reservation asks for more
// points than the window can ever hold. Waiting would never succeed.
var ErrCostExceedsQuota = errors.New("ratelimit: cost exceeds window quota")

// Limiter defines the interface for point-based rate limiting
type Limiter interface {
	// Allow checks if a reservation of the given cost fits in the current window
	Allow(cost int) bool
	// Reserve blocks until the cost has been reserved or the context is done
	Reserve(ctx context.Context, cost int) error
	// Reset resets the rate limiter state
	Reset()
}

// PointWindow implements a fixed-window point budget. Requests consume
// points; once usedPoints+cost reaches maxPoints, reservations block until
// the window elapses and the counter resets to zero.
type PointWindow struct {
	maxPoints    int
	window       time.Duration
	pollInterval time.Duration
	windowStart  time.Time
	usedPoints   int
	logger       logger.Logger
	mu           sync.Mutex
}

// NewPointWindow creates a point-budget limiter of maxPoints per window.
// A nil logger falls back to the global logger.
func NewPointWindow(maxPoints int, window time.Duration, log logger.Logger) *PointWindow {
	if log == nil {
		log = logger.GetLogger()
	}
	return &PointWindow{
		maxPoints:    maxPoints,
		window:       window,
		pollInterval: 10 * time.Millisecond,
		windowStart:  time.Now(),
		logger:       log,
	}
}

// SetPollInterval overrides how often a blocked Reserve re-checks the window
func (pw *PointWindow) SetPollInterval(d time.Duration) {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	if d > 0 {
		pw.pollInterval = d
	}
}

// Allow checks if a reservation of cost points fits in the current window
// and records it if so. A reservation fits while usedPoints+cost stays
// strictly below maxPoints.
func (pw *PointWindow) Allow(cost int) bool {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	pw.maybeReset(time.Now())

	if pw.usedPoints+cost < pw.maxPoints {
		pw.usedPoints += cost
		return true
	}

	return false
}

// Reserve blocks until cost points have been reserved. A cost that can
// never fit is rejected immediately; a cancelled context aborts the wait.
func (pw *PointWindow) Reserve(ctx context.Context, cost int) error {
	if cost >= pw.maxPoints {
		return ErrCostExceedsQuota
	}

	if pw.Allow(cost) {
		return nil
	}

	pw.mu.Lock()
	pw.logger.WarnWithFields("rate limit reached, waiting for window reset", map[string]interface{}{
		"used_points": pw.usedPoints,
		"max_points":  pw.maxPoints,
		"window":      pw.window,
	})
	poll := pw.pollInterval
	pw.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(poll):
		}

		if pw.Allow(cost) {
			return nil
		}
	}
}

// Reset clears the window, starting a fresh point budget now
func (pw *PointWindow) Reset() {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	pw.usedPoints = 0
	pw.windowStart = time.Now()
}

// Used returns the points consumed in the current window
func (pw *PointWindow) Used() int {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	pw.maybeReset(time.Now())
	return pw.usedPoints
}

// maybeReset starts a new window if the current one has elapsed.
// Callers must hold the mutex.
func (pw *PointWindow) maybeReset(now time.Time) {
	if now.After(pw.windowStart.Add(pw.window)) {
		pw.windowStart = now
		pw.usedPoints = 0
	}
}

// SlidingWindow implements a point budget over a sliding time window,
// tracking each reservation with its timestamp and cost
type SlidingWindow struct {
	windowSize time.Duration
	maxPoints  int
	poll       time.Duration
	entries    []entry
	mu         sync.Mutex
}

type entry struct {
	at   time.Time
	cost int
}

// NewSlidingWindow creates a sliding window limiter of maxPoints per windowSize
func NewSlidingWindow(maxPoints int, windowSize time.Duration) *SlidingWindow {
	return &SlidingWindow{
		windowSize: windowSize,
		maxPoints:  maxPoints,
		poll:       10 * time.Millisecond,
		entries:    make([]entry, 0, 16),
	}
}

// Allow checks if a reservation of cost points fits in the sliding window
func (sw *SlidingWindow) Allow(cost int) bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := time.Now()
	sw.dropExpired(now)

	used := 0
	for _, e := range sw.entries {
		used += e.cost
	}

	if used+cost < sw.maxPoints {
		sw.entries = append(sw.entries, entry{at: now, cost: cost})
		return true
	}

	return false
}

// Reserve blocks until cost points fit in the window or the context is done
func (sw *SlidingWindow) Reserve(ctx context.Context, cost int) error {
	if cost >= sw.maxPoints {
		return ErrCostExceedsQuota
	}

	for {
		if sw.Allow(cost) {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sw.poll):
		}
	}
}

// Reset clears all recorded reservations
func (sw *SlidingWindow) Reset() {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.entries = sw.entries[:0]
}

// dropExpired removes reservations outside the sliding window.
// Callers must hold the mutex.
func (sw *SlidingWindow) dropExpired(now time.Time) {
	cutoff := now.Add(-sw.windowSize)

	i := 0
	for i < len(sw.entries) && sw.entries[i].at.Before(cutoff) {
		i++
	}

	if i > 0 {
		copy(sw.entries, sw.entries[i:])
		sw.entries = sw.entries[:len(sw.entries)-i]
	}
}
