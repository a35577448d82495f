// Package search schedules debounced lookups for interactive typing.
//
// Every keystroke schedules a lookup after a short delay; only the most
// recently scheduled lookup may apply its results. Each schedule call bumps a
// generation counter and the caller checks the generation again when the
// results arrive, so a slow lookup that was superseded by further typing is
// discarded instead of overwriting newer results.
package search

import (
	"strings"
	"time"
)

// DefaultDelay is the pause after the last keystroke before a lookup fires.
const DefaultDelay = 350 * time.Millisecond

// Debouncer tracks the latest scheduled lookup. It is not safe for concurrent
// use; callers drive it from a single event loop.
type Debouncer struct {
	delay      time.Duration
	generation int64
}

// NewDebouncer returns a debouncer firing after delay; a non-positive delay
// falls back to DefaultDelay.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay}
}

// Schedule registers a new lookup for query, superseding any pending one. It
// returns the lookup's generation tag and the delay to wait before firing.
// Clearing the query fires immediately.
func (d *Debouncer) Schedule(query string) (int64, time.Duration) {
	d.generation++
	if strings.TrimSpace(query) == "" {
		return d.generation, 0
	}
	return d.generation, d.delay
}

// Generation returns the latest scheduled lookup's tag.
func (d *Debouncer) Generation() int64 {
	return d.generation
}

// IsCurrent reports whether the lookup tagged generation is still the latest,
// i.e. whether its results may be applied.
func (d *Debouncer) IsCurrent(generation int64) bool {
	return generation == d.generation
}
