// Package revision implements the pull-based invalidation signal: a
// process-lifetime integer bumped after every successful mutation. Dependent
// views compare revisions by inequality and re-fetch when they differ; the
// value is never persisted and resets to zero on restart.
package revision

import "sync/atomic"

// Counter is a monotonically increasing revision number. The zero value is
// ready to use and starts at 0.
type Counter struct {
	v atomic.Int64
}

// Bump increments the revision by exactly one and returns the new value.
func (c *Counter) Bump() int64 { return c.v.Add(1) }

// Current returns the latest revision without modifying it.
func (c *Counter) Current() int64 { return c.v.Load() }

// View tracks the revision a dependent view last rendered.
type View struct {
	last int64
}

// Stale reports whether latest differs from the last rendered revision.
// Inequality, not ordering: a view must re-fetch for every distinct
// revision value it observes.
func (v *View) Stale(latest int64) bool { return latest != v.last }

// Mark records that the view rendered state at the given revision.
func (v *View) Mark(latest int64) { v.last = latest }

// Last returns the revision the view most recently rendered.
func (v *View) Last() int64 { return v.last }
