// Package iaa is the item allocation engine: pure computation over a
// lecture's settings and answer history. It selects the next question by
// a grade-driven weighted draw, computes running grades from a
// recency-weighted average of correctness, and derives study-time delays
// and per-question timeouts.
//
// Nothing in this package performs I/O or touches the replica store; the
// session manager feeds it state and persists its results. All numeric
// curves are empirically tuned and must keep their output stable within
// floating tolerance: they shape real student outcomes.
package iaa
