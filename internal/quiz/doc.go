// Package quiz is the lecture session manager: the stateful layer that
// drives a student through one lecture at a time.
//
// A Session wraps the replica store and the server client. It selects a
// lecture, hands out questions drawn by the allocation engine, marks
// answers, keeps the per-lecture running totals and grades up to date,
// and renders the grade summary shown between questions. All state
// lives in the store; the Session itself only remembers which lecture
// is current, so it can be rebuilt at any time.
//
// The session prefers the replica for question content and falls back
// to the server only for questions not yet replicated, which keeps the
// answer loop fully usable offline once a lecture has synced.
package quiz
