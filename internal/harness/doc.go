// Package harness runs whole quiz sessions from YAML scenario files.
//
// A scenario declares a lecture (settings, question bank, acceptable
// answers) and a flow of ask/answer steps. The harness plays the flow
// through a real session over a fresh in-memory store with a fixed
// clock, collects a trace of allocations and answers, and checks the
// scenario's expectations and assertions against it.
//
// Because every step names the question it asks, a scenario is fully
// deterministic: the same flow always produces the same trace, which is
// what makes golden-file comparison (RunWithGolden) meaningful.
package harness
