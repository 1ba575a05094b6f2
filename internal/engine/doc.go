// Package engine computes disk-head schedules. Every policy is a pure function
// of its inputs: the same request list, head position, direction and track
// bound always produce the same visiting sequence and total movement. Compute
// is the validating entry point; the per-policy functions assume their input
// has already been checked.
package engine
