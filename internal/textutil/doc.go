// Package textutil holds pure presentation helpers for job snapshots:
// clock-style durations, ETAs, percentages, encode speeds, and byte sizes.
// Everything here is a stateless function of its inputs and safe to
// recompute at any time.
package textutil
