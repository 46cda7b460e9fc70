// Package main hosts the transcodectl CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into calls
// against the remote transcode worker: catalog listing, media probing, job
// submission with live progress tracking, and cancellation. It centralizes
// configuration resolution and structured logging setup so subcommands can
// focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
