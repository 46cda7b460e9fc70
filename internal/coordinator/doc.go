// Package coordinator implements the transcode job lifecycle: submission,
// cadence-based progress tracking, and cancellation.
//
// The Poller is the core state machine. It is idle until Track is called,
// then fetches status on a fixed interval until a terminal state is
// observed. Transient fetch failures are logged and retried on the next
// tick without a state change. Terminal observations, worker-side
// not-found responses, and acked cancels each stop the loop and emit
// exactly one OnTerminal per tracked job. A generation counter discards
// observations from superseded tracking, so a poll response that arrives
// after the job was replaced or cancelled never reaches the listener.
package coordinator
