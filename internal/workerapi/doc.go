// Package workerapi implements the HTTP JSON client for the remote
// transcode worker: capability catalog, media probe, job submission,
// progress polling, and cancellation.
//
// Every endpoint answers with a discriminated envelope whose status field is
// "ok", "not found", or an error indicator. The client maps "not found" to
// services.ErrNotFound and transport or protocol failures to
// services.ErrTransient so callers can branch without parsing message text.
package workerapi
