// Package transcode holds the domain model for remote transcode jobs: the
// job state enum with terminal classification, job snapshots decoded from
// worker progress reports, the capability catalog, and the validated
// request builder.
package transcode
