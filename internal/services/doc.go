// Package services defines shared utilities consumed by the worker client
// and the job coordinator.
//
// Key responsibilities:
//   - sentinel errors and Wrap for error classification across components
//   - context helpers carrying job and request correlation identifiers
package services
