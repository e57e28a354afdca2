// Package workers implements the worker pool that executes fetch jobs.
//
// The pool manages a fixed number of goroutines that:
//   - Consume fetch jobs published by the poller
//   - Call the traffic API through the reader client
//   - Write the resulting snapshot to storage
//   - Publish completion/failure events
//
// The health monitor tracks worker status and exports pool metrics.
package workers
