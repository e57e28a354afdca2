// Package poller implements the scheduling side of the traffic reader.
//
// The manager coordinates periodic fetching by:
//   - Validating the configured endpoint list
//   - Publishing fetch jobs on every poll tick
//   - Skipping endpoints whose previous fetch is still in flight
//   - Serving on-demand refresh requests from the API layer
//
// The validator ensures endpoint names are well-formed and unique.
package poller
