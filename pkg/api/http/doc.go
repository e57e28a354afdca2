// Package http provides the HTTP REST API implementation.
//
// The HTTP server exposes endpoints for:
//   - Latest and historical traffic snapshots
//   - On-demand endpoint refresh
//   - Health checks
//   - Prometheus metrics
package http
