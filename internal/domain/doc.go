// Package domain defines the core types shared across the traffic reader:
// snapshots of API responses and the events published while fetching them.
package domain
