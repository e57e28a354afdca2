// Package storage provides snapshot storage implementations.
//
// Implementations:
//   - redis: Redis with JSON serialization, TTL and bounded history
//   - memory: In-memory, default backend and used in tests
package storage
