// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
//   - ContentStore: durable keyed storage of ingested items (SQLite)
//   - VectorIndex: persistent vector storage and top-k search (bbolt)
//   - EmbeddingService: turns text into fixed-dimensional unit vectors
//
// Import rules: this package may import domain only, never adapters.
package driven
