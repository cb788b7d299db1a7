package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDimensionMismatch indicates a vector whose length does not match
	// the index dimension. This is a programmer error, not a data error.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or unreachable.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrStopped indicates a worker mailbox is no longer accepting messages.
	ErrStopped = errors.New("worker stopped")
)
