// Package domain contains the core business entities for semdesk.
//
// Domain types have no dependencies on adapters or infrastructure.
// They represent the canonical data model shared by the content store,
// the vector index and the search pipeline.
package domain
