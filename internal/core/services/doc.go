// Package services contains the core ingest/search pipeline.
//
// Two long-lived workers own the mutable state: the searcher worker is the
// single owner of the vector index handle, and the indexer worker owns the
// ingest-side embedding model. Both drain a single mailbox channel, so
// messages are handled strictly in arrival order. The coordinator sits in
// front of both and maintains the consistency contract between the content
// store and the vector index.
package services
