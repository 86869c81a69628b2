// Package pipeline provides orchestration for document ingestion.
//
// The Pipeline type manages the ingestion workflow for documents, including:
//   - Adding the raw document to storage
//   - Analyzing the document into markdown via the document analysis service
//   - Splitting the markdown into page-annotated fragments
//   - Generating embeddings concurrently and storing the resulting chunks
//
// Every stage persists its output before the next stage runs. Embedding is
// all-or-nothing per document: a single failed fragment aborts the stage and
// no chunks are stored.
package pipeline
