// Package index exports ingested chunks as a search-index feed.
//
// The feed is JSON lines, one entry per chunk, in the flat shape vector
// search indexes ingest: id, content, vector, page_number, file_name.
// Writing to a file or stdout keeps the export decoupled from any specific
// index service; the feed can be bulk-loaded with that service's own tools.
package index
