// Package enrichment joins OMDb title metadata onto a viewing-history table.
//
// A run extracts the distinct non-null titles, looks each one up exactly once
// through a bounded worker fan-out, and left-joins the resulting metadata
// table back onto every viewing row. Lookups are best effort: a title the
// service does not know, a non-200 response, or a transport failure all
// degrade to genre "Unknown" with no year or media type, and the run goes on.
// The in-memory Outcome keeps "not found" and "failed" apart for logs and the
// run summary; the persisted artifacts do not.
//
// Both artifacts (the metadata table and the enriched table) are always
// written to disk, atomically, under an advisory lock so concurrent runs
// cannot interleave their output.
package enrichment
