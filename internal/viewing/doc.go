// Package viewing reads and writes the viewing-history CSV artifacts and
// exposes a typed, lenient view of each playback row.
//
// Tables keep every column of the source file verbatim so enrichment can
// append metadata without disturbing the original export. Empty cells are the
// null marker. Record parsing never fails: malformed durations and timestamps
// are flagged invalid and skipped by aggregates.
package viewing
