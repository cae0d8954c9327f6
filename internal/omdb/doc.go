// Package omdb provides the minimal OMDb API client used during enrichment.
//
// It performs title lookups (`?t=<title>`) authenticated with an API key and
// returns the strongly typed payload. "No match" responses surface as
// ErrNotFound and non-200 statuses as *StatusError so callers can tell them
// apart even when they degrade both the same way. Requests are rate limited,
// retried with exponential backoff on transient failures, and guarded by a
// circuit breaker so a dead service fails fast instead of stalling a run.
package omdb
