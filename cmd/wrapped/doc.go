// Package main hosts the wrapped CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once per invocation, builds
// the logger and OMDb client from it, and hands off to the enrichment and
// dashboard packages. Tables and JSON go to stdout; logs go to stderr.
package main
