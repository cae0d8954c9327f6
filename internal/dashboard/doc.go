// Package dashboard computes and renders the "wrapped" summary of an enriched
// viewing history.
//
// Loader memoizes the parsed dataset per file fingerprint so repeated renders
// of an unchanged file skip parsing. Build derives a Report from a Dataset:
// scalar metrics and the genre explode are computed in Go, while the
// time and category group-bys run as SQL over a throwaway in-memory SQLite
// table. Render draws the Report as terminal tables with proportional bars.
package dashboard
