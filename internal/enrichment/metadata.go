package enrichment

import (
	"wrapped/internal/omdb"
	"wrapped/internal/viewing"
)

// UnknownGenre is recorded when no genre could be obtained.
const UnknownGenre = "Unknown"

// Outcome classifies how a title lookup ended.
type Outcome string

const (
	OutcomeMatched  Outcome = "matched"
	OutcomeNotFound Outcome = "not_found"
	OutcomeFailed   Outcome = "failed"
)

// Metadata is one row of the title metadata table.
type Metadata struct {
	Title     string
	Genre     string
	Year      string
	MediaType string
	Outcome   Outcome
}

// Degraded returns the placeholder row used when a lookup does not match.
func Degraded(title string, outcome Outcome) Metadata {
	return Metadata{Title: title, Genre: UnknownGenre, Outcome: outcome}
}

// FromTitle converts an OMDb payload. Values pass through verbatim; only a
// missing genre is replaced by UnknownGenre.
func FromTitle(title string, payload *omdb.Title) Metadata {
	if payload == nil {
		return Degraded(title, OutcomeFailed)
	}
	genre := payload.Genre
	if genre == "" {
		genre = UnknownGenre
	}
	return Metadata{
		Title:     title,
		Genre:     genre,
		Year:      payload.Year,
		MediaType: payload.Type,
		Outcome:   OutcomeMatched,
	}
}

var metadataColumns = []string{viewing.ColumnGenre, viewing.ColumnYear, viewing.ColumnMediaType}

func (m Metadata) values() []string {
	return []string{m.Genre, m.Year, m.MediaType}
}

// MetadataTable renders rows as the title_metadata.csv table.
func MetadataTable(rows []Metadata) *viewing.Table {
	table := &viewing.Table{
		Header: append([]string{viewing.ColumnTitle}, metadataColumns...),
		Rows:   make([][]string, 0, len(rows)),
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, append([]string{row.Title}, row.values()...))
	}
	return table
}
