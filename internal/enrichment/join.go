package enrichment

import (
	"wrapped/internal/viewing"
)

// DistinctTitles returns the non-null titles of t in first-appearance order.
func DistinctTitles(t *viewing.Table) []string {
	idx := t.Column(viewing.ColumnTitle)
	if idx < 0 {
		return nil
	}
	seen := make(map[string]struct{})
	var titles []string
	for _, row := range t.Rows {
		if idx >= len(row) || row[idx] == "" {
			continue
		}
		title := row[idx]
		if _, ok := seen[title]; ok {
			continue
		}
		seen[title] = struct{}{}
		titles = append(titles, title)
	}
	return titles
}

// Join left-joins metadata onto t by title and returns a new table.
//
// Metadata columns missing from t are appended; columns t already has are
// refreshed in place. Rows with a null or unmatched title keep their
// existing values, which are null for appended columns. The result always
// has exactly t.Len() rows.
func Join(t *viewing.Table, rows []Metadata) *viewing.Table {
	byTitle := make(map[string]Metadata, len(rows))
	for _, row := range rows {
		if _, ok := byTitle[row.Title]; !ok {
			byTitle[row.Title] = row
		}
	}

	header := append([]string(nil), t.Header...)
	targets := make([]int, len(metadataColumns))
	for i, name := range metadataColumns {
		idx := t.Column(name)
		if idx < 0 {
			idx = len(header)
			header = append(header, name)
		}
		targets[i] = idx
	}

	titleIdx := t.Column(viewing.ColumnTitle)
	out := &viewing.Table{Header: header, Rows: make([][]string, 0, len(t.Rows))}
	for _, row := range t.Rows {
		joined := make([]string, len(header))
		copy(joined, row)

		var title string
		if titleIdx >= 0 && titleIdx < len(row) {
			title = row[titleIdx]
		}
		if meta, ok := byTitle[title]; ok && title != "" {
			for i, value := range meta.values() {
				joined[targets[i]] = value
			}
		}
		out.Rows = append(out.Rows, joined)
	}
	return out
}
