package dashboard

import (
	"sort"
	"strings"
	"time"

	"wrapped/internal/viewing"
)

const genreSeparator = ", "

// GenreCount is one entry of the genre distribution.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// TotalHours sums every valid duration.
func TotalHours(records []viewing.Record) float64 {
	var seconds float64
	for _, rec := range records {
		if rec.HasDuration {
			seconds += rec.Duration.Seconds()
		}
	}
	return seconds / 3600
}

// DistinctTitles counts non-null titles.
func DistinctTitles(records []viewing.Record) int {
	seen := make(map[string]struct{})
	for _, rec := range records {
		if rec.Title != "" {
			seen[rec.Title] = struct{}{}
		}
	}
	return len(seen)
}

// GenreDistribution explodes every non-null genre list and counts each
// genre once per viewing row. Entries are ordered by count, then by first
// appearance.
func GenreDistribution(records []viewing.Record) []GenreCount {
	index := make(map[string]int)
	var counts []GenreCount
	for _, rec := range records {
		if rec.Genre == "" {
			continue
		}
		for _, genre := range strings.Split(rec.Genre, genreSeparator) {
			i, ok := index[genre]
			if !ok {
				i = len(counts)
				index[genre] = i
				counts = append(counts, GenreCount{Genre: genre})
			}
			counts[i].Count++
		}
	}
	sort.SliceStable(counts, func(a, b int) bool {
		return counts[a].Count > counts[b].Count
	})
	return counts
}

// TopGenre returns the most frequent genre, or "" when none is known.
func TopGenre(records []viewing.Record) string {
	dist := GenreDistribution(records)
	if len(dist) == 0 {
		return ""
	}
	return dist[0].Genre
}

// LongestStreak returns the longest run of consecutive calendar days with
// at least one valid start time.
func LongestStreak(records []viewing.Record) int {
	seen := make(map[time.Time]struct{})
	var days []time.Time
	for _, rec := range records {
		if !rec.HasStart {
			continue
		}
		y, m, d := rec.StartTime.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	if len(days) == 0 {
		return 0
	}
	sort.Slice(days, func(a, b int) bool { return days[a].Before(days[b]) })

	longest, current := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, 1).Equal(days[i]) {
			current++
		} else {
			current = 1
		}
		if current > longest {
			longest = current
		}
	}
	return longest
}
