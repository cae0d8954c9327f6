package viewing

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Record is the typed view of one playback event. Invalid timestamps or
// durations are kept with HasStart/HasDuration false.
type Record struct {
	Title       string
	StartTime   time.Time
	HasStart    bool
	Duration    time.Duration
	HasDuration bool
	MediaType   string
	Genre       string
	Year        string
}

// Records parses every row of t. Columns that are absent read as null.
func Records(t *Table) []Record {
	records := make([]Record, 0, t.Len())
	for i := range t.Rows {
		rec := Record{
			Title:     t.Value(i, ColumnTitle),
			MediaType: t.Value(i, ColumnMediaType),
			Genre:     t.Value(i, ColumnGenre),
			Year:      t.Value(i, ColumnYear),
		}
		rec.StartTime, rec.HasStart = ParseTimestamp(t.Value(i, ColumnStartTime))
		rec.Duration, rec.HasDuration = ParseDuration(t.Value(i, ColumnDuration))
		records = append(records, rec)
	}
	return records
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses the timestamp formats found in viewing exports.
// Naive timestamps are read as UTC.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// clockPattern matches "HH:MM:SS", optionally prefixed by "N days".
var clockPattern = regexp.MustCompile(`^(?:(\d+)\s+days?,?\s*)?(\d+):([0-5]?\d):([0-5]?\d(?:\.\d+)?)$`)

// ParseDuration parses clock-style durations ("00:22:45", "1 days 02:00:00")
// and Go duration strings ("1h30m"). Negative and unparseable values are invalid.
func ParseDuration(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if m := clockPattern.FindStringSubmatch(value); m != nil {
		var days int64
		if m[1] != "" {
			d, err := strconv.ParseInt(m[1], 10, 64)
			if err != nil {
				return 0, false
			}
			days = d
		}
		hours, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return 0, false
		}
		minutes, err := strconv.ParseInt(m[3], 10, 64)
		if err != nil {
			return 0, false
		}
		seconds, err := strconv.ParseFloat(m[4], 64)
		if err != nil {
			return 0, false
		}
		total := time.Duration(days)*24*time.Hour +
			time.Duration(hours)*time.Hour +
			time.Duration(minutes)*time.Minute +
			time.Duration(seconds*float64(time.Second))
		return total, true
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return 0, false
	}
	return d, true
}
