package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TopTitleLimit is how many titles the dashboard ranks.
const TopTitleLimit = 5

// Report holds every aggregate shown on the dashboard.
type Report struct {
	Source         string        `json:"source"`
	Rows           int           `json:"rows"`
	TotalHours     float64       `json:"total_hours"`
	DistinctTitles int           `json:"distinct_titles"`
	TopGenre       string        `json:"top_genre,omitempty"`
	LongestStreak  int           `json:"longest_streak_days"`
	Genres         []GenreCount  `json:"genres"`
	Monthly        []PeriodHours `json:"monthly"`
	Hourly         []PeriodHours `json:"hourly"`
	TopTitles      []LabelHours  `json:"top_titles"`
	MediaTypes     []LabelHours  `json:"media_types"`
	Insights       Insights      `json:"insights"`
}

// Insights are the headline observations derived from a Report.
type Insights struct {
	PeakMonth         string   `json:"peak_month,omitempty"`
	TopGenres         []string `json:"top_genres,omitempty"`
	DominantMediaType string   `json:"dominant_media_type,omitempty"`
	PeakPartOfDay     string   `json:"peak_part_of_day,omitempty"`
	LongestStreak     int      `json:"longest_streak_days"`
}

// Build computes the Report for ds.
func Build(ctx context.Context, ds *Dataset) (*Report, error) {
	if ds == nil {
		return nil, errors.New("dataset is required")
	}
	records := ds.Records
	report := &Report{
		Source:         ds.Fingerprint.Path,
		Rows:           len(records),
		TotalHours:     TotalHours(records),
		DistinctTitles: DistinctTitles(records),
		Genres:         GenreDistribution(records),
		LongestStreak:  LongestStreak(records),
	}
	if len(report.Genres) > 0 {
		report.TopGenre = report.Genres[0].Genre
	}

	eng, err := openEngine(ctx, records)
	if err != nil {
		return nil, err
	}
	defer eng.Close()

	if report.Monthly, err = eng.Monthly(ctx); err != nil {
		return nil, err
	}
	if report.Hourly, err = eng.Hourly(ctx); err != nil {
		return nil, err
	}
	if report.TopTitles, err = eng.TopTitles(ctx, TopTitleLimit); err != nil {
		return nil, err
	}
	if report.MediaTypes, err = eng.MediaTypes(ctx); err != nil {
		return nil, err
	}

	report.Insights = deriveInsights(report)
	return report, nil
}

func deriveInsights(r *Report) Insights {
	in := Insights{LongestStreak: r.LongestStreak}
	if p, ok := peakPeriod(r.Monthly); ok && p.Period >= 1 && p.Period <= 12 {
		in.PeakMonth = time.Month(p.Period).String()
	}
	for i := 0; i < len(r.Genres) && i < 2; i++ {
		in.TopGenres = append(in.TopGenres, r.Genres[i].Genre)
	}
	var best *LabelHours
	for i := range r.MediaTypes {
		if best == nil || r.MediaTypes[i].Hours > best.Hours {
			best = &r.MediaTypes[i]
		}
	}
	if best != nil {
		in.DominantMediaType = best.Label
	}
	if p, ok := peakPeriod(r.Hourly); ok {
		in.PeakPartOfDay = PartOfDay(p.Period)
	}
	return in
}

// peakPeriod returns the period with the most hours; ties keep the earliest.
func peakPeriod(periods []PeriodHours) (PeriodHours, bool) {
	if len(periods) == 0 {
		return PeriodHours{}, false
	}
	peak := periods[0]
	for _, p := range periods[1:] {
		if p.Hours > peak.Hours {
			peak = p
		}
	}
	return peak, true
}

// PartOfDay names the part of the day an hour (0-23) falls in.
func PartOfDay(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 17:
		return "afternoon"
	case hour >= 17 && hour < 21:
		return "evening"
	default:
		return "night"
	}
}

// Lines phrases the insights as short sentences. Insights without data are
// omitted.
func (in Insights) Lines() []string {
	title := cases.Title(language.English)
	var lines []string
	if in.PeakMonth != "" {
		lines = append(lines, fmt.Sprintf("Watch time peaked in %s.", in.PeakMonth))
	}
	switch len(in.TopGenres) {
	case 1:
		lines = append(lines, fmt.Sprintf("%s is the most watched genre.", in.TopGenres[0]))
	case 2:
		lines = append(lines, fmt.Sprintf("%s and %s are the most watched genres.", in.TopGenres[0], in.TopGenres[1]))
	}
	if in.DominantMediaType != "" {
		lines = append(lines, fmt.Sprintf("%s dominates viewing time.", title.String(in.DominantMediaType)))
	}
	if in.PeakPartOfDay != "" {
		lines = append(lines, fmt.Sprintf("Viewing peaks in the %s.", in.PeakPartOfDay))
	}
	lines = append(lines, fmt.Sprintf("The longest binge streak was %d consecutive days.", in.LongestStreak))
	return lines
}
