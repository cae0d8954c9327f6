package dashboard

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	barWidth = 30
	barGlyph = "█"
)

// RenderOptions controls terminal output.
type RenderOptions struct {
	Color bool
}

type renderer struct {
	out     strings.Builder
	printer *message.Printer
	color   bool
}

// Render writes the report as a set of terminal tables.
func Render(w io.Writer, r *Report, opts RenderOptions) error {
	rd := &renderer{printer: message.NewPrinter(language.English), color: opts.Color}

	rd.heading("My Viewing Wrapped")
	rd.line(r.Source)
	rd.table([]string{"Metric", "Value"}, [][]string{
		{"Total watch time (hrs)", rd.hours(r.TotalHours)},
		{"Titles watched", rd.printer.Sprintf("%d", r.DistinctTitles)},
		{"Top genre", fallback(r.TopGenre, "n/a")},
		{"Longest binge streak (days)", rd.printer.Sprintf("%d", r.LongestStreak)},
	}, 1)

	rd.heading("Watch Time Over Months")
	rd.periodTable("Month", r.Monthly, func(p int) string {
		if p < 1 || p > 12 {
			return fmt.Sprintf("%d", p)
		}
		return time.Month(p).String()[:3]
	})

	rd.heading("Most Watched Genres")
	rd.genreTable(r.Genres)

	rd.heading("Most Watched Titles")
	rd.labelTable("Title", r.TopTitles)

	rd.heading("Movies vs Series")
	rd.labelTable("Type", r.MediaTypes)

	rd.heading("Watch Time by Hour of Day")
	rd.periodTable("Hour", r.Hourly, func(p int) string { return fmt.Sprintf("%02d:00", p) })

	rd.heading("Key Insights")
	for _, line := range r.Insights.Lines() {
		rd.line("- " + line)
	}

	_, err := io.WriteString(w, rd.out.String())
	return err
}

func (rd *renderer) heading(title string) {
	if rd.out.Len() > 0 {
		rd.out.WriteString("\n")
	}
	if rd.color {
		title = text.Colors{text.FgHiRed, text.Bold}.Sprint(title)
	}
	rd.line(title)
}

func (rd *renderer) line(s string) {
	rd.out.WriteString(s)
	rd.out.WriteString("\n")
}

func (rd *renderer) hours(h float64) string {
	return rd.printer.Sprintf("%.1f", h)
}

func (rd *renderer) periodTable(label string, periods []PeriodHours, name func(int) string) {
	top := 0.0
	for _, p := range periods {
		top = math.Max(top, p.Hours)
	}
	rows := make([][]string, 0, len(periods))
	for _, p := range periods {
		rows = append(rows, []string{name(p.Period), rd.hours(p.Hours), bar(p.Hours, top)})
	}
	rd.table([]string{label, "Hours", ""}, rows, 1)
}

func (rd *renderer) labelTable(label string, entries []LabelHours) {
	top := 0.0
	for _, e := range entries {
		top = math.Max(top, e.Hours)
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Label, rd.hours(e.Hours), bar(e.Hours, top)})
	}
	rd.table([]string{label, "Hours", ""}, rows, 1)
}

func (rd *renderer) genreTable(genres []GenreCount) {
	total, top := 0, 0
	for _, g := range genres {
		total += g.Count
		if g.Count > top {
			top = g.Count
		}
	}
	rows := make([][]string, 0, len(genres))
	for _, g := range genres {
		share := float64(g.Count) / float64(total) * 100
		rows = append(rows, []string{
			g.Genre,
			rd.printer.Sprintf("%d", g.Count),
			rd.printer.Sprintf("%.1f%%", share),
			bar(float64(g.Count), float64(top)),
		})
	}
	rd.table([]string{"Genre", "Count", "Share", ""}, rows, 1, 2)
}

func (rd *renderer) table(headers []string, rows [][]string, rightAligned ...int) {
	if len(rows) == 0 {
		rd.line("(no data)")
		return
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if rd.color {
		tw.Style().Color.Header = text.Colors{text.FgHiRed, text.Bold}
	}

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)
	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range headers {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, len(headers))
	for i := range headers {
		align := text.AlignLeft
		for _, col := range rightAligned {
			if col == i {
				align = text.AlignRight
			}
		}
		cfg := table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft}
		if rd.color && headers[i] == "" {
			cfg.Colors = text.Colors{text.FgRed}
		}
		configs = append(configs, cfg)
	}
	tw.SetColumnConfigs(configs)
	rd.line(tw.Render())
}

// bar draws value as a share of top, at least one glyph for any positive value.
func bar(value, top float64) string {
	if value <= 0 || top <= 0 {
		return ""
	}
	n := int(math.Round(value / top * barWidth))
	if n < 1 {
		n = 1
	}
	return strings.Repeat(barGlyph, n)
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
