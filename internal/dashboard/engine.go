package dashboard

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"wrapped/internal/viewing"
)

// PeriodHours is watch time for one month (1-12) or hour of day (0-23).
type PeriodHours struct {
	Period int     `json:"period"`
	Hours  float64 `json:"hours"`
}

// LabelHours is watch time for one title or media type.
type LabelHours struct {
	Label string  `json:"label"`
	Hours float64 `json:"hours"`
}

const playsSchema = `CREATE TABLE plays (
    title      TEXT,
    month      INTEGER,
    hour       INTEGER,
    seconds    REAL,
    media_type TEXT
)`

// engine runs group-by aggregates over an in-memory SQLite copy of the
// records. It lives for a single Build call.
type engine struct {
	db *sql.DB
}

func openEngine(ctx context.Context, records []viewing.Record) (*engine, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	e := &engine{db: db}
	if _, err := db.ExecContext(ctx, playsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create plays table: %w", err)
	}
	if err := e.insert(ctx, records); err != nil {
		_ = db.Close()
		return nil, err
	}
	return e, nil
}

func (e *engine) Close() error {
	return e.db.Close()
}

func (e *engine) insert(ctx context.Context, records []viewing.Record) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO plays (title, month, hour, seconds, media_type) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var month, hour, seconds any
		if rec.HasStart {
			month = int(rec.StartTime.Month())
			hour = rec.StartTime.Hour()
		}
		if rec.HasDuration {
			seconds = rec.Duration.Seconds()
		}
		if _, err := stmt.ExecContext(ctx, nullable(rec.Title), month, hour, seconds, nullable(rec.MediaType)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert play: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit plays: %w", err)
	}
	return nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// Durations that failed to parse count as zero inside a group, so a group
// made only of invalid durations still appears with zero hours.
const (
	monthlyQuery = `SELECT month, COALESCE(SUM(seconds), 0) / 3600.0
        FROM plays WHERE month IS NOT NULL
        GROUP BY month ORDER BY month`
	hourlyQuery = `SELECT hour, COALESCE(SUM(seconds), 0) / 3600.0
        FROM plays WHERE hour IS NOT NULL
        GROUP BY hour ORDER BY hour`
	titlesQuery = `SELECT title, COALESCE(SUM(seconds), 0) / 3600.0 AS hours
        FROM plays WHERE title IS NOT NULL
        GROUP BY title ORDER BY hours DESC, title LIMIT ?`
	mediaTypesQuery = `SELECT media_type, COALESCE(SUM(seconds), 0) / 3600.0
        FROM plays WHERE media_type IS NOT NULL
        GROUP BY media_type ORDER BY media_type`
)

func (e *engine) Monthly(ctx context.Context) ([]PeriodHours, error) {
	return e.periods(ctx, "monthly", monthlyQuery)
}

func (e *engine) Hourly(ctx context.Context) ([]PeriodHours, error) {
	return e.periods(ctx, "hourly", hourlyQuery)
}

func (e *engine) TopTitles(ctx context.Context, limit int) ([]LabelHours, error) {
	return e.labels(ctx, "titles", titlesQuery, limit)
}

func (e *engine) MediaTypes(ctx context.Context) ([]LabelHours, error) {
	return e.labels(ctx, "media types", mediaTypesQuery)
}

func (e *engine) periods(ctx context.Context, name, query string) ([]PeriodHours, error) {
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	defer rows.Close()

	var out []PeriodHours
	for rows.Next() {
		var p PeriodHours
		if err := rows.Scan(&p.Period, &p.Hours); err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", name, err)
	}
	return out, nil
}

func (e *engine) labels(ctx context.Context, name, query string, args ...any) ([]LabelHours, error) {
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	defer rows.Close()

	var out []LabelHours
	for rows.Next() {
		var l LabelHours
		if err := rows.Scan(&l.Label, &l.Hours); err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", name, err)
	}
	return out, nil
}
