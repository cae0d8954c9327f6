package enrichment

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"wrapped/internal/logging"
	"wrapped/internal/omdb"
)

// Fetcher resolves title metadata, memoizing results for its lifetime.
// A Fetcher is scoped to a single run.
type Fetcher struct {
	lookup      omdb.Lookuper
	logger      *slog.Logger
	concurrency int

	mu   sync.Mutex
	memo map[string]Metadata
}

// NewFetcher builds a Fetcher that runs at most concurrency lookups at once.
func NewFetcher(lookup omdb.Lookuper, logger *slog.Logger, concurrency int) *Fetcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Fetcher{
		lookup:      lookup,
		logger:      logging.NewComponentLogger(logger, "enrichment"),
		concurrency: concurrency,
		memo:        make(map[string]Metadata),
	}
}

// Fetch returns metadata for title. It never fails: lookup errors produce
// the degraded row.
func (f *Fetcher) Fetch(ctx context.Context, title string) Metadata {
	f.mu.Lock()
	if cached, ok := f.memo[title]; ok {
		f.mu.Unlock()
		return cached
	}
	f.mu.Unlock()

	meta := f.resolve(ctx, title)

	f.mu.Lock()
	f.memo[title] = meta
	f.mu.Unlock()
	return meta
}

func (f *Fetcher) resolve(ctx context.Context, title string) Metadata {
	logger := logging.WithContext(ctx, f.logger)
	payload, err := f.lookup.Lookup(ctx, title)
	switch {
	case err == nil:
		meta := FromTitle(title, payload)
		logger.Debug("title matched",
			logging.String("title", title),
			logging.String("genre", meta.Genre),
			logging.String("media_type", meta.MediaType))
		return meta
	case errors.Is(err, omdb.ErrNotFound):
		logger.Info("title not found in omdb",
			logging.String("title", title),
			logging.String(logging.FieldEventType, "omdb_title_not_found"))
		return Degraded(title, OutcomeNotFound)
	default:
		logging.WarnWithContext(logger, "omdb lookup failed", "omdb_lookup_failed",
			logging.String("title", title),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check network access and the OMDb API key"),
			logging.String(logging.FieldImpact, "title metadata recorded as Unknown"))
		return Degraded(title, OutcomeFailed)
	}
}

// BuildMetadata looks up every title and returns rows in the order of titles.
// The only error is cancellation of ctx.
func (f *Fetcher) BuildMetadata(ctx context.Context, titles []string) ([]Metadata, error) {
	results := make([]Metadata, len(titles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for i, title := range titles {
		i, title := i, title
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = f.Fetch(gctx, title)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
