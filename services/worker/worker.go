package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"bseworker/internal/bse"
	"bseworker/logger"
	"bseworker/services/publisher"
	"bseworker/services/sink"
)

// Resolver resolves one announcement into an output row
type Resolver interface {
	Resolve(ctx context.Context, ann bse.Announcement) bse.Row
}

// Worker resolves a day's announcements and hands the rows to the sink and
// the publisher in the listing's order
type Worker struct {
	resolver    Resolver
	sink        sink.RowSink
	publisher   publisher.Publisher
	log         *logger.Logger
	concurrency int
}

// NewWorker creates a new worker. A concurrency below one is treated as one.
func NewWorker(resolver Resolver, s sink.RowSink, pub publisher.Publisher, concurrency int) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{
		resolver:    resolver,
		sink:        s,
		publisher:   pub,
		log:         logger.ForComponent("worker"),
		concurrency: concurrency,
	}
}

// FilterByDay returns the announcements dated on the given calendar day.
// Announcements without a parseable date are kept; dropping them would
// silently lose disclosures the listing already scoped to the day.
func FilterByDay(announcements []bse.Announcement, day time.Time) []bse.Announcement {
	y, m, d := day.Date()
	var filtered []bse.Announcement
	for _, ann := range announcements {
		if ann.NewsDate.IsZero() {
			filtered = append(filtered, ann)
			continue
		}
		ay, am, ad := ann.NewsDate.Date()
		if ay == y && am == m && ad == d {
			filtered = append(filtered, ann)
		}
	}
	return filtered
}

// Run resolves every announcement and writes the rows out in input order.
// Resolution runs on a bounded pool; output is sequential so the CSV and the
// stream preserve the listing's order. Returns the number of rows written.
func (w *Worker) Run(ctx context.Context, announcements []bse.Announcement) (int, error) {
	rows := make([]bse.Row, len(announcements))
	skipped := make([]bool, len(announcements))

	sem := make(chan struct{}, w.concurrency)
	var wg sync.WaitGroup

	for i, ann := range announcements {
		if ann.NewsID == "" {
			skipped[i] = true
			w.log.Warn().Str("scrip", ann.ScripCode).Msg("Skipping announcement without news ID")
			continue
		}

		wg.Add(1)
		go func(i int, ann bse.Announcement) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			rows[i] = w.resolver.Resolve(ctx, ann)
		}(i, ann)
	}
	wg.Wait()

	written := 0
	for i, row := range rows {
		if skipped[i] {
			continue
		}

		if err := w.sink.WriteRow(row); err != nil {
			return written, err
		}
		written++

		if w.publisher != nil {
			data, err := json.Marshal(row)
			if err != nil {
				w.log.Error().Err(err).Str("news_id", row.NewsID).Msg("Failed to marshal row")
				continue
			}
			if err := w.publisher.Publish(data); err != nil {
				w.log.Error().Err(err).Str("news_id", row.NewsID).Msg("Failed to publish row")
			}
		}
	}

	if w.publisher != nil {
		if err := w.publisher.TrimStream(); err != nil {
			w.log.Error().Err(err).Msg("Failed to trim stream")
		}
	}

	w.log.Info().Int("written", written).Int("total", len(announcements)).Msg("Run complete")
	return written, nil
}
