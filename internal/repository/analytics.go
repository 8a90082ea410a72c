package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shortlink/internal/domain"
)

const (
	dimensionReferrer = "referrer"
	dimensionDevice   = "device"
	dimensionBrowser  = "browser"
)

type AnalyticsRepository struct {
	pool *pgxpool.Pool
}

func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

// EnsureBucket returns the bucket for (linkID, day), creating an empty one
// if absent. The insert is ON CONFLICT DO NOTHING against the (link_id,
// day) primary key, so two concurrent first-clicks-of-the-day collapse into
// one bucket; whichever insert loses the race falls through to the find.
func (r *AnalyticsRepository) EnsureBucket(ctx context.Context, linkID int64, day string) (domain.AnalyticsBucket, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO analytics_buckets (link_id, day, clicks)
		VALUES ($1, $2::date, 0)
		ON CONFLICT (link_id, day) DO NOTHING`,
		linkID, day)
	if err != nil {
		return domain.AnalyticsBucket{}, fmt.Errorf("failed to ensure bucket: %w", err)
	}

	return r.getBucket(ctx, linkID, day)
}

// RecordEvent applies one click's full analytics contribution: the bucket
// click counter plus one referrer, one device and one browser counter. All
// four are storage-side upsert-increments inside a single transaction, so
// an event is either fully recorded or not at all, and concurrent events
// interleave without losing increments.
func (r *AnalyticsRepository) RecordEvent(ctx context.Context, linkID int64, day, referrer, device, browser string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin analytics tx: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO analytics_buckets (link_id, day, clicks)
		VALUES ($1, $2::date, 1)
		ON CONFLICT (link_id, day)
		DO UPDATE SET clicks = analytics_buckets.clicks + 1`,
		linkID, day)

	for _, c := range []struct{ dimension, label string }{
		{dimensionReferrer, referrer},
		{dimensionDevice, device},
		{dimensionBrowser, browser},
	} {
		batch.Queue(`
			INSERT INTO analytics_counters (link_id, day, dimension, label, count)
			VALUES ($1, $2::date, $3, $4, 1)
			ON CONFLICT (link_id, day, dimension, label)
			DO UPDATE SET count = analytics_counters.count + 1`,
			linkID, day, c.dimension, c.label)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to record analytics event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit analytics event: %w", err)
	}
	return nil
}

// ListByLink returns all buckets for a link, most recent day first, with
// the classification maps assembled from the counter rows.
func (r *AnalyticsRepository) ListByLink(ctx context.Context, linkID int64) ([]domain.AnalyticsBucket, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT day, clicks
		FROM analytics_buckets
		WHERE link_id = $1
		ORDER BY day DESC`,
		linkID)
	if err != nil {
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}
	defer rows.Close()

	buckets := []domain.AnalyticsBucket{}
	index := map[string]int{}
	for rows.Next() {
		var day time.Time
		var clicks int64
		if err := rows.Scan(&day, &clicks); err != nil {
			return nil, fmt.Errorf("failed to scan bucket: %w", err)
		}
		b := emptyBucket(linkID, day.Format("2006-01-02"))
		b.Clicks = clicks
		index[b.Day] = len(buckets)
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read buckets: %w", err)
	}

	counterRows, err := r.pool.Query(ctx, `
		SELECT day, dimension, label, count
		FROM analytics_counters
		WHERE link_id = $1`,
		linkID)
	if err != nil {
		return nil, fmt.Errorf("failed to list counters: %w", err)
	}
	defer counterRows.Close()

	for counterRows.Next() {
		var day time.Time
		var dimension, label string
		var count int64
		if err := counterRows.Scan(&day, &dimension, &label, &count); err != nil {
			return nil, fmt.Errorf("failed to scan counter: %w", err)
		}
		i, ok := index[day.Format("2006-01-02")]
		if !ok {
			continue
		}
		switch dimension {
		case dimensionReferrer:
			buckets[i].Referrers[label] = count
		case dimensionDevice:
			buckets[i].Devices[label] = count
		case dimensionBrowser:
			buckets[i].Browsers[label] = count
		}
	}
	if err := counterRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read counters: %w", err)
	}

	return buckets, nil
}

func (r *AnalyticsRepository) getBucket(ctx context.Context, linkID int64, day string) (domain.AnalyticsBucket, error) {
	bucket := emptyBucket(linkID, day)
	err := r.pool.QueryRow(ctx, `
		SELECT clicks FROM analytics_buckets
		WHERE link_id = $1 AND day = $2::date`,
		linkID, day).Scan(&bucket.Clicks)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AnalyticsBucket{}, pgx.ErrNoRows
		}
		return domain.AnalyticsBucket{}, fmt.Errorf("failed to get bucket: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT dimension, label, count
		FROM analytics_counters
		WHERE link_id = $1 AND day = $2::date`,
		linkID, day)
	if err != nil {
		return domain.AnalyticsBucket{}, fmt.Errorf("failed to get counters: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var dimension, label string
		var count int64
		if err := rows.Scan(&dimension, &label, &count); err != nil {
			return domain.AnalyticsBucket{}, fmt.Errorf("failed to scan counter: %w", err)
		}
		switch dimension {
		case dimensionReferrer:
			bucket.Referrers[label] = count
		case dimensionDevice:
			bucket.Devices[label] = count
		case dimensionBrowser:
			bucket.Browsers[label] = count
		}
	}
	if err := rows.Err(); err != nil {
		return domain.AnalyticsBucket{}, fmt.Errorf("failed to read counters: %w", err)
	}

	return bucket, nil
}

func emptyBucket(linkID int64, day string) domain.AnalyticsBucket {
	return domain.AnalyticsBucket{
		LinkID:    linkID,
		Day:       day,
		Referrers: map[string]int64{},
		Devices:   map[string]int64{},
		Browsers:  map[string]int64{},
	}
}
