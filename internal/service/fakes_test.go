package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"shortlink/internal/domain"
)

// fakeDirectory is an in-memory link directory with the same atomicity
// guarantees the Postgres implementation provides: RecordClick is a single
// locked increment and MarkExpired only ever latches TRUE.
type fakeDirectory struct {
	mu    sync.Mutex
	links map[string]domain.Link
}

func newFakeDirectory(links ...domain.Link) *fakeDirectory {
	d := &fakeDirectory{links: make(map[string]domain.Link)}
	for _, l := range links {
		d.links[l.Slug] = l
	}
	return d
}

func (d *fakeDirectory) FindBySlug(_ context.Context, slug string) (domain.Link, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	link, ok := d.links[slug]
	if !ok {
		return domain.Link{}, pgx.ErrNoRows
	}
	return link, nil
}

func (d *fakeDirectory) RecordClick(_ context.Context, slug string, now time.Time) (domain.Link, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	link, ok := d.links[slug]
	if !ok {
		return domain.Link{}, pgx.ErrNoRows
	}
	link.ClickCount++
	link.LastClickedAt = &now
	d.links[slug] = link
	return link, nil
}

func (d *fakeDirectory) MarkExpired(_ context.Context, slug string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if link, ok := d.links[slug]; ok {
		link.IsExpired = true
		d.links[slug] = link
	}
	return nil
}

func (d *fakeDirectory) get(slug string) domain.Link {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.links[slug]
}

// fakeLedger mirrors the ensure-then-increment shape of the real ledger
// under one lock.
type fakeLedger struct {
	mu      sync.Mutex
	buckets map[int64]map[string]*domain.AnalyticsBucket
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{buckets: make(map[int64]map[string]*domain.AnalyticsBucket)}
}

func (l *fakeLedger) EnsureBucket(_ context.Context, linkID int64, day string) (domain.AnalyticsBucket, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return *l.ensureLocked(linkID, day), nil
}

func (l *fakeLedger) RecordEvent(_ context.Context, linkID int64, day, referrer, device, browser string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	b := l.ensureLocked(linkID, day)
	b.Clicks++
	b.Referrers[referrer]++
	b.Devices[device]++
	b.Browsers[browser]++
	return nil
}

func (l *fakeLedger) ListByLink(_ context.Context, linkID int64) ([]domain.AnalyticsBucket, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	days := l.buckets[linkID]
	out := make([]domain.AnalyticsBucket, 0, len(days))
	for _, b := range days {
		out = append(out, *b)
	}
	// Most recent day first.
	for i := range out {
		for j := i + 1; j < len(out); j++ {
			if out[j].Day > out[i].Day {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (l *fakeLedger) ensureLocked(linkID int64, day string) *domain.AnalyticsBucket {
	days, ok := l.buckets[linkID]
	if !ok {
		days = make(map[string]*domain.AnalyticsBucket)
		l.buckets[linkID] = days
	}
	b, ok := days[day]
	if !ok {
		b = &domain.AnalyticsBucket{
			LinkID:    linkID,
			Day:       day,
			Referrers: map[string]int64{},
			Devices:   map[string]int64{},
			Browsers:  map[string]int64{},
		}
		days[day] = b
	}
	return b
}

func (l *fakeLedger) bucket(linkID int64, day string) (domain.AnalyticsBucket, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	days, ok := l.buckets[linkID]
	if !ok {
		return domain.AnalyticsBucket{}, false
	}
	b, ok := days[day]
	if !ok {
		return domain.AnalyticsBucket{}, false
	}
	return *b, true
}

type fakeCounter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: make(map[string]int64)}
}

func (c *fakeCounter) Incr(_ context.Context, slug string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[slug]++
	return nil
}

func (c *fakeCounter) Get(_ context.Context, slug string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[slug], nil
}
