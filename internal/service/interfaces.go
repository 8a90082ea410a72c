package service

import (
	"context"
	"time"

	"shortlink/internal/domain"
)

// LinkDirectory is the slice of the link store the redirect path needs.
// RecordClick and MarkExpired must be atomic at the storage layer; the
// redirect path never read-modifies-writes link state.
type LinkDirectory interface {
	FindBySlug(ctx context.Context, slug string) (domain.Link, error)
	RecordClick(ctx context.Context, slug string, now time.Time) (domain.Link, error)
	MarkExpired(ctx context.Context, slug string) error
}

// AnalyticsLedger holds per-(link, day) aggregate buckets.
type AnalyticsLedger interface {
	EnsureBucket(ctx context.Context, linkID int64, day string) (domain.AnalyticsBucket, error)
	RecordEvent(ctx context.Context, linkID int64, day, referrer, device, browser string) error
	ListByLink(ctx context.Context, linkID int64) ([]domain.AnalyticsBucket, error)
}

// ClickCounter is the rolling realtime counter; every call is best-effort.
type ClickCounter interface {
	Incr(ctx context.Context, slug string) error
	Get(ctx context.Context, slug string) (int64, error)
}

// LinkStore is the link-management view of the link store.
type LinkStore interface {
	NextID(ctx context.Context) (int64, error)
	Create(ctx context.Context, link *domain.Link) error
	FindByOwnerAndID(ctx context.Context, ownerID, id int64) (domain.Link, error)
	List(ctx context.Context, ownerID int64, search string) ([]domain.Link, error)
	Update(ctx context.Context, link *domain.Link) error
	Delete(ctx context.Context, ownerID, id int64) error
}

// OwnerLinkFinder resolves a slug within one owner's links.
type OwnerLinkFinder interface {
	FindByOwnerAndSlug(ctx context.Context, ownerID int64, slug string) (domain.Link, error)
}

type CodeGenerator interface {
	Generate(id int64) (string, error)
}
