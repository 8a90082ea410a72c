package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"shortlink/internal/domain"
	"shortlink/internal/validation"
)

// AnalyticsService is the read-only reporting projection: an owner's link
// summary plus its daily buckets, most recent day first.
type AnalyticsService struct {
	links    OwnerLinkFinder
	ledger   AnalyticsLedger
	realtime ClickCounter
	logger   *slog.Logger
}

func NewAnalyticsService(
	links OwnerLinkFinder,
	ledger AnalyticsLedger,
	realtime ClickCounter,
	logger *slog.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		links:    links,
		ledger:   ledger,
		realtime: realtime,
		logger:   logger,
	}
}

func (s *AnalyticsService) LinkAnalytics(ctx context.Context, ownerID int64, rawSlug string) (*domain.LinkAnalytics, error) {
	slug := validation.NormalizeSlug(rawSlug)

	link, err := s.links.FindByOwnerAndSlug(ctx, ownerID, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to find link: %w", err)
	}

	buckets, err := s.ledger.ListByLink(ctx, link.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list analytics: %w", err)
	}

	// The realtime counter is decoration on top of the durable buckets; a
	// Redis hiccup must not fail the report.
	rt, err := s.realtime.Get(ctx, slug)
	if err != nil {
		s.logger.Warn("failed to read realtime counter",
			slog.String("slug", slug),
			slog.String("error", err.Error()))
		rt = 0
	}

	return &domain.LinkAnalytics{
		Link:           link,
		RealtimeClicks: rt,
		Buckets:        buckets,
	}, nil
}
