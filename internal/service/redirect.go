package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"shortlink/internal/classify"
	"shortlink/internal/domain"
	"shortlink/internal/expiry"
	"shortlink/internal/validation"
)

var (
	ErrLinkNotFound = errors.New("link not found")
	ErrSlugTaken    = errors.New("slug already taken")
)

// RedirectService handles inbound short-link requests: resolve the slug,
// apply the expiry policy, record the click and the analytics event, and
// decide the redirect. Only resolution failures are fatal; everything after
// a successful, non-expired resolution is best-effort relative to the
// user-facing redirect.
type RedirectService struct {
	links     LinkDirectory
	analytics AnalyticsLedger
	realtime  ClickCounter
	logger    *slog.Logger
}

func NewRedirectService(
	links LinkDirectory,
	analytics AnalyticsLedger,
	realtime ClickCounter,
	logger *slog.Logger,
) *RedirectService {
	return &RedirectService{
		links:     links,
		analytics: analytics,
		realtime:  realtime,
		logger:    logger,
	}
}

func (s *RedirectService) HandleRedirect(ctx context.Context, rawSlug string, visit domain.Visit) (domain.RedirectOutcome, error) {
	slug := validation.NormalizeSlug(rawSlug)
	if validation.ValidateSlug(slug) != nil {
		// A slug that cannot exist cannot resolve; skip the lookup.
		return domain.RedirectOutcome{Status: domain.RedirectNotFound}, nil
	}

	link, err := s.links.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RedirectOutcome{Status: domain.RedirectNotFound}, nil
		}
		return domain.RedirectOutcome{}, fmt.Errorf("failed to resolve slug: %w", err)
	}

	if expiry.Expired(link, visit.Now) {
		if !link.IsExpired {
			// Persist the latch. The expired response does not depend on
			// this write; a failure is logged and the next request retries.
			if err := s.links.MarkExpired(ctx, slug); err != nil {
				s.logger.Error("failed to persist expiry latch",
					slog.String("slug", slug),
					slog.String("error", err.Error()))
			}
		}
		return domain.RedirectOutcome{Status: domain.RedirectExpired}, nil
	}

	updated, err := s.links.RecordClick(ctx, slug, visit.Now)
	if err != nil {
		// The click is lost but the visitor still gets their redirect.
		s.logger.Error("failed to record click",
			slog.String("slug", slug),
			slog.String("error", err.Error()))
		return domain.RedirectOutcome{
			Status:    domain.RedirectFound,
			TargetURL: link.OriginalURL,
		}, nil
	}

	s.recordAnalytics(ctx, updated, slug, visit)

	return domain.RedirectOutcome{
		Status:    domain.RedirectFound,
		TargetURL: updated.OriginalURL,
	}, nil
}

func (s *RedirectService) recordAnalytics(ctx context.Context, link domain.Link, slug string, visit domain.Visit) {
	day := domain.DayOf(visit.Now)
	referrer, device, browser := classify.Labels(visit)

	if err := s.analytics.RecordEvent(ctx, link.ID, day, referrer, device, browser); err != nil {
		s.logger.Error("failed to record analytics event",
			slog.String("slug", slug),
			slog.String("day", day),
			slog.String("error", err.Error()))
	}

	if err := s.realtime.Incr(ctx, slug); err != nil {
		s.logger.Warn("failed to bump realtime counter",
			slog.String("slug", slug),
			slog.String("error", err.Error()))
	}
}
