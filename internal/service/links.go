package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"shortlink/internal/domain"
	"shortlink/internal/expiry"
	"shortlink/internal/repository"
	"shortlink/internal/validation"
)

// LinkService is the link-management collaborator: it creates, lists,
// edits and deletes links on behalf of an authenticated owner. The
// redirect path only ever reads what this service has written.
type LinkService struct {
	links     LinkStore
	shortener CodeGenerator
	baseURL   string
}

func NewLinkService(links LinkStore, shortener CodeGenerator, baseURL string) *LinkService {
	return &LinkService{
		links:     links,
		shortener: shortener,
		baseURL:   baseURL,
	}
}

func (s *LinkService) Create(ctx context.Context, ownerID int64, req domain.CreateLinkRequest) (*domain.LinkResponse, error) {
	if err := validateLimits(req.ExpiresAt, req.MaxClicks, time.Now()); err != nil {
		return nil, err
	}

	id, err := s.links.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get next link id: %w", err)
	}

	slug := validation.NormalizeSlug(req.CustomSlug)
	if slug == "" {
		slug, err = s.shortener.Generate(id)
		if err != nil {
			return nil, fmt.Errorf("failed to generate slug: %w", err)
		}
	}
	if err := validation.ValidateSlug(slug); err != nil {
		return nil, err
	}

	link := &domain.Link{
		ID:          id,
		OwnerID:     ownerID,
		Slug:        slug,
		OriginalURL: req.OriginalURL,
		Domain:      req.Domain,
		ExpiresAt:   req.ExpiresAt,
		MaxClicks:   req.MaxClicks,
	}

	if err := s.links.Create(ctx, link); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create link: %w", err)
	}

	return &domain.LinkResponse{
		Link:     *link,
		ShortURL: fmt.Sprintf("%s/%s", s.baseURL, slug),
	}, nil
}

// List returns the owner's links, optionally filtered by a search term over
// slug and original URL. Expiry is evaluated per read so the listing shows
// links that lapsed since their last visit; the latch itself is only
// persisted by the redirect path.
func (s *LinkService) List(ctx context.Context, ownerID int64, search string) ([]domain.Link, error) {
	links, err := s.links.List(ctx, ownerID, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	now := time.Now()
	for i := range links {
		if expiry.Expired(links[i], now) {
			links[i].IsExpired = true
		}
	}
	return links, nil
}

// Update applies a partial edit. An owner edit is the one path allowed to
// reset the expiry latch: the flag is cleared and then re-evaluated against
// the edited limits.
func (s *LinkService) Update(ctx context.Context, ownerID, id int64, req domain.UpdateLinkRequest) (*domain.Link, error) {
	link, err := s.links.FindByOwnerAndID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to find link: %w", err)
	}

	// Only newly supplied limits are validated: a link whose existing
	// expiry already passed may still have its other fields edited.
	now := time.Now()
	if err := validateLimits(req.ExpiresAt, req.MaxClicks, now); err != nil {
		return nil, err
	}

	if req.OriginalURL != "" {
		link.OriginalURL = req.OriginalURL
	}
	if req.ClearExpiresAt {
		link.ExpiresAt = nil
	} else if req.ExpiresAt != nil {
		link.ExpiresAt = req.ExpiresAt
	}
	if req.ClearMaxClicks {
		link.MaxClicks = nil
	} else if req.MaxClicks != nil {
		link.MaxClicks = req.MaxClicks
	}

	link.IsExpired = false
	if expiry.Expired(link, now) {
		link.IsExpired = true
	}

	if err := s.links.Update(ctx, &link); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to update link: %w", err)
	}
	return &link, nil
}

func (s *LinkService) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.links.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrLinkNotFound
		}
		return fmt.Errorf("failed to delete link: %w", err)
	}
	return nil
}

func validateLimits(expiresAt *time.Time, maxClicks *int64, now time.Time) error {
	if expiresAt != nil && !expiresAt.After(now) {
		return validation.ErrExpiryInPast
	}
	if maxClicks != nil && *maxClicks <= 0 {
		return validation.ErrMaxClicksInvalid
	}
	return nil
}
