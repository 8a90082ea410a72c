package handler

import (
	"context"

	"shortlink/internal/domain"
)

type RedirectService interface {
	HandleRedirect(ctx context.Context, slug string, visit domain.Visit) (domain.RedirectOutcome, error)
}

type LinkService interface {
	Create(ctx context.Context, ownerID int64, req domain.CreateLinkRequest) (*domain.LinkResponse, error)
	List(ctx context.Context, ownerID int64, search string) ([]domain.Link, error)
	Update(ctx context.Context, ownerID, id int64, req domain.UpdateLinkRequest) (*domain.Link, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

type AnalyticsService interface {
	LinkAnalytics(ctx context.Context, ownerID int64, slug string) (*domain.LinkAnalytics, error)
}

type URLValidator interface {
	ValidateURL(url string) error
}

type UserAgentParser interface {
	ParseUserAgent(rawUA string) domain.UserAgentInfo
}
