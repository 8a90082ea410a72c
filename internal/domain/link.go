package domain

import "time"

// Link is a short link as stored in the link directory.
//
// ClickCount, LastClickedAt and IsExpired are mutated exclusively by the
// redirect path; everything else belongs to link management. IsExpired is a
// one-way latch: the redirect path only ever sets it, an owner edit may
// reset it.
type Link struct {
	ID            int64      `json:"id"`
	OwnerID       int64      `json:"owner_id"`
	Slug          string     `json:"slug"`
	OriginalURL   string     `json:"original_url"`
	Domain        string     `json:"domain,omitempty"`
	ClickCount    int64      `json:"click_count"`
	LastClickedAt *time.Time `json:"last_clicked_at,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	MaxClicks     *int64     `json:"max_clicks,omitempty"`
	IsExpired     bool       `json:"is_expired"`
	CreatedAt     time.Time  `json:"created_at"`
}

type CreateLinkRequest struct {
	OriginalURL string     `json:"original_url"`
	CustomSlug  string     `json:"custom_slug,omitempty"`
	Domain      string     `json:"domain,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	MaxClicks   *int64     `json:"max_clicks,omitempty"`
}

// UpdateLinkRequest carries a partial edit. Nil means "leave unchanged";
// for ExpiresAt and MaxClicks, a set-to-null is expressed by ClearExpiresAt
// and ClearMaxClicks.
type UpdateLinkRequest struct {
	OriginalURL    string     `json:"original_url,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	ClearExpiresAt bool       `json:"clear_expires_at,omitempty"`
	MaxClicks      *int64     `json:"max_clicks,omitempty"`
	ClearMaxClicks bool       `json:"clear_max_clicks,omitempty"`
}

type LinkResponse struct {
	Link     Link   `json:"link"`
	ShortURL string `json:"short_url"`
}

type ListLinksResponse struct {
	Links []Link `json:"links"`
}
