package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"shortlink/internal/domain"
)

const linkColumns = `id, owner_id, slug, original_url, domain, click_count,
	last_clicked_at, expires_at, max_clicks, is_expired, created_at`

type LinkRepository struct {
	pool *pgxpool.Pool
}

func NewLinkRepository(pool *pgxpool.Pool) *LinkRepository {
	return &LinkRepository{pool: pool}
}

func (r *LinkRepository) NextID(ctx context.Context) (int64, error) {
	var nextID int64
	err := r.pool.QueryRow(ctx, "SELECT nextval('links_id_seq')").Scan(&nextID)
	if err != nil {
		return 0, fmt.Errorf("failed to get next link id: %w", err)
	}
	return nextID, nil
}

func (r *LinkRepository) Create(ctx context.Context, link *domain.Link) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO links (id, owner_id, slug, original_url, domain, expires_at, max_clicks)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		link.ID, link.OwnerID, link.Slug, link.OriginalURL, link.Domain,
		link.ExpiresAt, link.MaxClicks,
	).Scan(&link.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("failed to create link: %w", err)
	}
	return nil
}

func (r *LinkRepository) FindBySlug(ctx context.Context, slug string) (domain.Link, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+linkColumns+` FROM links WHERE slug = $1`, slug)
	return scanLink(row)
}

func (r *LinkRepository) FindByOwnerAndSlug(ctx context.Context, ownerID int64, slug string) (domain.Link, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+linkColumns+` FROM links WHERE owner_id = $1 AND slug = $2`,
		ownerID, slug)
	return scanLink(row)
}

func (r *LinkRepository) FindByOwnerAndID(ctx context.Context, ownerID, id int64) (domain.Link, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+linkColumns+` FROM links WHERE owner_id = $1 AND id = $2`,
		ownerID, id)
	return scanLink(row)
}

func (r *LinkRepository) List(ctx context.Context, ownerID int64, search string) ([]domain.Link, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+linkColumns+`
		FROM links
		WHERE owner_id = $1
		  AND ($2 = '' OR slug ILIKE '%' || $2 || '%' OR original_url ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC`,
		ownerID, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	links := []domain.Link{}
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read links: %w", err)
	}
	return links, nil
}

// RecordClick increments the click counter and stamps last_clicked_at in a
// single statement. The increment happens inside the store, never as a
// read-modify-write in the handler, so concurrent redirects for the same
// slug cannot lose updates. The post-increment row is returned.
func (r *LinkRepository) RecordClick(ctx context.Context, slug string, now time.Time) (domain.Link, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE links
		SET click_count = click_count + 1, last_clicked_at = $2
		WHERE slug = $1
		RETURNING `+linkColumns,
		slug, now)
	return scanLink(row)
}

// MarkExpired latches is_expired. It only ever writes TRUE: a link never
// un-expires through this path, so calling it twice or racing it with
// RecordClick is harmless.
func (r *LinkRepository) MarkExpired(ctx context.Context, slug string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE links SET is_expired = TRUE WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("failed to mark link expired: %w", err)
	}
	return nil
}

// Update rewrites the owner-editable fields, including the expiry latch,
// which an explicit owner edit may reset.
func (r *LinkRepository) Update(ctx context.Context, link *domain.Link) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE links
		SET original_url = $3, expires_at = $4, max_clicks = $5, is_expired = $6
		WHERE owner_id = $1 AND id = $2`,
		link.OwnerID, link.ID, link.OriginalURL, link.ExpiresAt,
		link.MaxClicks, link.IsExpired)
	if err != nil {
		return fmt.Errorf("failed to update link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *LinkRepository) Delete(ctx context.Context, ownerID, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM links WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanLink(row pgx.Row) (domain.Link, error) {
	var link domain.Link
	err := row.Scan(
		&link.ID, &link.OwnerID, &link.Slug, &link.OriginalURL, &link.Domain,
		&link.ClickCount, &link.LastClickedAt, &link.ExpiresAt,
		&link.MaxClicks, &link.IsExpired, &link.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Link{}, pgx.ErrNoRows
		}
		return domain.Link{}, fmt.Errorf("failed to scan link: %w", err)
	}
	return link, nil
}
