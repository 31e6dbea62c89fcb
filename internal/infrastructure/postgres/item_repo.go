package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jeswinthayil/Lostandfound/internal/domain"
	"github.com/jeswinthayil/Lostandfound/internal/repository"
)

const itemColumns = `id, title, description, category_id, status, location,
	       photo_url, posted_by, contact_requests, claimed, claimed_at, created_at`

type ItemRepository struct {
	pool *pgxpool.Pool
}

func NewItemRepository(pool *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{pool: pool}
}

func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	query := `
		INSERT INTO items (title, description, category_id, status, location, photo_url, posted_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + itemColumns

	row := r.pool.QueryRow(ctx, query,
		item.Title,
		item.Description,
		item.CategoryID,
		item.Status,
		item.Location,
		item.PhotoURL,
		item.PostedBy,
	)
	return scanItem(row)
}

func (r *ItemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
	return scanItem(row)
}

func (r *ItemRepository) List(ctx context.Context, input repository.ListItemsInput) ([]*domain.Item, error) {
	var args []any
	where := []string{"TRUE"}

	if input.Status != "" {
		args = append(args, input.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if input.CategoryID != "" {
		args = append(args, input.CategoryID)
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if input.Location != "" {
		args = append(args, input.Location)
		where = append(where, fmt.Sprintf("location = $%d", len(args)))
	}
	if input.Claimed != nil {
		args = append(args, *input.Claimed)
		where = append(where, fmt.Sprintf("claimed = $%d", len(args)))
	}
	if input.TitleLike != "" {
		args = append(args, "%"+input.TitleLike+"%")
		where = append(where, fmt.Sprintf("title ILIKE $%d", len(args)))
	}

	var orderBy string
	switch input.SortBy {
	case repository.SortByDate:
		orderBy = " ORDER BY created_at DESC"
	case repository.SortByStatus:
		orderBy = " ORDER BY status ASC"
	case repository.SortByCategory:
		orderBy = " ORDER BY category_id ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM items WHERE %s%s`,
		itemColumns, strings.Join(where, " AND "), orderBy)

	return r.queryItems(ctx, query, args...)
}

func (r *ItemRepository) ListByPoster(ctx context.Context, posterEmail string) ([]*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
		WHERE posted_by = $1 ORDER BY created_at DESC`
	return r.queryItems(ctx, query, posterEmail)
}

func (r *ItemRepository) Search(ctx context.Context, keyword string) ([]*domain.Item, error) {
	pattern := "%" + keyword + "%"
	query := `SELECT ` + itemColumns + ` FROM items
		WHERE title ILIKE $1 OR description ILIKE $1 OR location ILIKE $1
		ORDER BY created_at DESC`
	return r.queryItems(ctx, query, pattern)
}

func (r *ItemRepository) AddContactRequest(ctx context.Context, itemID, requesterEmail string) error {
	// The NOT ... ANY predicate makes the append idempotent under
	// concurrent requests: the row-level update is atomic, so a
	// duplicate member can never be appended.
	_, err := r.pool.Exec(ctx, `
		UPDATE items
		SET    contact_requests = array_append(contact_requests, $2)
		WHERE  id = $1 AND NOT ($2 = ANY(contact_requests))`,
		itemID, requesterEmail)
	if err != nil {
		return fmt.Errorf("add contact request: %w", err)
	}
	return nil
}

func (r *ItemRepository) MarkClaimed(ctx context.Context, itemID string, claimedAt time.Time) error {
	// Conditioned on claimed = FALSE so that of two racing claims only
	// the first commits; the loser affects zero rows.
	tag, err := r.pool.Exec(ctx, `
		UPDATE items
		SET    claimed = TRUE, claimed_at = $2
		WHERE  id = $1 AND claimed = FALSE`,
		itemID, claimedAt)
	if err != nil {
		return fmt.Errorf("mark claimed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyClaimed
	}
	return nil
}

func (r *ItemRepository) DeleteOwned(ctx context.Context, id, posterEmail string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM items WHERE id = $1 AND posted_by = $2`, id, posterEmail)
	if err != nil {
		return fmt.Errorf("delete owned item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *ItemRepository) DeleteClaimedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM items WHERE claimed = TRUE AND claimed_at <= $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete claimed items: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *ItemRepository) DeleteUnclaimedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM items WHERE claimed = FALSE AND created_at <= $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete unclaimed items: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *ItemRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM items`).Scan(&n)
	return n, err
}

func (r *ItemRepository) CountClaimed(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM items WHERE claimed = TRUE`).Scan(&n)
	return n, err
}

func (r *ItemRepository) queryItems(ctx context.Context, query string, args ...any) ([]*domain.Item, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// pgx.Row and pgx.Rows both implement this.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var i domain.Item
	err := row.Scan(
		&i.ID, &i.Title, &i.Description, &i.CategoryID, &i.Status, &i.Location,
		&i.PhotoURL, &i.PostedBy, &i.ContactRequests, &i.Claimed, &i.ClaimedAt, &i.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	return &i, nil
}
