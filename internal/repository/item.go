package repository

import (
	"context"
	"time"

	"github.com/jeswinthayil/Lostandfound/internal/domain"
)

// SortKey selects the ordering of a listing. Empty means unspecified.
type SortKey string

const (
	SortByDate     SortKey = "date"     // newest first
	SortByStatus   SortKey = "status"   // "found" before "lost"
	SortByCategory SortKey = "category" // alphabetical by category
)

// ListItemsInput holds the optional, conjunctive listing filters.
// Zero values mean "no filter".
type ListItemsInput struct {
	Status     domain.ItemStatus
	CategoryID string
	Location   string
	Claimed    *bool
	TitleLike  string // case-insensitive substring
	SortBy     SortKey
}

type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) (*domain.Item, error)
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	List(ctx context.Context, input ListItemsInput) ([]*domain.Item, error)
	ListByPoster(ctx context.Context, posterEmail string) ([]*domain.Item, error)
	// Search matches keyword case-insensitively against title,
	// description, and location.
	Search(ctx context.Context, keyword string) ([]*domain.Item, error)

	// AddContactRequest atomically adds requester to the item's contact
	// set. Adding an existing member is a no-op.
	AddContactRequest(ctx context.Context, itemID, requesterEmail string) error

	// MarkClaimed flips the claimed flag, conditioned on the item being
	// unclaimed, so only the first of two racing claims succeeds.
	// domain.ErrAlreadyClaimed when no row was affected.
	MarkClaimed(ctx context.Context, itemID string, claimedAt time.Time) error

	// DeleteOwned deletes an item only when owned by posterEmail.
	// A non-owned item is indistinguishable from an absent one: both
	// return domain.ErrItemNotFound, so existence is not leaked.
	DeleteOwned(ctx context.Context, id, posterEmail string) error
	Delete(ctx context.Context, id string) error

	// Retention sweep predicates. Each returns the number of rows removed.
	DeleteClaimedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteUnclaimedBefore(ctx context.Context, cutoff time.Time) (int64, error)

	Count(ctx context.Context) (int64, error)
	CountClaimed(ctx context.Context) (int64, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Delete(ctx context.Context, id string) error
}
