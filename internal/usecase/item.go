package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jeswinthayil/Lostandfound/internal/domain"
	"github.com/jeswinthayil/Lostandfound/internal/email"
	"github.com/jeswinthayil/Lostandfound/internal/metrics"
	"github.com/jeswinthayil/Lostandfound/internal/repository"
	"github.com/jeswinthayil/Lostandfound/internal/storage"
)

// ItemUsecase drives the item lifecycle: posting, the contact-gated
// claim transition, listing, and owner deletion. Nothing here moves an
// item back to unclaimed or shrinks its contact set.
type ItemUsecase struct {
	items  repository.ItemRepository
	photos storage.PhotoStore
	email  email.Sender
	logger *slog.Logger
	now    func() time.Time
}

func NewItemUsecase(
	items repository.ItemRepository,
	photos storage.PhotoStore,
	emailSender email.Sender,
	logger *slog.Logger,
	now func() time.Time,
) *ItemUsecase {
	return &ItemUsecase{
		items:  items,
		photos: photos,
		email:  emailSender,
		logger: logger.With("component", "item_usecase"),
		now:    now,
	}
}

type PostItemInput struct {
	Title       string
	Description string
	CategoryID  string
	Status      domain.ItemStatus
	Location    string

	// Optional photo upload. Photo == nil means no photo.
	Photo     io.Reader
	PhotoName string
	PhotoSize int64
}

func (u *ItemUsecase) PostItem(ctx context.Context, poster string, input PostItemInput) (*domain.Item, error) {
	item := &domain.Item{
		Title:       input.Title,
		Description: input.Description,
		CategoryID:  input.CategoryID,
		Status:      input.Status,
		Location:    input.Location,
		PostedBy:    poster,
	}

	if input.Photo != nil {
		url, err := u.photos.Upload(ctx, input.PhotoName, input.Photo, input.PhotoSize)
		if err != nil {
			return nil, fmt.Errorf("upload photo: %w", err)
		}
		item.PhotoURL = &url
	}

	created, err := u.items.Create(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	metrics.ItemsPostedTotal.WithLabelValues(string(created.Status)).Inc()
	return created, nil
}

// RecordContact adds requester to the item's contact set and notifies
// the poster. Recording and notification are independent effects: a
// failed email never rolls back the contact, it is only logged.
func (u *ItemUsecase) RecordContact(ctx context.Context, itemID, requester, message string) error {
	if strings.TrimSpace(message) == "" {
		return domain.ErrEmptyMessage
	}

	item, err := u.items.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.PostedBy == requester {
		return domain.ErrSelfContact
	}

	if err := u.items.AddContactRequest(ctx, itemID, requester); err != nil {
		return err
	}
	metrics.ContactRequestsTotal.Inc()

	subject, body := email.ContactBody(requester, item.Title, message)
	if err := u.email.Send(ctx, item.PostedBy, subject, body); err != nil {
		u.logger.ErrorContext(ctx, "notify poster", "item_id", itemID, "error", err)
	}
	return nil
}

// MarkClaimed flips an item to claimed. The claimant must have
// contacted the poster first and may never be the poster. The
// store-level update is conditioned on the item being unclaimed, so a
// race-losing claim surfaces domain.ErrAlreadyClaimed.
func (u *ItemUsecase) MarkClaimed(ctx context.Context, itemID, claimant string) error {
	item, err := u.items.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.PostedBy == claimant {
		metrics.ClaimsTotal.WithLabelValues("self_rejected").Inc()
		return domain.ErrSelfClaim
	}
	if item.Claimed {
		metrics.ClaimsTotal.WithLabelValues("already_claimed").Inc()
		return domain.ErrAlreadyClaimed
	}
	if !item.HasContactFrom(claimant) {
		metrics.ClaimsTotal.WithLabelValues("gate_rejected").Inc()
		return domain.ErrClaimGate
	}

	if err := u.items.MarkClaimed(ctx, itemID, u.now()); err != nil {
		if errors.Is(err, domain.ErrAlreadyClaimed) {
			metrics.ClaimsTotal.WithLabelValues("already_claimed").Inc()
		}
		return err
	}
	metrics.ClaimsTotal.WithLabelValues("claimed").Inc()
	return nil
}

func (u *ItemUsecase) List(ctx context.Context, input repository.ListItemsInput) ([]*domain.Item, error) {
	items, err := u.items.List(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (u *ItemUsecase) ListMine(ctx context.Context, poster string) ([]*domain.Item, error) {
	items, err := u.items.ListByPoster(ctx, poster)
	if err != nil {
		return nil, fmt.Errorf("list own items: %w", err)
	}
	return items, nil
}

func (u *ItemUsecase) Get(ctx context.Context, id string) (*domain.Item, error) {
	return u.items.GetByID(ctx, id)
}

func (u *ItemUsecase) Search(ctx context.Context, keyword string) ([]*domain.Item, error) {
	items, err := u.items.Search(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	return items, nil
}

// DeleteOwned removes the caller's own item. A non-owned id is
// reported as not found, deliberately indistinguishable from an absent
// one.
func (u *ItemUsecase) DeleteOwned(ctx context.Context, id, poster string) error {
	return u.items.DeleteOwned(ctx, id, poster)
}
