package usecase

import (
	"context"
	"fmt"

	"github.com/jeswinthayil/Lostandfound/internal/domain"
	"github.com/jeswinthayil/Lostandfound/internal/repository"
)

type AdminUsecase struct {
	items repository.ItemRepository
	users repository.UserRepository
}

func NewAdminUsecase(items repository.ItemRepository, users repository.UserRepository) *AdminUsecase {
	return &AdminUsecase{items: items, users: users}
}

func (u *AdminUsecase) ListAllItems(ctx context.Context) ([]*domain.Item, error) {
	items, err := u.items.List(ctx, repository.ListItemsInput{})
	if err != nil {
		return nil, fmt.Errorf("list all items: %w", err)
	}
	return items, nil
}

// DeleteItem removes any item regardless of owner.
func (u *AdminUsecase) DeleteItem(ctx context.Context, id string) error {
	return u.items.Delete(ctx, id)
}

type Stats struct {
	Users   int64 `json:"users"`
	Items   int64 `json:"items"`
	Claimed int64 `json:"claimed"`
}

func (u *AdminUsecase) Stats(ctx context.Context) (*Stats, error) {
	users, err := u.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	items, err := u.items.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}
	claimed, err := u.items.CountClaimed(ctx)
	if err != nil {
		return nil, fmt.Errorf("count claimed items: %w", err)
	}
	return &Stats{Users: users, Items: items, Claimed: claimed}, nil
}
