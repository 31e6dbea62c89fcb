package usecase

import (
	"context"
	"fmt"

	"github.com/jeswinthayil/Lostandfound/internal/domain"
	"github.com/jeswinthayil/Lostandfound/internal/repository"
)

type CategoryUsecase struct {
	categories repository.CategoryRepository
}

func NewCategoryUsecase(categories repository.CategoryRepository) *CategoryUsecase {
	return &CategoryUsecase{categories: categories}
}

func (u *CategoryUsecase) List(ctx context.Context) ([]*domain.Category, error) {
	categories, err := u.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (u *CategoryUsecase) Create(ctx context.Context, name, description string) (*domain.Category, error) {
	created, err := u.categories.Create(ctx, &domain.Category{Name: name, Description: description})
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return created, nil
}

func (u *CategoryUsecase) Delete(ctx context.Context, id string) error {
	return u.categories.Delete(ctx, id)
}
