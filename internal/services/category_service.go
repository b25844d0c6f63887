package services

import (
	"context"

	"github.com/smartsella/syntecxhub-shop-api/internal/model"
	"github.com/smartsella/syntecxhub-shop-api/internal/repository"
)

type CategoryService struct {
	Repo *repository.CategoryRepository
}

func NewCategoryService(r *repository.CategoryRepository) *CategoryService {
	return &CategoryService{Repo: r}
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.Repo.List(ctx)
}

func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	return s.Repo.GetBySlug(ctx, slug)
}

func (s *CategoryService) Create(ctx context.Context, c *model.Category) (*model.Category, error) {
	c.Slug = Slugify(c.Name)
	id, err := s.Repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	return s.Repo.GetByID(ctx, id)
}

func (s *CategoryService) Update(ctx context.Context, c *model.Category) (*model.Category, error) {
	existing, err := s.Repo.GetByID(ctx, c.CategoryID)
	if err != nil {
		return nil, err
	}
	if c.Name != existing.Name {
		c.Slug = Slugify(c.Name)
	} else {
		c.Slug = existing.Slug
	}
	if err := s.Repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.Repo.GetByID(ctx, c.CategoryID)
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}
