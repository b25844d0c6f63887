package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/smartsella/syntecxhub-shop-api/internal/model"
	"github.com/smartsella/syntecxhub-shop-api/internal/repository"
)

var (
	slugStrip    = regexp.MustCompile(`[^a-z0-9]+`)
	slugCollapse = regexp.MustCompile(`-+`)
)

// Slugify turns a display name into a URL slug: lowercase, non-alphanumerics
// to dashes, collapsed and trimmed.
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = slugStrip.ReplaceAllString(s, "-")
	s = slugCollapse.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

type ProductService struct {
	Products   *repository.ProductRepository
	Categories *repository.CategoryRepository
}

func NewProductService(pr *repository.ProductRepository, cr *repository.CategoryRepository) *ProductService {
	return &ProductService{Products: pr, Categories: cr}
}

// List pages through the active catalog with the given filter.
func (s *ProductService) List(ctx context.Context, f repository.ProductFilter) ([]model.Product, *model.Pagination, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 12
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	list, total, err := s.Products.List(ctx, f)
	if err != nil {
		return nil, nil, err
	}
	pages := (total + f.Limit - 1) / f.Limit
	return list, &model.Pagination{Total: total, Pages: pages, CurrentPage: f.Page, Limit: f.Limit}, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*model.Product, error) {
	return s.Products.GetByID(ctx, id)
}

func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return s.Products.GetBySlug(ctx, slug)
}

func (s *ProductService) Featured(ctx context.Context) ([]model.Product, error) {
	list, _, err := s.Products.List(ctx, repository.ProductFilter{FeaturedOnly: true, Limit: 12})
	return list, err
}

func (s *ProductService) NewArrivals(ctx context.Context, limit int) ([]model.Product, error) {
	return s.Products.NewArrivals(ctx, limit)
}

func (s *ProductService) Related(ctx context.Context, productID int64) ([]model.Product, error) {
	p, err := s.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.Products.Related(ctx, p.ProductID, p.CategoryID, 4)
}

// Create slugs the name, checks the category exists and inserts.
func (s *ProductService) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	if _, err := s.Categories.GetByID(ctx, p.CategoryID); err != nil {
		return nil, err
	}
	p.Slug = Slugify(p.Name)
	id, err := s.Products.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.Products.GetByID(ctx, id)
}

func (s *ProductService) Update(ctx context.Context, p *model.Product) (*model.Product, error) {
	existing, err := s.Products.GetByID(ctx, p.ProductID)
	if err != nil {
		return nil, err
	}
	if p.Name != existing.Name {
		p.Slug = Slugify(p.Name)
	} else {
		p.Slug = existing.Slug
	}
	if p.CategoryID != existing.CategoryID {
		if _, err := s.Categories.GetByID(ctx, p.CategoryID); err != nil {
			return nil, err
		}
	}
	p.CreatedBy = existing.CreatedBy
	if err := s.Products.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.Products.GetByID(ctx, p.ProductID)
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.Products.Delete(ctx, id)
}
