package repository

import (
	"context"
	"errors"

	"github.com/smartsella/syntecxhub-shop-api/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrCategoryNotFound = errors.New("category not found")
var ErrDuplicateCategory = errors.New("category already exists")

type CategoryRepository struct {
	DB *pgxpool.Pool
}

func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

const categoryColumns = `categoryid, name, slug, description, image_url, parentid, is_active, featured, created_at`

func scanCategory(row pgx.Row) (*model.Category, error) {
	var c model.Category
	err := row.Scan(&c.CategoryID, &c.Name, &c.Slug, &c.Description, &c.ImageURL,
		&c.ParentID, &c.IsActive, &c.Featured, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE is_active = true ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *c)
	}
	return list, rows.Err()
}

func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	return scanCategory(r.DB.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug))
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	return scanCategory(r.DB.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE categoryid = $1`, id))
}

func (r *CategoryRepository) Create(ctx context.Context, c *model.Category) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	var id int64
	query := `
		INSERT INTO categories (name, slug, description, image_url, parentid, is_active, featured, created_at)
		VALUES ($1, $2, $3, $4, $5, true, $6, now())
		RETURNING categoryid`
	err := r.DB.QueryRow(ctx, query, c.Name, c.Slug, c.Description, c.ImageURL, c.ParentID, c.Featured).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrDuplicateCategory
		}
		return 0, err
	}
	return id, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *model.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	query := `
		UPDATE categories
		SET name=$1, slug=$2, description=$3, image_url=$4, parentid=$5, is_active=$6, featured=$7
		WHERE categoryid=$8`
	tag, err := r.DB.Exec(ctx, query, c.Name, c.Slug, c.Description, c.ImageURL,
		c.ParentID, c.IsActive, c.Featured, c.CategoryID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateCategory
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE categories SET is_active = false WHERE categoryid = $1 AND is_active`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
