package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/smartsella/syntecxhub-shop-api/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProductNotFound = errors.New("product not found")
var ErrDuplicateSKU = errors.New("product with this SKU already exists")

// ProductFilter is the catalog listing query: search, category, price range,
// sort and pagination.
type ProductFilter struct {
	Search       string
	CategorySlug string
	MinPrice     *float64
	MaxPrice     *float64
	Brand        string
	FeaturedOnly bool
	Sort         string // whitelisted column, optionally "-" prefixed for DESC
	Page         int
	Limit        int
}

type ProductRepository struct {
	DB *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{DB: db}
}

const productColumns = `p.productid, p.name, p.slug, p.description, p.price, p.discount_price,
	p.categoryid, c.name, c.slug, p.brand, p.stock, p.sku, p.image_urls, p.tags,
	p.ratings, p.num_of_reviews, p.is_featured, p.is_active, p.created_by, p.created_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ProductID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.DiscountPrice,
		&p.CategoryID, &p.CategoryName, &p.CategorySlug, &p.Brand, &p.Stock, &p.SKU,
		&p.ImageURLs, &p.Tags, &p.Ratings, &p.NumOfReviews, &p.IsFeatured, &p.IsActive,
		&p.CreatedBy, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// sortColumns whitelists user-supplied sort keys.
var sortColumns = map[string]string{
	"price":      "p.price",
	"name":       "p.name",
	"ratings":    "p.ratings",
	"created_at": "p.created_at",
}

func (f *ProductFilter) buildWhere() (string, []any) {
	conds := []string{"p.is_active = true", "p.deleted_at IS NULL"}
	args := []any{}

	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		add(`(p.name ILIKE $%[1]d OR p.description ILIKE $%[1]d OR p.brand ILIKE $%[1]d
			OR EXISTS (SELECT 1 FROM unnest(p.tags) t WHERE t ILIKE $%[1]d))`, pattern)
	}
	if f.CategorySlug != "" {
		add("c.slug = $%d", f.CategorySlug)
	}
	if f.Brand != "" {
		add("p.brand ILIKE $%d", f.Brand)
	}
	if f.MinPrice != nil {
		add("p.price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("p.price <= $%d", *f.MaxPrice)
	}
	if f.FeaturedOnly {
		conds = append(conds, "p.is_featured = true")
	}
	return strings.Join(conds, " AND "), args
}

func (f *ProductFilter) orderBy() string {
	key := f.Sort
	dir := "ASC"
	if strings.HasPrefix(key, "-") {
		key = key[1:]
		dir = "DESC"
	}
	col, ok := sortColumns[key]
	if !ok {
		return "p.created_at DESC"
	}
	return col + " " + dir
}

// List runs the filtered catalog query and its count in one round trip each.
func (r *ProductRepository) List(ctx context.Context, f ProductFilter) ([]model.Product, int, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 12
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	where, args := f.buildWhere()

	var total int
	countQuery := `SELECT count(*) FROM products p JOIN categories c ON c.categoryid = p.categoryid WHERE ` + where
	if err := r.DB.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM products p
		JOIN categories c ON c.categoryid = p.categoryid
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		productColumns, where, f.orderBy(), len(args)+1, len(args)+2)
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *p)
	}
	return list, total, rows.Err()
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p JOIN categories c ON c.categoryid = p.categoryid
		WHERE p.productid = $1 AND p.deleted_at IS NULL`
	return scanProduct(r.DB.QueryRow(ctx, query, id))
}

func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p JOIN categories c ON c.categoryid = p.categoryid
		WHERE p.slug = $1 AND p.is_active = true AND p.deleted_at IS NULL`
	return scanProduct(r.DB.QueryRow(ctx, query, slug))
}

// NewArrivals returns the most recently added active products.
func (r *ProductRepository) NewArrivals(ctx context.Context, limit int) ([]model.Product, error) {
	if limit <= 0 || limit > 50 {
		limit = 8
	}
	query := `SELECT ` + productColumns + `
		FROM products p JOIN categories c ON c.categoryid = p.categoryid
		WHERE p.is_active = true AND p.deleted_at IS NULL
		ORDER BY p.created_at DESC LIMIT $1`
	return r.queryList(ctx, query, limit)
}

// Related returns other active products from the same category.
func (r *ProductRepository) Related(ctx context.Context, productID, categoryID int64, limit int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 4
	}
	query := `SELECT ` + productColumns + `
		FROM products p JOIN categories c ON c.categoryid = p.categoryid
		WHERE p.categoryid = $1 AND p.productid <> $2
		  AND p.is_active = true AND p.deleted_at IS NULL
		ORDER BY p.ratings DESC LIMIT $3`
	return r.queryList(ctx, query, categoryID, productID, limit)
}

func (r *ProductRepository) queryList(ctx context.Context, query string, args ...any) ([]model.Product, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

func (r *ProductRepository) Create(ctx context.Context, p *model.Product) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	var id int64
	query := `
		INSERT INTO products (name, slug, description, price, discount_price, categoryid,
			brand, stock, sku, image_urls, tags, is_featured, is_active, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, true, $13, now())
		RETURNING productid`
	err := r.DB.QueryRow(ctx, query, p.Name, p.Slug, p.Description, p.Price, p.DiscountPrice,
		p.CategoryID, p.Brand, p.Stock, p.SKU, p.ImageURLs, p.Tags, p.IsFeatured, p.CreatedBy).
		Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrDuplicateSKU
		}
		return 0, err
	}
	return id, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *model.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	query := `
		UPDATE products
		SET name=$1, slug=$2, description=$3, price=$4, discount_price=$5, categoryid=$6,
			brand=$7, stock=$8, sku=$9, image_urls=$10, tags=$11, is_featured=$12, is_active=$13
		WHERE productid=$14 AND deleted_at IS NULL`
	tag, err := r.DB.Exec(ctx, query, p.Name, p.Slug, p.Description, p.Price, p.DiscountPrice,
		p.CategoryID, p.Brand, p.Stock, p.SKU, p.ImageURLs, p.Tags, p.IsFeatured, p.IsActive, p.ProductID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateSKU
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Delete soft-deletes so past orders keep a resolvable product reference.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE products SET deleted_at = now(), is_active = false WHERE productid = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}
