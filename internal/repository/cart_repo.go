package repository

import (
	"context"
	"errors"

	"github.com/smartsella/syntecxhub-shop-api/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrCartItemNotFound = errors.New("item not found in cart")

// CartRepository stores one open cart per user plus its items. Totals are
// computed by the service, this layer only persists rows.
type CartRepository struct {
	DB *pgxpool.Pool
}

func NewCartRepository(db *pgxpool.Pool) *CartRepository {
	return &CartRepository{DB: db}
}

// GetOrCreate returns the user's cart, creating an empty one on first touch.
func (r *CartRepository) GetOrCreate(ctx context.Context, userID int64) (*model.Cart, error) {
	var c model.Cart
	query := `
		INSERT INTO carts (userid, shipping_cost, updated_at)
		VALUES ($1, 0, now())
		ON CONFLICT (userid) DO UPDATE SET userid = EXCLUDED.userid
		RETURNING cartid, userid, coupon_code, coupon_percent, shipping_cost, updated_at`
	err := r.DB.QueryRow(ctx, query, userID).
		Scan(&c.CartID, &c.UserID, &c.CouponCode, &c.CouponPercent, &c.ShippingCost, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Items returns cart rows joined with live product data (name, stock, sku).
func (r *CartRepository) Items(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	query := `
		SELECT ci.cartitemid, ci.productid, p.name, ci.quantity, ci.price,
		       ci.color, ci.size, p.stock, p.sku
		FROM cart_items ci
		JOIN products p ON p.productid = ci.productid
		WHERE ci.cartid = $1
		ORDER BY ci.cartitemid`
	rows, err := r.DB.Query(ctx, query, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.CartItem{}
	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(&it.CartItemID, &it.ProductID, &it.Name, &it.Quantity,
			&it.Price, &it.Color, &it.Size, &it.Stock, &it.SKU); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// FindItem locates an existing row for the same product+color+size combination.
func (r *CartRepository) FindItem(ctx context.Context, cartID, productID int64, color, size string) (*model.CartItem, error) {
	var it model.CartItem
	query := `
		SELECT cartitemid, productid, quantity, price, color, size
		FROM cart_items
		WHERE cartid = $1 AND productid = $2 AND color = $3 AND size = $4`
	err := r.DB.QueryRow(ctx, query, cartID, productID, color, size).
		Scan(&it.CartItemID, &it.ProductID, &it.Quantity, &it.Price, &it.Color, &it.Size)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (r *CartRepository) InsertItem(ctx context.Context, cartID, productID int64, qty int, price float64, color, size string) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO cart_items (cartid, productid, quantity, price, color, size)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		cartID, productID, qty, price, color, size)
	return err
}

func (r *CartRepository) SetItemQuantity(ctx context.Context, cartID, itemID int64, qty int) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE cart_items SET quantity = $1 WHERE cartitemid = $2 AND cartid = $3`,
		qty, itemID, cartID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// ItemProductID resolves the product behind a cart row for stock checks.
func (r *CartRepository) ItemProductID(ctx context.Context, cartID, itemID int64) (int64, error) {
	var pid int64
	err := r.DB.QueryRow(ctx,
		`SELECT productid FROM cart_items WHERE cartitemid = $1 AND cartid = $2`, itemID, cartID).
		Scan(&pid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrCartItemNotFound
		}
		return 0, err
	}
	return pid, nil
}

func (r *CartRepository) RemoveItem(ctx context.Context, cartID, itemID int64) error {
	_, err := r.DB.Exec(ctx,
		`DELETE FROM cart_items WHERE cartitemid = $1 AND cartid = $2`, itemID, cartID)
	return err
}

func (r *CartRepository) ClearItems(ctx context.Context, cartID int64) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM cart_items WHERE cartid = $1`, cartID)
	return err
}

func (r *CartRepository) SetCoupon(ctx context.Context, cartID int64, code string, percent int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE carts SET coupon_code = $1, coupon_percent = $2, updated_at = now() WHERE cartid = $3`,
		code, percent, cartID)
	return err
}

func (r *CartRepository) ClearCoupon(ctx context.Context, cartID int64) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE carts SET coupon_code = '', coupon_percent = 0, updated_at = now() WHERE cartid = $1`,
		cartID)
	return err
}
