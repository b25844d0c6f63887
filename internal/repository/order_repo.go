package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/smartsella/syntecxhub-shop-api/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrOrderNotFound = errors.New("order not found")
var ErrInsufficientStock = errors.New("insufficient stock")

type OrderRepository struct {
	DB *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{DB: db}
}

const orderColumns = `orderid, order_number, userid,
	ship_address, ship_city, ship_state, ship_country, ship_zip, ship_phone,
	pay_reference, pay_status, pay_method, pay_amount, pay_at,
	items_price, tax_price, shipping_price, discount, total_price,
	status, tracking_number, carrier, delivered_at, cancelled_at, created_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.OrderID, &o.OrderNumber, &o.UserID,
		&o.Shipping.Address, &o.Shipping.City, &o.Shipping.State, &o.Shipping.Country,
		&o.Shipping.ZipCode, &o.Shipping.Phone,
		&o.Payment.Reference, &o.Payment.Status, &o.Payment.Method, &o.Payment.AmountPaid, &o.Payment.PaidAt,
		&o.ItemsPrice, &o.TaxPrice, &o.ShippingPrice, &o.Discount, &o.TotalPrice,
		&o.Status, &o.TrackingNumber, &o.Carrier, &o.DeliveredAt, &o.CancelledAt, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

// Place persists the order, decrements stock and clears the cart in one
// transaction. Stock rows are guarded by a conditional UPDATE so concurrent
// checkouts of the last unit cannot both succeed.
func (r *OrderRepository) Place(ctx context.Context, o *model.Order, cartID int64) (int64, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, it := range o.Items {
		tag, err := tx.Exec(ctx,
			`UPDATE products SET stock = stock - $1 WHERE productid = $2 AND stock >= $1`,
			it.Quantity, it.ProductID)
		if err != nil {
			return 0, err
		}
		if tag.RowsAffected() == 0 {
			return 0, fmt.Errorf("%w for %q", ErrInsufficientStock, it.Name)
		}
	}

	var orderID int64
	query := `
		INSERT INTO orders (order_number, userid,
			ship_address, ship_city, ship_state, ship_country, ship_zip, ship_phone,
			pay_reference, pay_status, pay_method, pay_amount, pay_at,
			items_price, tax_price, shipping_price, discount, total_price,
			status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,now())
		RETURNING orderid`
	err = tx.QueryRow(ctx, query, o.OrderNumber, o.UserID,
		o.Shipping.Address, o.Shipping.City, o.Shipping.State, o.Shipping.Country,
		o.Shipping.ZipCode, o.Shipping.Phone,
		o.Payment.Reference, o.Payment.Status, o.Payment.Method, o.Payment.AmountPaid, o.Payment.PaidAt,
		o.ItemsPrice, o.TaxPrice, o.ShippingPrice, o.Discount, o.TotalPrice,
		model.StatusProcessing).Scan(&orderID)
	if err != nil {
		return 0, err
	}

	for _, it := range o.Items {
		_, err := tx.Exec(ctx, `
			INSERT INTO order_items (orderid, productid, name, price, quantity, color, size)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			orderID, it.ProductID, it.Name, it.Price, it.Quantity, it.Color, it.Size)
		if err != nil {
			return 0, err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cartid = $1`, cartID); err != nil {
		return 0, err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE carts SET coupon_code = '', coupon_percent = 0, updated_at = now() WHERE cartid = $1`,
		cartID); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return orderID, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE orderid = $1`, orderID))
	if err != nil {
		return nil, err
	}
	items, err := r.items(ctx, orderID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *OrderRepository) items(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT orderitemid, productid, name, price, quantity, color, size
		FROM order_items WHERE orderid = $1 ORDER BY orderitemid`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.OrderItem{}
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.OrderItemID, &it.ProductID, &it.Name, &it.Price,
			&it.Quantity, &it.Color, &it.Size); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListByUser returns a user's orders, newest first, without item rows.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE userid = $1 ORDER BY orderid DESC`, userID)
}

// List returns a page of all orders for the admin console plus the total count.
func (r *OrderRepository) List(ctx context.Context, page, limit int) ([]model.Order, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	var total int
	if err := r.DB.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, err
	}
	list, err := r.list(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY orderid DESC LIMIT $1 OFFSET $2`,
		limit, (page-1)*limit)
	return list, total, err
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// UpdateStatus moves the order through the fulfillment states and stamps
// delivered_at / cancelled_at on the terminal ones.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID int64, status, trackingNumber, carrier string) error {
	query := `
		UPDATE orders SET
			status = $1,
			tracking_number = COALESCE(NULLIF($2, ''), tracking_number),
			carrier = COALESCE(NULLIF($3, ''), carrier),
			delivered_at = CASE WHEN $1 = 'Delivered' THEN now() ELSE delivered_at END,
			cancelled_at = CASE WHEN $1 = 'Cancelled' THEN now() ELSE cancelled_at END
		WHERE orderid = $4`
	tag, err := r.DB.Exec(ctx, query, status, trackingNumber, carrier, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// RestoreStock puts cancelled order quantities back on the shelf.
func (r *OrderRepository) RestoreStock(ctx context.Context, orderID int64) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE products p SET stock = p.stock + oi.quantity
		FROM order_items oi
		WHERE oi.orderid = $1 AND oi.productid = p.productid`, orderID)
	return err
}

// DashboardStats aggregates the admin dashboard counters.
type DashboardStats struct {
	Users    int     `json:"users"`
	Products int     `json:"products"`
	Orders   int     `json:"orders"`
	Revenue  float64 `json:"revenue"`
}

func (r *OrderRepository) Stats(ctx context.Context) (*DashboardStats, error) {
	var s DashboardStats
	query := `
		SELECT
			(SELECT count(*) FROM users WHERE deleted_at IS NULL),
			(SELECT count(*) FROM products WHERE deleted_at IS NULL),
			(SELECT count(*) FROM orders),
			(SELECT COALESCE(sum(total_price), 0) FROM orders WHERE status <> 'Cancelled')`
	if err := r.DB.QueryRow(ctx, query).Scan(&s.Users, &s.Products, &s.Orders, &s.Revenue); err != nil {
		return nil, err
	}
	return &s, nil
}
