package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/smartsella/syntecxhub-shop-api/internal/model"
	"github.com/smartsella/syntecxhub-shop-api/internal/repository"
)

// PaymentClient confirms a charge and returns a reference. Real processing is
// out of scope; the mockpay client satisfies this.
type PaymentClient interface {
	Charge(ctx context.Context, amount float64, method string) (*model.PaymentInfo, error)
}

const taxRate = 0.0 // tax handling never made it past the storefront mock

type OrderService struct {
	Orders   *repository.OrderRepository
	Carts    *repository.CartRepository
	Cart     *CartService
	Payments PaymentClient
}

func NewOrderService(or *repository.OrderRepository, cr *repository.CartRepository, cs *CartService, pay PaymentClient) *OrderService {
	return &OrderService{Orders: or, Carts: cr, Cart: cs, Payments: pay}
}

// NewOrderNumber formats a human-facing order reference, ORD-<year>-<5 digits>.
func NewOrderNumber(now time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(90000))
	if err != nil {
		n = big.NewInt(0)
	}
	return fmt.Sprintf("ORD-%d-%05d", now.Year(), n.Int64()+10000)
}

// Place turns the user's cart into an order: totals from the cart view,
// payment confirmation, then the transactional write (stock decrement, order
// rows, cart clear).
func (s *OrderService) Place(ctx context.Context, userID int64, shipping model.ShippingInfo, method string) (*model.Order, error) {
	if err := shipping.Validate(); err != nil {
		return nil, err
	}

	cart, err := s.Carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.Carts.Items(ctx, cart.CartID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}
	view := BuildCartView(cart, items)

	order := &model.Order{
		OrderNumber:   NewOrderNumber(time.Now()),
		UserID:        userID,
		Shipping:      shipping,
		ItemsPrice:    view.Subtotal,
		TaxPrice:      view.Subtotal * taxRate,
		ShippingPrice: view.Shipping,
		Discount:      view.Discount,
	}
	order.TotalPrice = order.ItemsPrice + order.TaxPrice + order.ShippingPrice - order.Discount
	for _, it := range items {
		order.Items = append(order.Items, model.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Color:     it.Color,
			Size:      it.Size,
		})
	}

	pay, err := s.Payments.Charge(ctx, order.TotalPrice, method)
	if err != nil {
		return nil, err
	}
	order.Payment = *pay

	orderID, err := s.Orders.Place(ctx, order, cart.CartID)
	if err != nil {
		return nil, err
	}
	return s.Orders.GetByID(ctx, orderID)
}

func (s *OrderService) ListMine(ctx context.Context, userID int64) ([]model.Order, error) {
	return s.Orders.ListByUser(ctx, userID)
}

// Get returns an order; non-admins can only see their own.
func (s *OrderService) Get(ctx context.Context, orderID, userID int64, role string) (*model.Order, error) {
	o, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID && role != model.RoleAdmin {
		return nil, ErrForbidden
	}
	return o, nil
}

// Cancel lets the owner cancel an order that is still Processing; stock goes
// back on the shelf.
func (s *OrderService) Cancel(ctx context.Context, orderID, userID int64) (*model.Order, error) {
	o, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrForbidden
	}
	if o.Status != model.StatusProcessing {
		return nil, fmt.Errorf("order in status %q cannot be cancelled", o.Status)
	}
	if err := s.Orders.UpdateStatus(ctx, orderID, model.StatusCancelled, "", ""); err != nil {
		return nil, err
	}
	if err := s.Orders.RestoreStock(ctx, orderID); err != nil {
		return nil, err
	}
	return s.Orders.GetByID(ctx, orderID)
}

// Admin operations.

func (s *OrderService) ListAll(ctx context.Context, page, limit int) ([]model.Order, *model.Pagination, error) {
	list, total, err := s.Orders.List(ctx, page, limit)
	if err != nil {
		return nil, nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	pages := (total + limit - 1) / limit
	return list, &model.Pagination{Total: total, Pages: pages, CurrentPage: page, Limit: limit}, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status, trackingNumber, carrier string) (*model.Order, error) {
	if !model.ValidStatus(status) {
		return nil, fmt.Errorf("unknown order status %q", status)
	}
	o, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.Orders.UpdateStatus(ctx, orderID, status, trackingNumber, carrier); err != nil {
		return nil, err
	}
	if status == model.StatusCancelled && o.Status != model.StatusCancelled {
		if err := s.Orders.RestoreStock(ctx, orderID); err != nil {
			return nil, err
		}
	}
	return s.Orders.GetByID(ctx, orderID)
}

func (s *OrderService) Stats(ctx context.Context) (*repository.DashboardStats, error) {
	return s.Orders.Stats(ctx)
}
