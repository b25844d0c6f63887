package services

import (
	"context"
	"fmt"

	"github.com/smartsella/syntecxhub-shop-api/internal/model"
	"github.com/smartsella/syntecxhub-shop-api/internal/repository"
)

// Coupons is the mock coupon table: code -> percent off the subtotal.
// FREESHIP instead waives the shipping cost.
var Coupons = map[string]int{
	"WELCOME10": 10,
	"SAVE20":    20,
	"FREESHIP":  0,
}

type CartService struct {
	Carts    *repository.CartRepository
	Products *repository.ProductRepository
}

func NewCartService(cr *repository.CartRepository, pr *repository.ProductRepository) *CartService {
	return &CartService{Carts: cr, Products: pr}
}

// BuildCartView computes the totals the API exposes. Discount is the coupon
// percentage applied to the subtotal; FREESHIP zeroes shipping instead.
func BuildCartView(cart *model.Cart, items []model.CartItem) *model.CartView {
	view := &model.CartView{Items: items, Shipping: cart.ShippingCost, Coupon: cart.CouponCode}
	for _, it := range items {
		view.Subtotal += it.Subtotal()
		view.ItemCount += it.Quantity
	}
	if cart.CouponCode == "FREESHIP" {
		view.Shipping = 0
	} else if cart.CouponPercent > 0 {
		view.Discount = view.Subtotal * float64(cart.CouponPercent) / 100
	}
	view.Total = view.Subtotal + view.Shipping - view.Discount
	return view
}

func (s *CartService) view(ctx context.Context, cart *model.Cart) (*model.CartView, error) {
	items, err := s.Carts.Items(ctx, cart.CartID)
	if err != nil {
		return nil, err
	}
	return BuildCartView(cart, items), nil
}

func (s *CartService) Get(ctx context.Context, userID int64) (*model.CartView, error) {
	cart, err := s.Carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

// Add puts quantity of a product into the cart, merging with an existing row
// for the same product+color+size and enforcing stock.
func (s *CartService) Add(ctx context.Context, userID, productID int64, quantity int, color, size string) (*model.CartView, error) {
	if quantity <= 0 {
		quantity = 1
	}
	p, err := s.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.Stock < quantity {
		return nil, fmt.Errorf("%w: only %d items available", ErrOutOfStock, p.Stock)
	}

	cart, err := s.Carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.Carts.FindItem(ctx, cart.CartID, productID, color, size)
	switch {
	case err == nil:
		newQty := existing.Quantity + quantity
		if p.Stock < newQty {
			return nil, fmt.Errorf("%w: cannot add more than %d items", ErrOutOfStock, p.Stock)
		}
		if err := s.Carts.SetItemQuantity(ctx, cart.CartID, existing.CartItemID, newQty); err != nil {
			return nil, err
		}
	case err == repository.ErrCartItemNotFound:
		if err := s.Carts.InsertItem(ctx, cart.CartID, productID, quantity, p.FinalPrice(), color, size); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	return s.view(ctx, cart)
}

func (s *CartService) UpdateItem(ctx context.Context, userID, itemID int64, quantity int) (*model.CartView, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}
	cart, err := s.Carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	productID, err := s.Carts.ItemProductID(ctx, cart.CartID, itemID)
	if err != nil {
		return nil, err
	}
	p, err := s.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.Stock < quantity {
		return nil, fmt.Errorf("%w: only %d items available", ErrOutOfStock, p.Stock)
	}
	if err := s.Carts.SetItemQuantity(ctx, cart.CartID, itemID, quantity); err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID int64) (*model.CartView, error) {
	cart, err := s.Carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.Carts.RemoveItem(ctx, cart.CartID, itemID); err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

func (s *CartService) Clear(ctx context.Context, userID int64) (*model.CartView, error) {
	cart, err := s.Carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.Carts.ClearItems(ctx, cart.CartID); err != nil {
		return nil, err
	}
	cart.CouponCode = ""
	cart.CouponPercent = 0
	return BuildCartView(cart, nil), nil
}

func (s *CartService) ApplyCoupon(ctx context.Context, userID int64, code string) (*model.CartView, error) {
	percent, ok := Coupons[code]
	if !ok {
		return nil, ErrInvalidCoupon
	}
	cart, err := s.Carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.Carts.SetCoupon(ctx, cart.CartID, code, percent); err != nil {
		return nil, err
	}
	cart.CouponCode = code
	cart.CouponPercent = percent
	return s.view(ctx, cart)
}

func (s *CartService) RemoveCoupon(ctx context.Context, userID int64) (*model.CartView, error) {
	cart, err := s.Carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.Carts.ClearCoupon(ctx, cart.CartID); err != nil {
		return nil, err
	}
	cart.CouponCode = ""
	cart.CouponPercent = 0
	return s.view(ctx, cart)
}
