package model

import "time"

type Cart struct {
	CartID         int64      `json:"cartid"`
	UserID         int64      `json:"userid"`
	CouponCode     string     `json:"coupon_code,omitempty"`
	CouponPercent  int        `json:"coupon_percent,omitempty"`
	ShippingCost   float64    `json:"shipping_cost"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

type CartItem struct {
	CartItemID int64   `json:"cartitemid"`
	ProductID  int64   `json:"productid"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"` // unit price captured when the item was added
	Color      string  `json:"color,omitempty"`
	Size       string  `json:"size,omitempty"`
	Stock      int     `json:"stock"`
	SKU        string  `json:"sku"`
}

func (i CartItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// CartView is what GET /cart returns: items plus computed totals.
type CartView struct {
	Items     []CartItem `json:"items"`
	Subtotal  float64    `json:"subtotal"`
	Shipping  float64    `json:"shipping"`
	Discount  float64    `json:"discount"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"itemCount"`
	Coupon    string     `json:"coupon,omitempty"`
}
