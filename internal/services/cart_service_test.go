package services

import (
	"testing"

	"github.com/smartsella/syntecxhub-shop-api/internal/model"
	"github.com/stretchr/testify/assert"
)

func sampleItems() []model.CartItem {
	return []model.CartItem{
		{CartItemID: 1, ProductID: 10, Name: "Sneakers", Price: 50, Quantity: 2},
		{CartItemID: 2, ProductID: 11, Name: "Socks", Price: 5, Quantity: 4},
	}
}

func TestBuildCartViewTotals(t *testing.T) {
	cart := &model.Cart{ShippingCost: 7.5}
	view := BuildCartView(cart, sampleItems())

	assert.InDelta(t, 120.0, view.Subtotal, 0.001)
	assert.Equal(t, 6, view.ItemCount)
	assert.InDelta(t, 7.5, view.Shipping, 0.001)
	assert.InDelta(t, 0.0, view.Discount, 0.001)
	assert.InDelta(t, 127.5, view.Total, 0.001)
}

func TestBuildCartViewPercentCoupon(t *testing.T) {
	cart := &model.Cart{ShippingCost: 10, CouponCode: "SAVE20", CouponPercent: 20}
	view := BuildCartView(cart, sampleItems())

	assert.InDelta(t, 24.0, view.Discount, 0.001) // 20% of 120
	assert.InDelta(t, 10.0, view.Shipping, 0.001)
	assert.InDelta(t, 106.0, view.Total, 0.001)
	assert.Equal(t, "SAVE20", view.Coupon)
}

func TestBuildCartViewFreeShipping(t *testing.T) {
	cart := &model.Cart{ShippingCost: 10, CouponCode: "FREESHIP", CouponPercent: 0}
	view := BuildCartView(cart, sampleItems())

	assert.InDelta(t, 0.0, view.Shipping, 0.001)
	assert.InDelta(t, 0.0, view.Discount, 0.001)
	assert.InDelta(t, 120.0, view.Total, 0.001)
}

func TestBuildCartViewEmpty(t *testing.T) {
	cart := &model.Cart{ShippingCost: 10}
	view := BuildCartView(cart, nil)

	assert.InDelta(t, 0.0, view.Subtotal, 0.001)
	assert.Equal(t, 0, view.ItemCount)
	assert.InDelta(t, 10.0, view.Total, 0.001)
}

func TestCouponTable(t *testing.T) {
	assert.Equal(t, 10, Coupons["WELCOME10"])
	assert.Equal(t, 20, Coupons["SAVE20"])
	_, ok := Coupons["EXPIRED50"]
	assert.False(t, ok)
}
