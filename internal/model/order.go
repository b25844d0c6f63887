package model

import "time"

// Order statuses in fulfillment order. Transitions past Processing are driven
// by admins; Cancelled is reachable from Processing only.
const (
	StatusProcessing = "Processing"
	StatusConfirmed  = "Confirmed"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
	StatusReturned   = "Returned"
	StatusRefunded   = "Refunded"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusProcessing, StatusConfirmed, StatusShipped, StatusDelivered,
		StatusCancelled, StatusReturned, StatusRefunded:
		return true
	}
	return false
}

type ShippingInfo struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	ZipCode string `json:"zipCode"`
	Phone   string `json:"phone"`
}

func (s *ShippingInfo) Validate() error {
	var v ValidationError
	if s.Address == "" {
		v.add("address", "Shipping address is required")
	}
	if s.City == "" {
		v.add("city", "City is required")
	}
	if s.Country == "" {
		v.add("country", "Country is required")
	}
	if s.ZipCode == "" {
		v.add("zipCode", "Zip code is required")
	}
	if s.Phone == "" {
		v.add("phone", "Phone is required")
	}
	return v.orNil()
}

type PaymentInfo struct {
	Reference  string    `json:"id"`
	Status     string    `json:"status"`
	Method     string    `json:"method"`
	AmountPaid float64   `json:"amountPaid"`
	PaidAt     time.Time `json:"paidAt"`
}

type OrderItem struct {
	OrderItemID int64   `json:"orderitemid"`
	ProductID   int64   `json:"productid"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Color       string  `json:"color,omitempty"`
	Size        string  `json:"size,omitempty"`
}

type Order struct {
	OrderID     int64        `json:"orderid"`
	OrderNumber string       `json:"orderNumber"`
	UserID      int64        `json:"userid"`
	Items       []OrderItem  `json:"items"`
	Shipping    ShippingInfo `json:"shippingInfo"`
	Payment     PaymentInfo  `json:"paymentInfo"`

	ItemsPrice    float64 `json:"itemsPrice"`
	TaxPrice      float64 `json:"taxPrice"`
	ShippingPrice float64 `json:"shippingPrice"`
	Discount      float64 `json:"discount"`
	TotalPrice    float64 `json:"totalPrice"`

	Status         string     `json:"orderStatus"`
	TrackingNumber string     `json:"trackingNumber,omitempty"`
	Carrier        string     `json:"carrier,omitempty"`
	DeliveredAt    *time.Time `json:"deliveredAt,omitempty"`
	CancelledAt    *time.Time `json:"cancelledAt,omitempty"`

	CreatedAt *time.Time `json:"created_at,omitempty"`
}
