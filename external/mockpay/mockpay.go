package mockpay

import (
	"context"
	"fmt"
	"time"

	"github.com/smartsella/syntecxhub-shop-api/internal/model"

	"github.com/google/uuid"
)

// Client is a stand-in payment processor: every charge succeeds and gets a
// unique reference. Swap for a real gateway behind services.PaymentClient.
type Client struct{}

func NewClient() *Client {
	return &Client{}
}

var supportedMethods = map[string]bool{
	"card": true,
	"cod":  true,
}

func (c *Client) Charge(ctx context.Context, amount float64, method string) (*model.PaymentInfo, error) {
	if amount < 0 {
		return nil, fmt.Errorf("mockpay: negative amount %.2f", amount)
	}
	if method == "" {
		method = "cod"
	}
	if !supportedMethods[method] {
		return nil, fmt.Errorf("mockpay: unsupported payment method %q", method)
	}
	status := "paid"
	if method == "cod" {
		status = "pending"
	}
	return &model.PaymentInfo{
		Reference:  uuid.NewString(),
		Status:     status,
		Method:     method,
		AmountPaid: amount,
		PaidAt:     time.Now(),
	}, nil
}
