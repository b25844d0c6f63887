package services

import "errors"

// Service-level error taxonomy. Handlers map these to HTTP statuses; nothing
// below the service boundary leaks storage detail to the client.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("please verify your email first")
	ErrAccountLocked      = errors.New("account is temporarily locked, please try again later")
	ErrNotFound           = errors.New("not found")
	ErrEmailDelivery      = errors.New("email could not be sent")
	ErrInvalidToken       = errors.New("invalid token")
	ErrAlreadyVerified    = errors.New("email is already verified")

	ErrOutOfStock    = errors.New("insufficient stock")
	ErrCartEmpty     = errors.New("cart is empty")
	ErrInvalidCoupon = errors.New("invalid coupon code")
	ErrForbidden     = errors.New("not allowed")
)
