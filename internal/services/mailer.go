package services

import "context"

// Mailer is the notification gateway. Delivery failure is distinguishable but
// never fatal to record creation; callers wrap it in ErrEmailDelivery.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
