package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/smartsella/syntecxhub-shop-api/internal/model"
	"github.com/smartsella/syntecxhub-shop-api/internal/repository"
)

// OTPStore is the persistence surface the OTP service needs. Implemented by
// repository.OTPRepository; faked in tests.
type OTPStore interface {
	Insert(ctx context.Context, otp *model.OTP) error
	FindValid(ctx context.Context, email, code, purpose string) (*model.OTP, error)
	IncrementAttempts(ctx context.Context, otpID int64) (int, error)
	MarkUsed(ctx context.Context, otpID int64) error
	Delete(ctx context.Context, otpID int64) error
}

// VerifyResult mirrors what the client sees: a flag plus a human message.
type VerifyResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

const (
	msgInvalidOrExpired = "Invalid or expired OTP"
	msgTooManyAttempts  = "Too many attempts. OTP deleted"
	msgVerified         = "OTP verified successfully"
)

type OTPService struct {
	Store OTPStore
}

func NewOTPService(store OTPStore) *OTPService {
	return &OTPService{Store: store}
}

// Generate creates a fresh 6-digit code valid for model.OTPTTL. Older records
// for the same email/purpose are not touched; they age out or lose to query
// order.
func (s *OTPService) Generate(ctx context.Context, email, purpose string) (*model.OTP, error) {
	if !model.ValidPurpose(purpose) {
		return nil, model.NewValidationError("purpose", fmt.Sprintf("Unknown OTP purpose %q", purpose))
	}
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return nil, err
	}
	otp := &model.OTP{
		Email:     email,
		Code:      fmt.Sprintf("%06d", n.Int64()+100000),
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(model.OTPTTL),
	}
	if err := s.Store.Insert(ctx, otp); err != nil {
		return nil, err
	}
	return otp, nil
}

// Verify consumes a code. A record only counts an attempt once it has matched
// the submitted code; wrong codes come back "not found" without touching the
// counter.
func (s *OTPService) Verify(ctx context.Context, email, code, purpose string) (*VerifyResult, error) {
	rec, err := s.Store.FindValid(ctx, email, code, purpose)
	if err != nil {
		if errors.Is(err, repository.ErrOTPNotFound) {
			return &VerifyResult{Valid: false, Message: msgInvalidOrExpired}, nil
		}
		return nil, err
	}

	attempts, err := s.Store.IncrementAttempts(ctx, rec.OTPID)
	if err != nil {
		return nil, err
	}
	if attempts >= model.OTPMaxAttempts {
		if err := s.Store.Delete(ctx, rec.OTPID); err != nil {
			return nil, err
		}
		return &VerifyResult{Valid: false, Message: msgTooManyAttempts}, nil
	}

	if err := s.Store.MarkUsed(ctx, rec.OTPID); err != nil {
		return nil, err
	}
	return &VerifyResult{Valid: true, Message: msgVerified}, nil
}
