package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/smartsella/syntecxhub-shop-api/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrOTPNotFound = errors.New("otp not found")

// OTPRepository persists one-time passcodes. Many rows may exist per email;
// FindValid only ever surfaces the newest live one, stale rows just age out.
type OTPRepository struct {
	DB *pgxpool.Pool
}

func NewOTPRepository(db *pgxpool.Pool) *OTPRepository {
	return &OTPRepository{DB: db}
}

func (r *OTPRepository) Insert(ctx context.Context, otp *model.OTP) error {
	query := `
		INSERT INTO otps (email, code, purpose, expires_at, attempts, is_used, created_at)
		VALUES ($1, $2, $3, $4, 0, false, now())
		RETURNING otpid, created_at`
	return r.DB.QueryRow(ctx, query,
		strings.ToLower(otp.Email), otp.Code, otp.Purpose, otp.ExpiresAt).
		Scan(&otp.OTPID, &otp.CreatedAt)
}

// FindValid looks up the most recent record matching email+code+purpose that is
// unexpired, unused and under the attempt limit. Code equality is part of the
// filter: a wrong code is indistinguishable from an expired one.
func (r *OTPRepository) FindValid(ctx context.Context, email, code, purpose string) (*model.OTP, error) {
	query := `
		SELECT otpid, email, code, purpose, expires_at, attempts, is_used, created_at
		FROM otps
		WHERE email = lower($1) AND code = $2 AND purpose = $3
		  AND expires_at > now() AND NOT is_used AND attempts < $4
		ORDER BY created_at DESC
		LIMIT 1`
	var o model.OTP
	err := r.DB.QueryRow(ctx, query, email, code, purpose, model.OTPMaxAttempts).
		Scan(&o.OTPID, &o.Email, &o.Code, &o.Purpose, &o.ExpiresAt, &o.Attempts, &o.IsUsed, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOTPNotFound
		}
		return nil, err
	}
	return &o, nil
}

// IncrementAttempts bumps the counter atomically and returns the new value, so
// concurrent verifies on the same record serialize at the row.
func (r *OTPRepository) IncrementAttempts(ctx context.Context, otpID int64) (int, error) {
	var attempts int
	err := r.DB.QueryRow(ctx,
		`UPDATE otps SET attempts = attempts + 1 WHERE otpid = $1 RETURNING attempts`, otpID).
		Scan(&attempts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrOTPNotFound
		}
		return 0, err
	}
	return attempts, nil
}

func (r *OTPRepository) MarkUsed(ctx context.Context, otpID int64) error {
	_, err := r.DB.Exec(ctx, `UPDATE otps SET is_used = true WHERE otpid = $1`, otpID)
	return err
}

func (r *OTPRepository) Delete(ctx context.Context, otpID int64) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM otps WHERE otpid = $1`, otpID)
	return err
}

// DeleteExpired reclaims stale rows. Not required for correctness, expiry is
// re-checked on every lookup.
func (r *OTPRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM otps WHERE expires_at < now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
