package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smartsella/syntecxhub-shop-api/internal/model"
	"github.com/smartsella/syntecxhub-shop-api/internal/repository"
	"github.com/smartsella/syntecxhub-shop-api/internal/token"

	"golang.org/x/crypto/bcrypt"
)

// UserStore is the credential store surface the auth service drives. It is the
// sole writer of verification and lockout state. Implemented by
// repository.UserRepository; faked in tests.
type UserStore interface {
	Create(ctx context.Context, name, email, password, phone string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	SetVerified(ctx context.Context, email string) error
	IncrementLoginAttempts(ctx context.Context, userID int64) error
	ResetLoginState(ctx context.Context, userID int64) error
	UpdatePassword(ctx context.Context, userID int64, password string) error
	UpdateDetails(ctx context.Context, u *model.User) error
}

// AuthService orchestrates registration, verification, login lockout and
// password lifecycle over the credential and OTP stores.
type AuthService struct {
	Users      UserStore
	OTPs       *OTPService
	Tokens     *token.Issuer
	Mailer     Mailer
	Validator  EmailValidator
	VerifyLink string // frontend page a verification email points at
}

func NewAuthService(users UserStore, otps *OTPService, issuer *token.Issuer, mailer Mailer, validator EmailValidator, verifyLink string) *AuthService {
	return &AuthService{
		Users:      users,
		OTPs:       otps,
		Tokens:     issuer,
		Mailer:     mailer,
		Validator:  validator,
		VerifyLink: verifyLink,
	}
}

// Register creates the account in the unverified state and emails a
// verification OTP. When only the email dispatch fails, the created user is
// returned together with an error wrapping ErrEmailDelivery: the account
// exists and the client can request a fresh code later.
func (s *AuthService) Register(ctx context.Context, name, email, password, phone string) (*model.User, error) {
	if err := model.ValidateRegistration(name, email, password, phone); err != nil {
		return nil, err
	}
	if err := s.Validator.Validate(ctx, email); err != nil {
		return nil, err
	}

	u, err := s.Users.Create(ctx, name, email, password, phone)
	if err != nil {
		return nil, err
	}

	if err := s.sendVerificationOTP(ctx, u.Email); err != nil {
		return u, fmt.Errorf("%w: %s", ErrEmailDelivery, "verification email failed")
	}
	return u, nil
}

func (s *AuthService) sendVerificationOTP(ctx context.Context, email string) error {
	otp, err := s.OTPs.Generate(ctx, email, model.PurposeEmailVerification)
	if err != nil {
		return err
	}
	body := fmt.Sprintf(`
		<h1>Email Verification</h1>
		<p>Please use the following OTP to verify your email:</p>
		<h2>%s</h2>
		<p>This OTP will expire in 10 minutes.</p>
		<p>Or open the verification page:</p>
		<a href="%s">%s</a>
	`, otp.Code, s.VerifyLink, s.VerifyLink)
	return s.Mailer.Send(ctx, email, "Email Verification OTP", body)
}

// VerifyOTP delegates to the OTP store and, on a valid email_verification
// code, flips the account to verified. The store's result is returned
// verbatim.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code, purpose string) (*VerifyResult, error) {
	res, err := s.OTPs.Verify(ctx, email, code, purpose)
	if err != nil {
		return nil, err
	}
	if res.Valid && purpose == model.PurposeEmailVerification {
		if err := s.Users.SetVerified(ctx, email); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// ResendOTP regenerates and re-sends a code, the correction path after a
// failed delivery.
func (s *AuthService) ResendOTP(ctx context.Context, email, purpose string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return err
	}
	switch purpose {
	case model.PurposeEmailVerification:
		if u.IsVerified {
			return ErrAlreadyVerified
		}
		if err := s.sendVerificationOTP(ctx, u.Email); err != nil {
			return ErrEmailDelivery
		}
		return nil
	case model.PurposePasswordReset:
		return s.ForgotPassword(ctx, email)
	default:
		return model.NewValidationError("purpose", fmt.Sprintf("Unknown OTP purpose %q", purpose))
	}
}

// Login authenticates and mints a session token. Failure modes in order:
// unknown email, unverified account, open lockout window, wrong password
// (which feeds the attempt counter). On success the lockout state resets and
// last_login is stamped.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		// do not reveal whether the email exists
		return "", nil, ErrInvalidCredentials
	}
	if !u.IsVerified {
		return "", nil, ErrNotVerified
	}
	if u.IsLocked(time.Now()) {
		return "", nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		if incErr := s.Users.IncrementLoginAttempts(ctx, u.UserID); incErr != nil {
			return "", nil, incErr
		}
		return "", nil, ErrInvalidCredentials
	}

	if err := s.Users.ResetLoginState(ctx, u.UserID); err != nil {
		return "", nil, err
	}
	now := time.Now()
	u.LoginAttempts = 0
	u.LockUntil = nil
	u.LastLogin = &now

	tok, err := s.Tokens.Issue(u.UserID, u.Email, u.Role)
	if err != nil {
		return "", nil, err
	}
	u.PasswordHash = ""
	return tok, u, nil
}

// ForgotPassword emails a password_reset OTP. ErrNotFound for an unknown
// email, ErrEmailDelivery when dispatch fails.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return err
	}

	otp, err := s.OTPs.Generate(ctx, u.Email, model.PurposePasswordReset)
	if err != nil {
		return err
	}
	body := fmt.Sprintf(`
		<h1>Password Reset OTP</h1>
		<p>You are receiving this email because you (or someone else) has requested to reset your password.</p>
		<p>Please use the following OTP to reset your password:</p>
		<h2>%s</h2>
		<p>This OTP will expire in 10 minutes.</p>
		<p>If you did not request this, please ignore this email.</p>
	`, otp.Code)
	if err := s.Mailer.Send(ctx, u.Email, "Password Reset OTP", body); err != nil {
		return ErrEmailDelivery
	}
	return nil
}

// ResetPassword consumes a password_reset OTP and installs the new password.
// An invalid code propagates the store's reason; the confirmation email is
// fire-and-forget.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) (*VerifyResult, error) {
	res, err := s.OTPs.Verify(ctx, email, code, model.PurposePasswordReset)
	if err != nil {
		return nil, err
	}
	if !res.Valid {
		return res, nil
	}

	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		// the OTP was valid but the account is gone
		return nil, ErrInvalidToken
	}
	if err := s.Users.UpdatePassword(ctx, u.UserID, newPassword); err != nil {
		return nil, err
	}

	body := `
		<h1>Password Changed Successfully</h1>
		<p>Your password has been successfully changed.</p>
		<p>If you did not make this change, please contact our support team immediately.</p>
	`
	_ = s.Mailer.Send(ctx, u.Email, "Password Changed Successfully", body)
	return &VerifyResult{Valid: true, Message: "Password reset successful"}, nil
}

// UpdatePassword changes the password of an authenticated user after checking
// the current one.
func (s *AuthService) UpdatePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if err := s.Users.UpdatePassword(ctx, userID, newPassword); err != nil {
		return err
	}

	body := `
		<h1>Password Updated</h1>
		<p>Your password has been successfully updated.</p>
		<p>If you did not make this change, please contact our support team immediately.</p>
	`
	_ = s.Mailer.Send(ctx, u.Email, "Password Updated", body)
	return nil
}

// UpdateDetails changes name/email/phone, keeping whatever the caller left
// blank.
func (s *AuthService) UpdateDetails(ctx context.Context, userID int64, name, email, phone string) (*model.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		u.Name = name
	}
	if email != "" {
		u.Email = email
	}
	if phone != "" {
		u.Phone = phone
	}
	if err := s.Users.UpdateDetails(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Me returns the account behind a session token's user id.
func (s *AuthService) Me(ctx context.Context, userID int64) (*model.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}
