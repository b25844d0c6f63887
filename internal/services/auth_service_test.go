package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/smartsella/syntecxhub-shop-api/internal/model"
	"github.com/smartsella/syntecxhub-shop-api/internal/repository"
	"github.com/smartsella/syntecxhub-shop-api/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserStore holds users in memory and reproduces the lockout accounting
// the SQL store does in a single UPDATE.
type fakeUserStore struct {
	nextID int64
	users  map[int64]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*model.User)}
}

func (f *fakeUserStore) Create(_ context.Context, name, email, password, phone string) (*model.User, error) {
	if err := model.ValidateRegistration(name, email, password, phone); err != nil {
		return nil, err
	}
	email = strings.ToLower(email)
	for _, u := range f.users {
		if u.Email == email {
			return nil, repository.ErrDuplicateEmail
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), repository.BcryptCost)
	if err != nil {
		return nil, err
	}
	f.nextID++
	now := time.Now()
	u := &model.User{
		UserID:       f.nextID,
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Phone:        phone,
		Role:         model.RoleUser,
		CreatedAt:    &now,
	}
	f.users[u.UserID] = u
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	email = strings.ToLower(email)
	for _, u := range f.users {
		if u.Email == email && u.DeletedAt == nil {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := f.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) SetVerified(_ context.Context, email string) error {
	email = strings.ToLower(email)
	for _, u := range f.users {
		if u.Email == email {
			u.IsVerified = true
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func (f *fakeUserStore) IncrementLoginAttempts(_ context.Context, userID int64) error {
	u, ok := f.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	now := time.Now()
	if u.LockUntil != nil && u.LockUntil.Before(now) {
		// expired lock: this failure starts a fresh count
		u.LoginAttempts = 1
		u.LockUntil = nil
		return nil
	}
	u.LoginAttempts++
	if u.LockUntil == nil && u.LoginAttempts >= repository.MaxLoginAttempts {
		until := now.Add(repository.LockDuration)
		u.LockUntil = &until
	}
	return nil
}

func (f *fakeUserStore) ResetLoginState(_ context.Context, userID int64) error {
	u, ok := f.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	now := time.Now()
	u.LoginAttempts = 0
	u.LockUntil = nil
	u.LastLogin = &now
	return nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, userID int64, password string) error {
	if err := model.ValidatePassword(password); err != nil {
		return err
	}
	u, ok := f.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), repository.BcryptCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (f *fakeUserStore) UpdateDetails(_ context.Context, in *model.User) error {
	u, ok := f.users[in.UserID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Name = in.Name
	u.Email = strings.ToLower(in.Email)
	u.Phone = in.Phone
	return nil
}

// recordingMailer captures outbound mail and can be told to fail.
type recordingMailer struct {
	sent []string // "to|subject"
	fail bool
}

func (m *recordingMailer) Send(_ context.Context, to, subject, _ string) error {
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.sent = append(m.sent, to+"|"+subject)
	return nil
}

func newTestAuth() (*AuthService, *fakeUserStore, *fakeOTPStore, *recordingMailer) {
	users := newFakeUserStore()
	otps := newFakeOTPStore()
	mailer := &recordingMailer{}
	issuer := token.NewIssuer("test-secret", time.Hour, "shop-api")
	svc := NewAuthService(users, NewOTPService(otps), issuer, mailer, NewLocalValidator(), "http://localhost:3000/verify")
	return svc, users, otps, mailer
}

// lastCode digs the most recent plaintext code for an email/purpose out of the
// fake store, standing in for reading the verification email.
func lastCode(store *fakeOTPStore, email, purpose string) string {
	var best *model.OTP
	for _, r := range store.recs {
		if r.Email == email && r.Purpose == purpose {
			if best == nil || r.CreatedAt.After(best.CreatedAt) {
				best = r
			}
		}
	}
	if best == nil {
		return ""
	}
	return best.Code
}

func TestRegisterVerifyLogin(t *testing.T) {
	svc, _, otps, mailer := newTestAuth()
	ctx := context.Background()

	u, err := svc.Register(ctx, "Jane Doe", "jane@example.com", "secret1", "08123456789")
	require.NoError(t, err)
	assert.False(t, u.IsVerified)
	assert.Len(t, mailer.sent, 1)

	// logging in before verification is refused
	_, _, err = svc.Login(ctx, "jane@example.com", "secret1")
	assert.ErrorIs(t, err, ErrNotVerified)

	code := lastCode(otps, "jane@example.com", model.PurposeEmailVerification)
	require.NotEmpty(t, code)
	res, err := svc.VerifyOTP(ctx, "jane@example.com", code, model.PurposeEmailVerification)
	require.NoError(t, err)
	require.True(t, res.Valid)

	tok, logged, err := svc.Login(ctx, "jane@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
	assert.True(t, logged.IsVerified)
	assert.Empty(t, logged.PasswordHash)
	assert.NotNil(t, logged.LastLogin)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _, _ := newTestAuth()
	ctx := context.Background()

	_, err := svc.Register(ctx, "J", "jane@example.com", "secret1", "08123456789")
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = svc.Register(ctx, "Jane", "not-an-email", "secret1", "08123456789")
	require.ErrorAs(t, err, &verr)

	_, err = svc.Register(ctx, "Jane", "jane@example.com", "short", "08123456789")
	require.ErrorAs(t, err, &verr)

	_, err = svc.Register(ctx, "Jane", "jane@example.com", "secret1", "12ab")
	require.ErrorAs(t, err, &verr)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestAuth()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Jane", "jane@example.com", "secret1", "08123456789")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "Other", "jane@example.com", "secret2", "08123456780")
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestRegisterMailFailureStillCreatesAccount(t *testing.T) {
	svc, users, _, mailer := newTestAuth()
	mailer.fail = true
	ctx := context.Background()

	u, err := svc.Register(ctx, "Jane", "jane@example.com", "secret1", "08123456789")
	require.ErrorIs(t, err, ErrEmailDelivery)
	require.NotNil(t, u, "the account must survive a delivery failure")

	_, err = users.GetByEmail(ctx, "jane@example.com")
	assert.NoError(t, err)

	// the account can recover via resend once mail works again
	mailer.fail = false
	assert.NoError(t, svc.ResendOTP(ctx, "jane@example.com", model.PurposeEmailVerification))
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _, _ := newTestAuth()
	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func registerVerified(t *testing.T, svc *AuthService, otps *fakeOTPStore, email, password string) *model.User {
	t.Helper()
	ctx := context.Background()
	u, err := svc.Register(ctx, "Jane Doe", email, password, "08123456789")
	require.NoError(t, err)
	code := lastCode(otps, u.Email, model.PurposeEmailVerification)
	res, err := svc.VerifyOTP(ctx, u.Email, code, model.PurposeEmailVerification)
	require.NoError(t, err)
	require.True(t, res.Valid)
	return u
}

func TestLoginLockout(t *testing.T) {
	svc, users, otps, _ := newTestAuth()
	ctx := context.Background()
	u := registerVerified(t, svc, otps, "jane@example.com", "secret1")

	for i := 0; i < repository.MaxLoginAttempts; i++ {
		_, _, err := svc.Login(ctx, "jane@example.com", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// even the right password is refused while the window is open
	_, _, err := svc.Login(ctx, "jane@example.com", "secret1")
	assert.ErrorIs(t, err, ErrAccountLocked)

	stored := users.users[u.UserID]
	require.NotNil(t, stored.LockUntil)
	assert.WithinDuration(t, time.Now().Add(repository.LockDuration), *stored.LockUntil, 2*time.Second)
}

func TestLoginLockExpiryResetsCounter(t *testing.T) {
	svc, users, otps, _ := newTestAuth()
	ctx := context.Background()
	u := registerVerified(t, svc, otps, "jane@example.com", "secret1")

	for i := 0; i < repository.MaxLoginAttempts; i++ {
		_, _, _ = svc.Login(ctx, "jane@example.com", "wrong-password")
	}
	// age the lock past its window
	past := time.Now().Add(-time.Minute)
	users.users[u.UserID].LockUntil = &past

	// the first failure after expiry starts a fresh count, not a sixth strike
	_, _, err := svc.Login(ctx, "jane@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 1, users.users[u.UserID].LoginAttempts)
	assert.Nil(t, users.users[u.UserID].LockUntil)

	tok, _, err := svc.Login(ctx, "jane@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
	assert.Equal(t, 0, users.users[u.UserID].LoginAttempts)
}

func TestLoginSuccessResetsCounter(t *testing.T) {
	svc, users, otps, _ := newTestAuth()
	ctx := context.Background()
	u := registerVerified(t, svc, otps, "jane@example.com", "secret1")

	for i := 0; i < repository.MaxLoginAttempts-1; i++ {
		_, _, _ = svc.Login(ctx, "jane@example.com", "wrong-password")
	}
	_, _, err := svc.Login(ctx, "jane@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, 0, users.users[u.UserID].LoginAttempts)

	// the slate really is clean: one more failure does not lock
	_, _, err = svc.Login(ctx, "jane@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, users.users[u.UserID].LockUntil)
}

func TestPasswordResetRoundTrip(t *testing.T) {
	svc, _, otps, mailer := newTestAuth()
	ctx := context.Background()
	registerVerified(t, svc, otps, "jane@example.com", "secret1")

	require.NoError(t, svc.ForgotPassword(ctx, "jane@example.com"))
	code := lastCode(otps, "jane@example.com", model.PurposePasswordReset)
	require.NotEmpty(t, code)

	res, err := svc.ResetPassword(ctx, "jane@example.com", code, "newsecret")
	require.NoError(t, err)
	require.True(t, res.Valid)
	assert.Contains(t, mailer.sent, "jane@example.com|Password Changed Successfully")

	_, _, err = svc.Login(ctx, "jane@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	tok, _, err := svc.Login(ctx, "jane@example.com", "newsecret")
	require.NoError(t, err)
	assert.NotEmpty(t, tok)

	// the reset code is spent
	res, err = svc.ResetPassword(ctx, "jane@example.com", code, "another1")
	require.NoError(t, err)
	assert.False(t, res.Valid)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc, _, _, _ := newTestAuth()
	err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestForgotPasswordDeliveryFailure(t *testing.T) {
	svc, _, otps, mailer := newTestAuth()
	ctx := context.Background()
	registerVerified(t, svc, otps, "jane@example.com", "secret1")

	mailer.fail = true
	err := svc.ForgotPassword(ctx, "jane@example.com")
	assert.ErrorIs(t, err, ErrEmailDelivery)
}

func TestResendOTPUnknownPurpose(t *testing.T) {
	svc, _, otps, _ := newTestAuth()
	ctx := context.Background()
	registerVerified(t, svc, otps, "jane@example.com", "secret1")

	err := svc.ResendOTP(ctx, "jane@example.com", "bogus")
	var verr *model.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestResendOTPAlreadyVerified(t *testing.T) {
	svc, _, otps, _ := newTestAuth()
	ctx := context.Background()
	registerVerified(t, svc, otps, "jane@example.com", "secret1")

	err := svc.ResendOTP(ctx, "jane@example.com", model.PurposeEmailVerification)
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestUpdatePassword(t *testing.T) {
	svc, _, otps, _ := newTestAuth()
	ctx := context.Background()
	u := registerVerified(t, svc, otps, "jane@example.com", "secret1")

	err := svc.UpdatePassword(ctx, u.UserID, "wrong-current", "newsecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.UpdatePassword(ctx, u.UserID, "secret1", "newsecret"))
	_, _, err = svc.Login(ctx, "jane@example.com", "newsecret")
	assert.NoError(t, err)
}

func TestUpdateDetailsKeepsBlanks(t *testing.T) {
	svc, _, otps, _ := newTestAuth()
	ctx := context.Background()
	u := registerVerified(t, svc, otps, "jane@example.com", "secret1")

	out, err := svc.UpdateDetails(ctx, u.UserID, "New Name", "", "")
	require.NoError(t, err)
	assert.Equal(t, "New Name", out.Name)
	assert.Equal(t, "jane@example.com", out.Email)
	assert.Equal(t, "08123456789", out.Phone)
}

func TestMe(t *testing.T) {
	svc, _, otps, _ := newTestAuth()
	ctx := context.Background()
	u := registerVerified(t, svc, otps, "jane@example.com", "secret1")

	me, err := svc.Me(ctx, u.UserID)
	require.NoError(t, err)
	assert.Equal(t, u.UserID, me.UserID)
	assert.Empty(t, me.PasswordHash)

	_, err = svc.Me(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
