package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/smartsella/syntecxhub-shop-api/internal/model"
	"github.com/smartsella/syntecxhub-shop-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOTPStore keeps OTP records in memory with the same lookup rules the SQL
// store applies.
type fakeOTPStore struct {
	nextID int64
	recs   map[int64]*model.OTP
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{recs: make(map[int64]*model.OTP)}
}

func (f *fakeOTPStore) Insert(_ context.Context, otp *model.OTP) error {
	f.nextID++
	otp.OTPID = f.nextID
	otp.CreatedAt = time.Now()
	cp := *otp
	f.recs[otp.OTPID] = &cp
	return nil
}

func (f *fakeOTPStore) FindValid(_ context.Context, email, code, purpose string) (*model.OTP, error) {
	now := time.Now()
	var matches []*model.OTP
	for _, r := range f.recs {
		if r.Email == email && r.Code == code && r.Purpose == purpose &&
			r.ExpiresAt.After(now) && !r.IsUsed && r.Attempts < model.OTPMaxAttempts {
			matches = append(matches, r)
		}
	}
	if len(matches) == 0 {
		return nil, repository.ErrOTPNotFound
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.After(matches[j].CreatedAt) })
	cp := *matches[0]
	return &cp, nil
}

func (f *fakeOTPStore) IncrementAttempts(_ context.Context, otpID int64) (int, error) {
	r, ok := f.recs[otpID]
	if !ok {
		return 0, repository.ErrOTPNotFound
	}
	r.Attempts++
	return r.Attempts, nil
}

func (f *fakeOTPStore) MarkUsed(_ context.Context, otpID int64) error {
	r, ok := f.recs[otpID]
	if !ok {
		return repository.ErrOTPNotFound
	}
	r.IsUsed = true
	return nil
}

func (f *fakeOTPStore) Delete(_ context.Context, otpID int64) error {
	delete(f.recs, otpID)
	return nil
}

func TestOTPGenerate(t *testing.T) {
	store := newFakeOTPStore()
	svc := NewOTPService(store)

	otp, err := svc.Generate(context.Background(), "a@example.com", model.PurposeEmailVerification)
	require.NoError(t, err)
	assert.Len(t, otp.Code, 6)
	assert.Regexp(t, `^[0-9]{6}$`, otp.Code)
	assert.GreaterOrEqual(t, otp.Code, "100000")
	assert.WithinDuration(t, time.Now().Add(model.OTPTTL), otp.ExpiresAt, 2*time.Second)

	// a bad purpose is a client error, not an internal one
	_, err = svc.Generate(context.Background(), "a@example.com", "bogus")
	var verr *model.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestOTPVerifyHappyPath(t *testing.T) {
	store := newFakeOTPStore()
	svc := NewOTPService(store)
	ctx := context.Background()

	otp, err := svc.Generate(ctx, "a@example.com", model.PurposeEmailVerification)
	require.NoError(t, err)

	res, err := svc.Verify(ctx, "a@example.com", otp.Code, model.PurposeEmailVerification)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, "OTP verified successfully", res.Message)
}

func TestOTPVerifySingleUse(t *testing.T) {
	store := newFakeOTPStore()
	svc := NewOTPService(store)
	ctx := context.Background()

	otp, err := svc.Generate(ctx, "a@example.com", model.PurposePasswordReset)
	require.NoError(t, err)

	res, err := svc.Verify(ctx, "a@example.com", otp.Code, model.PurposePasswordReset)
	require.NoError(t, err)
	require.True(t, res.Valid)

	// replaying the consumed code must fail
	res, err = svc.Verify(ctx, "a@example.com", otp.Code, model.PurposePasswordReset)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "Invalid or expired OTP", res.Message)
}

func TestOTPVerifyWrongCode(t *testing.T) {
	store := newFakeOTPStore()
	svc := NewOTPService(store)
	ctx := context.Background()

	otp, err := svc.Generate(ctx, "a@example.com", model.PurposeEmailVerification)
	require.NoError(t, err)

	wrong := "000000"
	if wrong == otp.Code {
		wrong = "000001"
	}
	for i := 0; i < 10; i++ {
		res, err := svc.Verify(ctx, "a@example.com", wrong, model.PurposeEmailVerification)
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Equal(t, "Invalid or expired OTP", res.Message)
	}
	assert.Equal(t, 0, store.recs[otp.OTPID].Attempts, "wrong codes must not touch the counter")

	// wrong submissions do not burn the record, so the real code still works
	res, err := svc.Verify(ctx, "a@example.com", otp.Code, model.PurposeEmailVerification)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	// only the matching submission counts
	assert.Equal(t, 1, store.recs[otp.OTPID].Attempts)
}

func TestOTPVerifyAttemptCapDeletesRecord(t *testing.T) {
	store := newFakeOTPStore()
	svc := NewOTPService(store)
	ctx := context.Background()

	otp, err := svc.Generate(ctx, "a@example.com", model.PurposeEmailVerification)
	require.NoError(t, err)
	store.recs[otp.OTPID].Attempts = model.OTPMaxAttempts - 1

	res, err := svc.Verify(ctx, "a@example.com", otp.Code, model.PurposeEmailVerification)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "Too many attempts. OTP deleted", res.Message)
	assert.NotContains(t, store.recs, otp.OTPID)
}

func TestOTPVerifyExpired(t *testing.T) {
	store := newFakeOTPStore()
	svc := NewOTPService(store)
	ctx := context.Background()

	otp, err := svc.Generate(ctx, "a@example.com", model.PurposeEmailVerification)
	require.NoError(t, err)
	store.recs[otp.OTPID].ExpiresAt = time.Now().Add(-time.Minute)

	res, err := svc.Verify(ctx, "a@example.com", otp.Code, model.PurposeEmailVerification)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "Invalid or expired OTP", res.Message)
}

func TestOTPVerifyPurposeScoped(t *testing.T) {
	store := newFakeOTPStore()
	svc := NewOTPService(store)
	ctx := context.Background()

	otp, err := svc.Generate(ctx, "a@example.com", model.PurposeEmailVerification)
	require.NoError(t, err)

	res, err := svc.Verify(ctx, "a@example.com", otp.Code, model.PurposePasswordReset)
	require.NoError(t, err)
	assert.False(t, res.Valid)
}

func TestOTPVerifyNewestCodeWins(t *testing.T) {
	store := newFakeOTPStore()
	svc := NewOTPService(store)
	ctx := context.Background()

	first, err := svc.Generate(ctx, "a@example.com", model.PurposeEmailVerification)
	require.NoError(t, err)
	store.recs[first.OTPID].CreatedAt = time.Now().Add(-time.Minute)

	second, err := svc.Generate(ctx, "a@example.com", model.PurposeEmailVerification)
	require.NoError(t, err)

	res, err := svc.Verify(ctx, "a@example.com", second.Code, model.PurposeEmailVerification)
	require.NoError(t, err)
	assert.True(t, res.Valid)

	// the older code is independent; it still matches its own record
	res, err = svc.Verify(ctx, "a@example.com", first.Code, model.PurposeEmailVerification)
	require.NoError(t, err)
	assert.True(t, res.Valid)
}
