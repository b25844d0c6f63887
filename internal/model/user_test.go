package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRegistration(t *testing.T) {
	assert.NoError(t, ValidateRegistration("Jane Doe", "jane@example.com", "secret1", "08123456789"))

	cases := []struct {
		name                      string
		uname, email, pass, phone string
		field                     string
	}{
		{"empty name", "", "a@b.co", "secret1", "08123456789", "name"},
		{"short name", "J", "a@b.co", "secret1", "08123456789", "name"},
		{"long name", string(make([]byte, 51)), "a@b.co", "secret1", "08123456789", "name"},
		{"empty email", "Jane", "", "secret1", "08123456789", "email"},
		{"bad email", "Jane", "not-an-email", "secret1", "08123456789", "email"},
		{"empty password", "Jane", "a@b.co", "", "08123456789", "password"},
		{"short password", "Jane", "a@b.co", "12345", "08123456789", "password"},
		{"empty phone", "Jane", "a@b.co", "secret1", "", "phone"},
		{"short phone", "Jane", "a@b.co", "secret1", "123456789", "phone"},
		{"alpha phone", "Jane", "a@b.co", "secret1", "0812345678a", "phone"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRegistration(tc.uname, tc.email, tc.pass, tc.phone)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			found := false
			for _, f := range verr.Fields {
				if f.Field == tc.field {
					found = true
				}
			}
			assert.True(t, found, "expected a violation on %q, got %v", tc.field, verr.Fields)
		})
	}
}

func TestValidationErrorCollectsAllFields(t *testing.T) {
	err := ValidateRegistration("", "", "", "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 4)
}

func TestIsLocked(t *testing.T) {
	now := time.Now()
	u := &User{}
	assert.False(t, u.IsLocked(now))

	future := now.Add(time.Minute)
	u.LockUntil = &future
	assert.True(t, u.IsLocked(now))

	past := now.Add(-time.Minute)
	u.LockUntil = &past
	assert.False(t, u.IsLocked(now))
}

func TestUserJSONHidesSensitiveFields(t *testing.T) {
	lock := time.Now()
	u := &User{
		UserID:        1,
		Name:          "Jane",
		Email:         "jane@example.com",
		PasswordHash:  "$2a$10$abcdefg",
		LoginAttempts: 3,
		LockUntil:     &lock,
	}
	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "abcdefg")
	assert.NotContains(t, string(b), "login_attempts")
	assert.NotContains(t, string(b), "lock_until")
}

func TestPublicProjection(t *testing.T) {
	last := time.Now()
	u := &User{UserID: 7, Name: "Jane", Email: "jane@example.com", Phone: "08123456789", Role: RoleUser, LastLogin: &last, PasswordHash: "x"}
	p := u.Public()
	assert.Equal(t, int64(7), p.UserID)
	assert.Equal(t, "jane@example.com", p.Email)
	assert.Equal(t, &last, p.LastLogin)
}
