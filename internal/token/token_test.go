package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	iss := NewIssuer("secret", time.Hour, "shop-api")

	tok, err := iss.Issue(42, "jane@example.com", "user")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := iss.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "shop-api", claims.Issuer)
}

func TestParseExpired(t *testing.T) {
	iss := NewIssuer("secret", -time.Minute, "shop-api")

	tok, err := iss.Issue(1, "a@example.com", "user")
	require.NoError(t, err)

	_, err = iss.Parse(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseWrongSecret(t *testing.T) {
	iss := NewIssuer("secret", time.Hour, "shop-api")
	other := NewIssuer("different", time.Hour, "shop-api")

	tok, err := iss.Issue(1, "a@example.com", "user")
	require.NoError(t, err)

	_, err = other.Parse(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseGarbage(t *testing.T) {
	iss := NewIssuer("secret", time.Hour, "shop-api")
	_, err := iss.Parse("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
