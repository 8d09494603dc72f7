package signing

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigner(t *testing.T) {
	s := NewSigner([]byte("topsecret"))
	want := Identity{ID: 12, Email: "ana@example.com", Username: "ana"}

	token, err := s.Issue(want)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// A different secret must not validate the token.
	_, err = NewSigner([]byte("other")).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpiresAfterOneHour(t *testing.T) {
	issued := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := NewSigner([]byte("topsecret"))
	s.now = func() time.Time { return issued }

	token, err := s.Issue(Identity{ID: 1})
	require.NoError(t, err)

	var claims Claims
	_, _, err = jwt.NewParser().ParseUnverified(token, &claims)
	require.NoError(t, err)
	assert.Equal(t, issued.Add(time.Hour), claims.ExpiresAt.Time.UTC())

	s.now = func() time.Time { return issued.Add(59 * time.Minute) }
	_, err = s.Parse(token)
	assert.NoError(t, err)

	s.now = func() time.Time { return issued.Add(61 * time.Minute) }
	_, err = s.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsUnsignedTokens(t *testing.T) {
	claims := Claims{
		Identity: Identity{ID: 1},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewSigner([]byte("topsecret")).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
