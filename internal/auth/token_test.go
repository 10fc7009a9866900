package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newIssuer(t *testing.T, secret string, ttl time.Duration) (*TokenIssuer, *fakeClock) {
	t.Helper()
	iss, err := NewTokenIssuer(secret, ttl)
	require.NoError(t, err)
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	return iss.WithClock(clock.Now), clock
}

func TestParseExpiresIn(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"1s", time.Second},
		{"30m", 30 * time.Minute},
		{"12h", 12 * time.Hour},
		{"7d", 7 * 24 * time.Hour},
		{"2w", 14 * 24 * time.Hour},
		{"", DefaultTokenTTL},
		{"7", DefaultTokenTTL},
		{"d", DefaultTokenTTL},
		{"1y", DefaultTokenTTL},
		{"1.5h", DefaultTokenTTL},
		{" 7d", DefaultTokenTTL},
		{"0s", DefaultTokenTTL},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseExpiresIn(tt.in))
		})
	}
	assert.Equal(t, int64(604800), int64(DefaultTokenTTL/time.Second))
}

func TestNewTokenIssuer_EmptySecret(t *testing.T) {
	_, err := NewTokenIssuer("", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	iss, _ := newIssuer(t, "s3cret", time.Hour)
	ids := []Identity{
		{ID: 1, Email: "ana@x.com", Name: "Ana"},
		{ID: 982451653, Email: "joão@estúdio.com.br", Name: "João da Silva"},
	}
	for _, want := range ids {
		token, err := iss.Issue(want)
		require.NoError(t, err)

		got, err := iss.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestIssue_ClaimsCarryExpiry(t *testing.T) {
	iss, clock := newIssuer(t, "s3cret", 2*time.Hour)
	token, err := iss.Issue(Identity{ID: 7, Email: "a@b.c", Name: "A"})
	require.NoError(t, err)

	var claims Claims
	_, _, err = jwt.NewParser().ParseUnverified(token, &claims)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.ID)
	assert.Equal(t, clock.Now().Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, clock.Now().Add(2*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestVerify_ExpiresAfterWindow(t *testing.T) {
	iss, clock := newIssuer(t, "s3cret", ParseExpiresIn("1s"))
	token, err := iss.Issue(Identity{ID: 1, Email: "ana@x.com", Name: "Ana"})
	require.NoError(t, err)

	_, err = iss.Verify(token)
	require.NoError(t, err)

	clock.Advance(2 * time.Second)
	_, err = iss.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Rejects(t *testing.T) {
	iss, _ := newIssuer(t, "s3cret", time.Hour)
	other, _ := newIssuer(t, "other", time.Hour)

	wrongSig, err := other.Issue(Identity{ID: 1, Email: "a@b.c", Name: "A"})
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		ID: 1, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		ID: 1, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{ID: 1}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	tests := map[string]string{
		"wrong signature": wrongSig,
		"none algorithm":  noneAlg,
		"other algorithm": hs512,
		"missing exp":     noExp,
		"garbage":         "not.a.jwt",
		"empty":           "",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := iss.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
