package auth

import (
	"errors"
	"regexp"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/apperror"
)

// DefaultTokenTTL applies when JWT_EXPIRES_IN is missing or unparseable.
const DefaultTokenTTL = 7 * 24 * time.Hour

var (
	ErrInvalidToken = apperror.New(apperror.InvalidOrExpiredToken, "Token invalido ou expirado")
	ErrEmptySecret  = errors.New("auth: empty signing secret")

	expiresInRe = regexp.MustCompile(`^(\d+)([smhdw])$`)
)

var unitSeconds = map[string]int64{
	"s": 1,
	"m": 60,
	"h": 60 * 60,
	"d": 24 * 60 * 60,
	"w": 7 * 24 * 60 * 60,
}

// ParseExpiresIn converts expressions like "30m" or "7d" into a duration.
// Anything that does not match <integer><unit> yields DefaultTokenTTL.
func ParseExpiresIn(s string) time.Duration {
	m := expiresInRe.FindStringSubmatch(s)
	if m == nil {
		return DefaultTokenTTL
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || n <= 0 {
		return DefaultTokenTTL
	}
	return time.Duration(n*unitSeconds[m[2]]) * time.Second
}

// Identity is the authenticated caller carried by a token.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Claims is the JWT payload.
type Claims struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 tokens with a shared secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// WithClock returns a copy of t that reads the current time from now.
func (t *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	c := *t
	c.now = now
	return &c
}

func (t *TokenIssuer) TTL() time.Duration { return t.ttl }

func (t *TokenIssuer) Issue(id Identity) (string, error) {
	now := t.now()
	claims := Claims{
		ID:    id.ID,
		Email: id.Email,
		Name:  id.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify checks signature, algorithm and expiry. Every failure is reported as
// ErrInvalidToken.
func (t *TokenIssuer) Verify(token string) (Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return Identity{}, ErrInvalidToken.Wrap(err)
	}
	if claims.ID <= 0 {
		return Identity{}, ErrInvalidToken
	}
	return Identity{ID: claims.ID, Email: claims.Email, Name: claims.Name}, nil
}
