package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/auth/repo"
	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/httpx"
)

func protected(env *testEnv) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		_ = json.NewEncoder(w).Encode(id)
	})
	return Gate(env.svc, env.rs, env.logger)(next)
}

func serve(h http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/clientes", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) httpx.Envelope {
	t.Helper()
	var env httpx.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestGate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user, err := env.svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@x.com", Password: "abcdef"})
	require.NoError(t, err)

	valid, err := env.tokens.Issue(Identity{ID: user.ID, Email: user.Email, Name: user.Name})
	require.NoError(t, err)

	forged, _ := newIssuer(t, "not-the-secret", time.Hour)
	wrongSig, err := forged.Issue(Identity{ID: user.ID, Email: user.Email, Name: user.Name})
	require.NoError(t, err)

	expiring := env.tokens.WithClock(func() time.Time { return env.clock.Now().Add(-2 * time.Hour) })
	expired, err := expiring.Issue(Identity{ID: user.ID, Email: user.Email, Name: user.Name})
	require.NoError(t, err)

	ghost, err := env.tokens.Issue(Identity{ID: user.ID + 100, Email: "ghost@x.com", Name: "Ghost"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		msg    string
	}{
		{"no header", "", "Token de autenticacao nao fornecido"},
		{"basic scheme", "Basic dXNlcjpwYXNz", "Formato de token invalido. Use: Bearer <token>"},
		{"lowercase bearer", "bearer " + valid, "Formato de token invalido. Use: Bearer <token>"},
		{"bearer without token", "Bearer", "Formato de token invalido. Use: Bearer <token>"},
		{"extra part", "Bearer " + valid + " x", "Formato de token invalido. Use: Bearer <token>"},
		{"wrong signature", "Bearer " + wrongSig, "Token invalido ou expirado"},
		{"expired", "Bearer " + expired, "Token invalido ou expirado"},
		{"garbage", "Bearer abc.def.ghi", "Token invalido ou expirado"},
		{"user gone", "Bearer " + ghost, "Token invalido ou expirado"},
	}
	h := protected(env)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			body := decodeEnvelope(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tt.msg, body.Error)
		})
	}

	t.Run("valid token attaches identity", func(t *testing.T) {
		rec := serve(h, "Bearer "+valid)
		require.Equal(t, http.StatusOK, rec.Code)
		var got Identity
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, Identity{ID: user.ID, Email: "ana@x.com", Name: "Ana"}, got)
	})
}

func TestGate_StoreFailureIsInternal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM users WHERE id`).WillReturnError(errors.New("connection refused"))

	tokens, _ := newIssuer(t, "test-secret", time.Hour)
	store := repo.NewUserRepo(sqlx.NewDb(db, "sqlmock"))
	base := newTestEnvWith(store, tokens)

	token, err := tokens.Issue(Identity{ID: 1, Email: "ana@x.com", Name: "Ana"})
	require.NoError(t, err)

	rec := serve(protected(base), "Bearer "+token)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Erro interno do servidor", decodeEnvelope(t, rec).Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func newTestEnvWith(store UserStore, tokens *TokenIssuer) *testEnv {
	env := &testEnv{tokens: tokens}
	env.logger = newTestEnvLogger()
	env.rs = httpx.NewResponder(env.logger, false)
	env.svc = NewAuthService(store, BcryptHasher{Cost: bcrypt.MinCost}, tokens)
	return env
}
