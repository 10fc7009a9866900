package auth

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/auth/repo"
	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/httpx"
	"github.com/ovaphlow/pitchfork/service-tattoo-go/pkg/database/dbtest"
)

type testEnv struct {
	svc    *AuthService
	store  *repo.UserRepo
	tokens *TokenIssuer
	clock  *fakeClock
	rs     *httpx.Responder
	logger *zap.SugaredLogger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repo.NewUserRepo(dbtest.New(t))
	tokens, clock := newIssuer(t, "test-secret", time.Hour)
	logger := newTestEnvLogger()
	return &testEnv{
		svc:    NewAuthService(store, BcryptHasher{Cost: bcrypt.MinCost}, tokens),
		store:  store,
		tokens: tokens,
		clock:  clock,
		rs:     httpx.NewResponder(logger, true),
		logger: logger,
	}
}

func newTestEnvLogger() *zap.SugaredLogger { return zap.NewNop().Sugar() }
