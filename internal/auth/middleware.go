package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/apperror"
	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/auth/entity"
	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/httpx"
)

var (
	ErrMissingToken   = apperror.New(apperror.Unauthenticated, "Token de autenticacao nao fornecido")
	ErrMalformedToken = apperror.New(apperror.MalformedCredential, "Formato de token invalido. Use: Bearer <token>")
)

// Verifier is the subset of AuthService the Gate needs.
type Verifier interface {
	VerifyToken(token string) (Identity, error)
	FindByID(ctx context.Context, id int64) (*entity.UserView, error)
}

// Gate rejects requests without a valid bearer token for an existing user and
// attaches the caller's Identity to the request context.
func Gate(v Verifier, rs *httpx.Responder, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				rs.Error(w, r, ErrMissingToken)
				return
			}
			parts := strings.Split(header, " ")
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				rs.Error(w, r, ErrMalformedToken)
				return
			}

			id, err := v.VerifyToken(parts[1])
			if err != nil {
				rs.Error(w, r, ErrInvalidToken.Wrap(err))
				return
			}
			u, err := v.FindByID(r.Context(), id.ID)
			if err != nil {
				rs.Error(w, r, err)
				return
			}
			if u == nil {
				logger.Debugw("token for unknown user", "user_id", id.ID)
				rs.Error(w, r, ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
