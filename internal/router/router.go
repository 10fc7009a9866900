package router

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/apperror"
	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/auth"
	authrepo "github.com/ovaphlow/pitchfork/service-tattoo-go/internal/auth/repo"
	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/cliente"
	clienterepo "github.com/ovaphlow/pitchfork/service-tattoo-go/internal/cliente/repo"
	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/config"
	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/httpx"
	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/orcamento"
	orcamentorepo "github.com/ovaphlow/pitchfork/service-tattoo-go/internal/orcamento/repo"
	"github.com/ovaphlow/pitchfork/service-tattoo-go/pkg/utilities"
)

const (
	ServiceName = "service-tattoo-go"
	Version     = "1.0.0"

	requestIDHeader = "X-Request-ID"
)

type requestIDKey struct{}

// RequestIDFromContext returns the id assigned by RequestIDMiddleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDMiddleware tags every request with a snowflake id, echoed in the
// X-Request-ID response header. An incoming X-Request-ID is kept.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" || len(id) > 64 {
				id = utilities.NewSnowflakeID()
			}
			w.Header().Set(requestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		})
	}
}

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// LoggingMiddleware returns a middleware that logs requests at debug level using the provided sugared logger.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			// ensure status is set
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
				"request_id", RequestIDFromContext(r.Context()),
			)
		})
	}
}

// SecurityHeadersMiddleware returns a middleware that sets common HTTP security headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			if w.Header().Get("Content-Security-Policy") == "" {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; object-src 'none'; base-uri 'self';")
			}
			// HSTS only over TLS
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RescueMiddleware turns a panic in a handler into the Internal error envelope.
func RescueMiddleware(rs *httpx.Responder, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Errorw("panic in handler",
					"panic", rec,
					"path", r.URL.Path,
					"request_id", RequestIDFromContext(r.Context()),
					"stack", string(debug.Stack()),
				)
				rs.Error(w, r, apperror.InternalErr(fmt.Errorf("panic: %v", rec)))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	})
}

// RegisterRoutes wires repositories, services and handlers onto a chi router.
func RegisterRoutes(logger *zap.SugaredLogger, db *sqlx.DB, cfg config.Config) (http.Handler, error) {
	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, auth.ParseExpiresIn(cfg.JWTExpiresIn))
	if err != nil {
		return nil, err
	}
	rs := httpx.NewResponder(logger, !cfg.Production())

	authSvc := auth.NewAuthService(authrepo.NewUserRepo(db), auth.BcryptHasher{Cost: auth.DefaultBcryptCost}, tokens)
	clienteSvc := cliente.NewClienteService(clienterepo.NewClienteRepo(db))
	orcamentoSvc := orcamento.NewOrcamentoService(orcamentorepo.NewOrcamentoRepo(db), clienteSvc)

	authHandler := auth.NewHandler(authSvc, rs, logger)
	clienteHandler := cliente.NewHandler(clienteSvc, rs, logger)
	orcamentoHandler := orcamento.NewHandler(orcamentoSvc, rs, logger)
	gate := auth.Gate(authSvc, rs, logger)

	r := chi.NewRouter()
	r.Use(
		middleware.RealIP,
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		RescueMiddleware(rs, logger),
		SecurityHeadersMiddleware(),
		corsMiddleware(cfg.CORSOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rs.JSON(w, http.StatusNotFound, map[string]any{
			"success": false,
			"message": "Rota não encontrada",
			"path":    r.URL.Path,
		})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rs.JSON(w, http.StatusMethodNotAllowed, map[string]any{
			"success": false,
			"message": "Método não permitido",
			"path":    r.URL.Path,
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		rs.JSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Sistema de Gerenciamento de Tatuadores",
			"name":    ServiceName,
			"version": Version,
			"endpoints": map[string]string{
				"auth":       "/auth",
				"clientes":   "/clientes",
				"orcamentos": "/orcamentos",
				"health":     "/health",
			},
		})
	})
	r.Get("/health", healthHandler(db, rs))

	r.Mount("/auth", authHandler.Routes(gate))
	r.Route("/clientes", func(r chi.Router) {
		r.Use(gate)
		clienteHandler.Register(r)
		r.Get("/{clienteId}/orcamentos", orcamentoHandler.ByCliente)
	})
	r.Route("/orcamentos", func(r chi.Router) {
		r.Use(gate)
		orcamentoHandler.Register(r)
	})

	return r, nil
}

func healthHandler(db *sqlx.DB, rs *httpx.Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		body := map[string]any{
			"success":   true,
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
			"version":   Version,
		}
		status := http.StatusOK
		if err := db.PingContext(ctx); err != nil {
			body["success"] = false
			body["status"] = "unhealthy"
			status = http.StatusServiceUnavailable
		}
		rs.JSON(w, status, body)
	}
}
