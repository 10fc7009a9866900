package auth

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/apperror"
	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/httpx"
)

var errNotAuthenticated = apperror.New(apperror.Unauthenticated, "Nao autenticado")

// Handler exposes HTTP endpoints for registration, login and the caller's
// own profile.
type Handler struct {
	svc    *AuthService
	rs     *httpx.Responder
	logger *zap.SugaredLogger
}

func NewHandler(svc *AuthService, rs *httpx.Responder, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, rs: rs, logger: logger}
}

// Routes mounts the /auth subtree. gate protects every route except register
// and login.
func (h *Handler) Routes(gate func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Group(func(r chi.Router) {
		r.Use(gate)
		r.Get("/me", h.Me)
		r.Put("/me", h.UpdateMe)
		r.Get("/users", h.ListUsers)
	})
	return r
}

// RegisterRequest accepts the display name as either "name" or "nome".
type RegisterRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Nome  string `json:"nome" validate:"-"`
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required,min=6,max=100"`
}

func (req *RegisterRequest) Normalize() {
	if strings.TrimSpace(req.Name) == "" {
		req.Name = req.Nome
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.DecodeAndValidate(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	view, err := h.svc.Register(r.Context(), RegisterInput{Name: req.Name, Email: req.Email, Password: req.Senha})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.logger.Infow("user registered", "user_id", view.ID)
	h.rs.Created(w, "Usuario registrado com sucesso", view)
}

type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required,min=1"`
}

func (req *LoginRequest) Normalize() {
	req.Email = strings.TrimSpace(req.Email)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeAndValidate(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	res, err := h.svc.Login(r.Context(), req.Email, req.Senha)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OKMessage(w, "Login realizado com sucesso", res)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		h.rs.Error(w, r, errNotAuthenticated)
		return
	}
	view, err := h.svc.FindByID(r.Context(), id.ID)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	if view == nil {
		h.rs.Error(w, r, ErrUserNotFound)
		return
	}
	h.rs.OK(w, view)
}

// UpdateMeRequest is a partial update; absent fields are left as they are.
type UpdateMeRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=2,max=100"`
	Nome       *string `json:"nome" validate:"-"`
	Email      *string `json:"email" validate:"omitempty,email"`
	SenhaAtual *string `json:"senhaAtual" validate:"-"`
	NovaSenha  *string `json:"novaSenha" validate:"omitempty,min=6,max=100"`
}

func (req *UpdateMeRequest) Normalize() {
	if req.Name == nil {
		req.Name = req.Nome
	}
	if req.Name != nil {
		n := strings.TrimSpace(*req.Name)
		req.Name = &n
	}
	if req.Email != nil {
		e := strings.TrimSpace(*req.Email)
		req.Email = &e
	}
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		h.rs.Error(w, r, errNotAuthenticated)
		return
	}
	var req UpdateMeRequest
	if err := httpx.DecodeAndValidate(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	view, err := h.svc.UpdateProfile(r.Context(), id.ID, UpdateProfileInput{
		Name:            req.Name,
		Email:           req.Email,
		CurrentPassword: req.SenhaAtual,
		NewPassword:     req.NovaSenha,
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OKMessage(w, "Dados atualizados com sucesso", view)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListAll(r.Context())
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, users)
}
