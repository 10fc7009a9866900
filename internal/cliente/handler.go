package cliente

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/httpx"
)

// Handler exposes the /clientes endpoints.
type Handler struct {
	svc    *ClienteService
	rs     *httpx.Responder
	logger *zap.SugaredLogger
}

func NewHandler(svc *ClienteService, rs *httpx.Responder, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, rs: rs, logger: logger}
}

// Register adds the cliente routes to r, which is expected to be mounted at
// /clientes behind the auth gate.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/search", h.Search)
	r.Post("/", h.Store)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Destroy)
}

type CreateClienteRequest struct {
	Nome           string  `json:"nome" validate:"required,min=2,max=100"`
	Sexo           *string `json:"sexo" validate:"omitempty,eq=|oneof=M F Outro"`
	DataNascimento *string `json:"dataNascimento" validate:"omitempty,eq=|datetime=2006-01-02T15:04:05Z07:00"`
	Telefone       *string `json:"telefone" validate:"omitempty,eq=|telefone"`
	Observacoes    *string `json:"observacoes" validate:"omitempty,max=500"`
}

// UpdateClienteRequest is a partial update; "" clears an optional field.
type UpdateClienteRequest struct {
	Nome           *string `json:"nome" validate:"omitempty,min=2,max=100"`
	Sexo           *string `json:"sexo" validate:"omitempty,eq=|oneof=M F Outro"`
	DataNascimento *string `json:"dataNascimento" validate:"omitempty,eq=|datetime=2006-01-02T15:04:05Z07:00"`
	Telefone       *string `json:"telefone" validate:"omitempty,eq=|telefone"`
	Observacoes    *string `json:"observacoes" validate:"omitempty,max=500"`
}

// parseDate has already been validated as RFC 3339 or "".
func parseDate(s *string) (t *time.Time, unset bool) {
	if s == nil {
		return nil, false
	}
	if *s == "" {
		return nil, true
	}
	v, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, false
	}
	return &v, false
}

type searchResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Termo   string `json:"termo"`
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.FindAll(r.Context())
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, list)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	nome := r.URL.Query().Get("nome")
	list, err := h.svc.SearchByName(r.Context(), nome)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, searchResponse{Success: true, Data: list, Termo: nome})
}

func (h *Handler) Store(w http.ResponseWriter, r *http.Request) {
	var req CreateClienteRequest
	if err := httpx.DecodeAndValidate(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	nasc, _ := parseDate(req.DataNascimento)
	view, err := h.svc.Create(r.Context(), CreateInput{
		Nome:           req.Nome,
		Sexo:           req.Sexo,
		DataNascimento: nasc,
		Telefone:       req.Telefone,
		Observacoes:    req.Observacoes,
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.logger.Debugw("cliente created", "cliente_id", view.ID)
	h.rs.Created(w, "", view)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	detail, err := h.svc.FindByIDWithOrcamentos(r.Context(), id)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, detail)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	var req UpdateClienteRequest
	if err := httpx.DecodeAndValidate(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	nasc, unset := parseDate(req.DataNascimento)
	view, err := h.svc.Update(r.Context(), id, UpdateInput{
		Nome:                req.Nome,
		Sexo:                req.Sexo,
		DataNascimento:      nasc,
		ClearDataNascimento: unset,
		Telefone:            req.Telefone,
		Observacoes:         req.Observacoes,
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, view)
}

func (h *Handler) Destroy(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.logger.Debugw("cliente deleted", "cliente_id", id)
	h.rs.NoContent(w)
}
