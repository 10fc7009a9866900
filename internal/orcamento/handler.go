package orcamento

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/httpx"
	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/orcamento/entity"
)

// Handler exposes the /orcamentos endpoints and the per-cliente listing.
type Handler struct {
	svc    *OrcamentoService
	rs     *httpx.Responder
	logger *zap.SugaredLogger
}

func NewHandler(svc *OrcamentoService, rs *httpx.Responder, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, rs: rs, logger: logger}
}

// Register adds the orcamento routes to r, which is expected to be mounted at
// /orcamentos behind the auth gate.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/status/{status}", h.ByStatus)
	r.Post("/", h.Store)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Delete("/{id}", h.Destroy)
}

type CreateOrcamentoRequest struct {
	ClienteID   int64   `json:"clienteId" validate:"required,gt=0"`
	Descricao   string  `json:"descricao" validate:"required,min=5,max=500"`
	ValorTotal  float64 `json:"valorTotal" validate:"required,gt=0"`
	Status      string  `json:"status" validate:"omitempty,oneof=criado feito cancelado"`
	Observacoes *string `json:"observacoes" validate:"omitempty,max=500"`
}

type UpdateOrcamentoRequest struct {
	Descricao   *string  `json:"descricao" validate:"omitempty,min=5,max=500"`
	ValorTotal  *float64 `json:"valorTotal" validate:"omitempty,gt=0"`
	Status      *string  `json:"status" validate:"omitempty,oneof=criado feito cancelado"`
	Observacoes *string  `json:"observacoes" validate:"omitempty,max=500"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=criado feito cancelado"`
}

type statusResponse struct {
	Success bool          `json:"success"`
	Data    any           `json:"data"`
	Status  entity.Status `json:"status"`
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.FindAll(r.Context())
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, list)
}

func (h *Handler) ByStatus(w http.ResponseWriter, r *http.Request) {
	status := entity.Status(chi.URLParam(r, "status"))
	list, err := h.svc.FindByStatus(r.Context(), status)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, statusResponse{Success: true, Data: list, Status: status})
}

// ByCliente serves GET /clientes/{clienteId}/orcamentos.
func (h *Handler) ByCliente(w http.ResponseWriter, r *http.Request) {
	clienteID, err := httpx.ParseID(r, "clienteId")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	res, err := h.svc.FindByCliente(r.Context(), clienteID)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, res)
}

func (h *Handler) Store(w http.ResponseWriter, r *http.Request) {
	var req CreateOrcamentoRequest
	if err := httpx.DecodeAndValidate(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	view, err := h.svc.Create(r.Context(), CreateInput{
		ClienteID:   req.ClienteID,
		Descricao:   req.Descricao,
		ValorTotal:  req.ValorTotal,
		Status:      entity.Status(req.Status),
		Observacoes: req.Observacoes,
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.logger.Debugw("orcamento created", "orcamento_id", view.ID, "cliente_id", view.ClienteID)
	h.rs.Created(w, "", view)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	view, err := h.svc.FindByID(r.Context(), id)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, view)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	var req UpdateOrcamentoRequest
	if err := httpx.DecodeAndValidate(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	in := UpdateInput{Descricao: req.Descricao, ValorTotal: req.ValorTotal, Observacoes: req.Observacoes}
	if req.Status != nil {
		st := entity.Status(*req.Status)
		in.Status = &st
	}
	view, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, view)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	var req UpdateStatusRequest
	if err := httpx.DecodeAndValidate(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	view, err := h.svc.UpdateStatus(r.Context(), id, entity.Status(req.Status))
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
	h.rs.NoContent(w)
}
