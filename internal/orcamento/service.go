package orcamento

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/apperror"
	clienteentity "github.com/ovaphlow/pitchfork/service-tattoo-go/internal/cliente/entity"
	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/orcamento/entity"
)

var (
	ErrOrcamentoNotFound = apperror.New(apperror.NotFound, "Orçamento não encontrado")
	ErrClienteNotFound   = apperror.New(apperror.NotFound, "Cliente não encontrado")
	ErrInvalidStatus     = apperror.New(apperror.Validation, "Dados invalidos").WithDetails([]apperror.FieldError{
		{Field: "status", Message: "Valor invalido. Use um de: criado, feito, cancelado"},
	})
)

// Store is the persistence the service depends on. *repo.OrcamentoRepo
// satisfies it.
type Store interface {
	Create(ctx context.Context, o *entity.Orcamento) error
	GetByID(ctx context.Context, id int64) (*entity.OrcamentoRow, error)
	List(ctx context.Context) ([]entity.OrcamentoRow, error)
	ListByStatus(ctx context.Context, status entity.Status) ([]entity.OrcamentoRow, error)
	Update(ctx context.Context, o *entity.Orcamento) error
	Delete(ctx context.Context, id int64) error
}

// Clientes resolves the owning cliente. *cliente.ClienteService satisfies it.
type Clientes interface {
	FindResumo(ctx context.Context, id int64) (*clienteentity.ClienteResumo, error)
	FindByIDWithOrcamentos(ctx context.Context, id int64) (clienteentity.ClienteComOrcamentos, error)
}

type CreateInput struct {
	ClienteID   int64
	Descricao   string
	ValorTotal  float64
	Status      entity.Status
	Observacoes *string
}

// UpdateInput is a partial update: nil leaves a field alone, an empty
// Observacoes clears it.
type UpdateInput struct {
	Descricao   *string
	ValorTotal  *float64
	Status      *entity.Status
	Observacoes *string
}

// ClienteOrcamentos is the body of GET /clientes/{clienteId}/orcamentos.
type ClienteOrcamentos struct {
	Cliente    clienteentity.ClienteView       `json:"cliente"`
	Orcamentos []clienteentity.OrcamentoResumo `json:"orcamentos"`
}

type OrcamentoService struct {
	store    Store
	clientes Clientes
}

func NewOrcamentoService(store Store, clientes Clientes) *OrcamentoService {
	return &OrcamentoService{store: store, clientes: clientes}
}

func nullable(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func (s *OrcamentoService) Create(ctx context.Context, in CreateInput) (entity.OrcamentoView, error) {
	status := in.Status
	if status == "" {
		status = entity.StatusCriado
	}
	if !status.Valid() {
		return entity.OrcamentoView{}, ErrInvalidStatus
	}
	c, err := s.clientes.FindResumo(ctx, in.ClienteID)
	if err != nil {
		return entity.OrcamentoView{}, err
	}
	if c == nil {
		return entity.OrcamentoView{}, ErrClienteNotFound
	}

	o := &entity.Orcamento{
		ClienteID:   in.ClienteID,
		Descricao:   strings.TrimSpace(in.Descricao),
		ValorTotal:  in.ValorTotal,
		Status:      status,
		Observacoes: nullable(in.Observacoes),
	}
	if err := s.store.Create(ctx, o); err != nil {
		return entity.OrcamentoView{}, err
	}
	return o.View(), nil
}

func (s *OrcamentoService) FindAll(ctx context.Context) ([]entity.OrcamentoComCliente, error) {
	rows, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return withCliente(rows), nil
}

func (s *OrcamentoService) FindByStatus(ctx context.Context, status entity.Status) ([]entity.OrcamentoComCliente, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	rows, err := s.store.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return withCliente(rows), nil
}

func (s *OrcamentoService) FindByID(ctx context.Context, id int64) (entity.OrcamentoComCliente, error) {
	row, err := s.store.GetByID(ctx, id)
	if err != nil {
		return entity.OrcamentoComCliente{}, err
	}
	if row == nil {
		return entity.OrcamentoComCliente{}, ErrOrcamentoNotFound
	}
	return row.WithCliente(), nil
}

// FindByCliente returns the cliente and a summary of each of its orcamentos.
func (s *OrcamentoService) FindByCliente(ctx context.Context, clienteID int64) (ClienteOrcamentos, error) {
	detail, err := s.clientes.FindByIDWithOrcamentos(ctx, clienteID)
	if err != nil {
		return ClienteOrcamentos{}, err
	}
	return ClienteOrcamentos{Cliente: detail.ClienteView, Orcamentos: detail.Orcamentos}, nil
}

func (s *OrcamentoService) Update(ctx context.Context, id int64, in UpdateInput) (entity.OrcamentoView, error) {
	row, err := s.store.GetByID(ctx, id)
	if err != nil {
		return entity.OrcamentoView{}, err
	}
	if row == nil {
		return entity.OrcamentoView{}, ErrOrcamentoNotFound
	}
	o := row.Orcamento

	if in.Descricao != nil {
		o.Descricao = strings.TrimSpace(*in.Descricao)
	}
	if in.ValorTotal != nil {
		o.ValorTotal = *in.ValorTotal
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return entity.OrcamentoView{}, ErrInvalidStatus
		}
		o.Status = *in.Status
	}
	if in.Observacoes != nil {
		o.Observacoes = nullable(in.Observacoes)
	}

	if err := s.store.Update(ctx, &o); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.OrcamentoView{}, ErrOrcamentoNotFound
		}
		return entity.OrcamentoView{}, err
	}
	return o.View(), nil
}

func (s *OrcamentoService) UpdateStatus(ctx context.Context, id int64, status entity.Status) (entity.OrcamentoView, error) {
	return s.Update(ctx, id, UpdateInput{Status: &status})
}

func (s *OrcamentoService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrcamentoNotFound
		}
		return err
	}
	return nil
}

func withCliente(rows []entity.OrcamentoRow) []entity.OrcamentoComCliente {
	out := make([]entity.OrcamentoComCliente, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].WithCliente())
	}
	return out
}
