package cliente

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/apperror"
	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/cliente/entity"
)

var (
	ErrClienteNotFound = apperror.New(apperror.NotFound, "Cliente não encontrado")
	ErrSearchTermEmpty = apperror.New(apperror.Validation, "Dados invalidos").WithDetails([]apperror.FieldError{
		{Field: "nome", Message: "Nome para busca é obrigatório"},
	})
)

// Store is the persistence the service depends on. *repo.ClienteRepo
// satisfies it.
type Store interface {
	Create(ctx context.Context, c *entity.Cliente) error
	GetByID(ctx context.Context, id int64) (*entity.Cliente, error)
	List(ctx context.Context) ([]entity.Cliente, error)
	SearchByName(ctx context.Context, nome string) ([]entity.Cliente, error)
	Update(ctx context.Context, c *entity.Cliente) error
	Delete(ctx context.Context, id int64) error
	OrcamentosOf(ctx context.Context, clienteID int64) ([]entity.OrcamentoResumo, error)
}

// CreateInput holds a new cliente. Empty optional strings are stored as NULL.
type CreateInput struct {
	Nome           string
	Sexo           *string
	DataNascimento *time.Time
	Telefone       *string
	Observacoes    *string
}

// UpdateInput is a partial update: nil leaves a field alone, a pointer to
// the empty string (or ClearDataNascimento) clears it.
type UpdateInput struct {
	Nome                *string
	Sexo                *string
	DataNascimento      *time.Time
	ClearDataNascimento bool
	Telefone            *string
	Observacoes         *string
}

type ClienteService struct {
	store Store
}

func NewClienteService(store Store) *ClienteService {
	return &ClienteService{store: store}
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

func (s *ClienteService) Create(ctx context.Context, in CreateInput) (entity.ClienteView, error) {
	c := &entity.Cliente{
		Nome:           strings.TrimSpace(in.Nome),
		Sexo:           nullable(in.Sexo),
		DataNascimento: utcPtr(in.DataNascimento),
		Telefone:       nullable(in.Telefone),
		Observacoes:    nullable(in.Observacoes),
	}
	if err := s.store.Create(ctx, c); err != nil {
		return entity.ClienteView{}, err
	}
	return c.View(), nil
}

func (s *ClienteService) FindAll(ctx context.Context) ([]entity.ClienteListItem, error) {
	rows, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return listItems(rows), nil
}

// FindByID returns nil when absent.
func (s *ClienteService) FindByID(ctx context.Context, id int64) (*entity.ClienteView, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	v := c.View()
	return &v, nil
}

// FindResumo returns the short form used inside orcamento responses, or nil.
func (s *ClienteService) FindResumo(ctx context.Context, id int64) (*entity.ClienteResumo, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	r := c.Resumo()
	return &r, nil
}

func (s *ClienteService) FindByIDWithOrcamentos(ctx context.Context, id int64) (entity.ClienteComOrcamentos, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return entity.ClienteComOrcamentos{}, err
	}
	if c == nil {
		return entity.ClienteComOrcamentos{}, ErrClienteNotFound
	}
	orcs, err := s.store.OrcamentosOf(ctx, id)
	if err != nil {
		return entity.ClienteComOrcamentos{}, err
	}
	for i := range orcs {
		orcs[i].DataCriacao = orcs[i].DataCriacao.UTC()
	}
	return entity.ClienteComOrcamentos{ClienteView: c.View(), Orcamentos: orcs}, nil
}

func (s *ClienteService) SearchByName(ctx context.Context, nome string) ([]entity.ClienteListItem, error) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return nil, ErrSearchTermEmpty
	}
	rows, err := s.store.SearchByName(ctx, nome)
	if err != nil {
		return nil, err
	}
	return listItems(rows), nil
}

func (s *ClienteService) Update(ctx context.Context, id int64, in UpdateInput) (entity.ClienteView, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return entity.ClienteView{}, err
	}
	if c == nil {
		return entity.ClienteView{}, ErrClienteNotFound
	}

	if in.Nome != nil {
		c.Nome = strings.TrimSpace(*in.Nome)
	}
	if in.Sexo != nil {
		c.Sexo = nullable(in.Sexo)
	}
	switch {
	case in.ClearDataNascimento:
		c.DataNascimento = nil
	case in.DataNascimento != nil:
		c.DataNascimento = utcPtr(in.DataNascimento)
	}
	if in.Telefone != nil {
		c.Telefone = nullable(in.Telefone)
	}
	if in.Observacoes != nil {
		c.Observacoes = nullable(in.Observacoes)
	}

	if err := s.store.Update(ctx, c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.ClienteView{}, ErrClienteNotFound
		}
		return entity.ClienteView{}, err
	}
	return c.View(), nil
}

func (s *ClienteService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrClienteNotFound
		}
		return err
	}
	return nil
}

func listItems(rows []entity.Cliente) []entity.ClienteListItem {
	out := make([]entity.ClienteListItem, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ListItem())
	}
	return out
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
