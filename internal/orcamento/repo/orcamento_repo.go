package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/orcamento/entity"
)

const rowSelect = `SELECT o.id, o.cliente_id, o.descricao, o.valor_total, o.status, o.observacoes,
	o.data_criacao, o.data_atualizacao, c.nome AS cliente_nome, c.telefone AS cliente_telefone
	FROM orcamentos o JOIN clientes c ON c.id = o.cliente_id`

// OrcamentoRepo provides data access for the orcamentos table.
type OrcamentoRepo struct {
	db *sqlx.DB
}

func NewOrcamentoRepo(db *sqlx.DB) *OrcamentoRepo { return &OrcamentoRepo{db: db} }

func (r *OrcamentoRepo) Create(ctx context.Context, o *entity.Orcamento) error {
	now := time.Now().UTC()
	o.DataCriacao, o.DataAtualizacao = now, now
	if o.Status == "" {
		o.Status = entity.StatusCriado
	}
	q := r.db.Rebind(`INSERT INTO orcamentos (cliente_id, descricao, valor_total, status, observacoes, data_criacao, data_atualizacao)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	return r.db.GetContext(ctx, &o.ID, q, o.ClienteID, o.Descricao, o.ValorTotal, o.Status, o.Observacoes, o.DataCriacao, o.DataAtualizacao)
}

// GetByID returns nil when the orcamento does not exist.
func (r *OrcamentoRepo) GetByID(ctx context.Context, id int64) (*entity.OrcamentoRow, error) {
	var row entity.OrcamentoRow
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(rowSelect+` WHERE o.id = ?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// List returns every orcamento with its cliente, newest first.
func (r *OrcamentoRepo) List(ctx context.Context) ([]entity.OrcamentoRow, error) {
	out := []entity.OrcamentoRow{}
	if err := r.db.SelectContext(ctx, &out, rowSelect+` ORDER BY o.data_criacao DESC, o.id DESC`); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *OrcamentoRepo) ListByStatus(ctx context.Context, status entity.Status) ([]entity.OrcamentoRow, error) {
	out := []entity.OrcamentoRow{}
	q := r.db.Rebind(rowSelect + ` WHERE o.status = ? ORDER BY o.data_criacao DESC, o.id DESC`)
	if err := r.db.SelectContext(ctx, &out, q, status); err != nil {
		return nil, err
	}
	return out, nil
}

// Update writes the mutable columns. It returns sql.ErrNoRows when the id is
// unknown.
func (r *OrcamentoRepo) Update(ctx context.Context, o *entity.Orcamento) error {
	o.DataAtualizacao = time.Now().UTC()
	q := r.db.Rebind(`UPDATE orcamentos SET descricao = ?, valor_total = ?, status = ?, observacoes = ?, data_atualizacao = ?
		WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, q, o.Descricao, o.ValorTotal, o.Status, o.Observacoes, o.DataAtualizacao, o.ID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *OrcamentoRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM orcamentos WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
