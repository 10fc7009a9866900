package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/cliente/entity"
)

const clienteColumns = `id, nome, sexo, data_nascimento, telefone, observacoes, created_at, updated_at`

// ClienteRepo provides data access for the clientes table.
type ClienteRepo struct {
	db *sqlx.DB
}

func NewClienteRepo(db *sqlx.DB) *ClienteRepo { return &ClienteRepo{db: db} }

func (r *ClienteRepo) Create(ctx context.Context, c *entity.Cliente) error {
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	q := r.db.Rebind(`INSERT INTO clientes (nome, sexo, data_nascimento, telefone, observacoes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	return r.db.GetContext(ctx, &c.ID, q, c.Nome, c.Sexo, c.DataNascimento, c.Telefone, c.Observacoes, c.CreatedAt, c.UpdatedAt)
}

// GetByID returns nil when the cliente does not exist.
func (r *ClienteRepo) GetByID(ctx context.Context, id int64) (*entity.Cliente, error) {
	var c entity.Cliente
	q := r.db.Rebind(`SELECT ` + clienteColumns + ` FROM clientes WHERE id = ?`)
	if err := r.db.GetContext(ctx, &c, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// List returns every cliente, newest first.
func (r *ClienteRepo) List(ctx context.Context) ([]entity.Cliente, error) {
	out := []entity.Cliente{}
	q := `SELECT ` + clienteColumns + ` FROM clientes ORDER BY created_at DESC, id DESC`
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchByName matches nome case-insensitively anywhere in the string,
// ordered alphabetically.
func (r *ClienteRepo) SearchByName(ctx context.Context, nome string) ([]entity.Cliente, error) {
	out := []entity.Cliente{}
	q := r.db.Rebind(`SELECT ` + clienteColumns + ` FROM clientes
		WHERE LOWER(nome) LIKE ? ESCAPE '\' ORDER BY nome ASC, id ASC`)
	if err := r.db.SelectContext(ctx, &out, q, "%"+escapeLike(strings.ToLower(nome))+"%"); err != nil {
		return nil, err
	}
	return out, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Update writes every mutable column and bumps updated_at. It returns
// sql.ErrNoRows when the id is unknown.
func (r *ClienteRepo) Update(ctx context.Context, c *entity.Cliente) error {
	c.UpdatedAt = time.Now().UTC()
	q := r.db.Rebind(`UPDATE clientes SET nome = ?, sexo = ?, data_nascimento = ?, telefone = ?, observacoes = ?, updated_at = ?
		WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, q, c.Nome, c.Sexo, c.DataNascimento, c.Telefone, c.Observacoes, c.UpdatedAt, c.ID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// Delete removes the cliente; its orcamentos go with it through the foreign
// key. It returns sql.ErrNoRows when the id is unknown.
func (r *ClienteRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM clientes WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// OrcamentosOf lists the orcamentos of one cliente, newest first.
func (r *ClienteRepo) OrcamentosOf(ctx context.Context, clienteID int64) ([]entity.OrcamentoResumo, error) {
	out := []entity.OrcamentoResumo{}
	q := r.db.Rebind(`SELECT id, descricao, valor_total, status, data_criacao FROM orcamentos
		WHERE cliente_id = ? ORDER BY data_criacao DESC, id DESC`)
	if err := r.db.SelectContext(ctx, &out, q, clienteID); err != nil {
		return nil, err
	}
	return out, nil
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
