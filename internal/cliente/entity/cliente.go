package entity

import "time"

// Cliente represents a row in the `clientes` table.
type Cliente struct {
	ID             int64      `db:"id"`
	Nome           string     `db:"nome"`
	Sexo           *string    `db:"sexo"`
	DataNascimento *time.Time `db:"data_nascimento"`
	Telefone       *string    `db:"telefone"`
	Observacoes    *string    `db:"observacoes"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// ClienteView is the full public projection.
type ClienteView struct {
	ID             int64      `json:"id"`
	Nome           string     `json:"nome"`
	Sexo           *string    `json:"sexo"`
	DataNascimento *time.Time `json:"dataNascimento"`
	Telefone       *string    `json:"telefone"`
	Observacoes    *string    `json:"observacoes"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// ClienteListItem is the row shape used by list and search.
type ClienteListItem struct {
	ID       int64   `json:"id"`
	Nome     string  `json:"nome"`
	Sexo     *string `json:"sexo"`
	Telefone *string `json:"telefone"`
}

// ClienteResumo is embedded in orcamento responses.
type ClienteResumo struct {
	ID       int64   `json:"id"`
	Nome     string  `json:"nome"`
	Telefone *string `json:"telefone"`
}

// OrcamentoResumo is the short orcamento form listed under a cliente.
type OrcamentoResumo struct {
	ID          int64     `db:"id" json:"id"`
	Descricao   string    `db:"descricao" json:"descricao"`
	ValorTotal  float64   `db:"valor_total" json:"valorTotal"`
	Status      string    `db:"status" json:"status"`
	DataCriacao time.Time `db:"data_criacao" json:"dataCriacao"`
}

// ClienteComOrcamentos is the detail view.
type ClienteComOrcamentos struct {
	ClienteView
	Orcamentos []OrcamentoResumo `json:"orcamentos"`
}

func (c *Cliente) View() ClienteView {
	v := ClienteView{
		ID:          c.ID,
		Nome:        c.Nome,
		Sexo:        c.Sexo,
		Telefone:    c.Telefone,
		Observacoes: c.Observacoes,
		CreatedAt:   c.CreatedAt.UTC(),
		UpdatedAt:   c.UpdatedAt.UTC(),
	}
	if c.DataNascimento != nil {
		d := c.DataNascimento.UTC()
		v.DataNascimento = &d
	}
	return v
}

func (c *Cliente) ListItem() ClienteListItem {
	return ClienteListItem{ID: c.ID, Nome: c.Nome, Sexo: c.Sexo, Telefone: c.Telefone}
}

func (c *Cliente) Resumo() ClienteResumo {
	return ClienteResumo{ID: c.ID, Nome: c.Nome, Telefone: c.Telefone}
}
