package entity

import (
	"time"

	clienteentity "github.com/ovaphlow/pitchfork/service-tattoo-go/internal/cliente/entity"
)

type Status string

const (
	StatusCriado    Status = "criado"
	StatusFeito     Status = "feito"
	StatusCancelado Status = "cancelado"
)

func (s Status) Valid() bool {
	switch s {
	case StatusCriado, StatusFeito, StatusCancelado:
		return true
	}
	return false
}

// Orcamento represents a row in the `orcamentos` table.
type Orcamento struct {
	ID              int64     `db:"id"`
	ClienteID       int64     `db:"cliente_id"`
	Descricao       string    `db:"descricao"`
	ValorTotal      float64   `db:"valor_total"`
	Status          Status    `db:"status"`
	Observacoes     *string   `db:"observacoes"`
	DataCriacao     time.Time `db:"data_criacao"`
	DataAtualizacao time.Time `db:"data_atualizacao"`
}

// OrcamentoRow is an orcamento joined with its cliente's summary columns.
type OrcamentoRow struct {
	Orcamento
	ClienteNome     string  `db:"cliente_nome"`
	ClienteTelefone *string `db:"cliente_telefone"`
}

type OrcamentoView struct {
	ID              int64     `json:"id"`
	Descricao       string    `json:"descricao"`
	ValorTotal      float64   `json:"valorTotal"`
	Status          Status    `json:"status"`
	Observacoes     *string   `json:"observacoes"`
	DataCriacao     time.Time `json:"dataCriacao"`
	DataAtualizacao time.Time `json:"dataAtualizacao"`
	ClienteID       int64     `json:"clienteId"`
}

type OrcamentoComCliente struct {
	OrcamentoView
	Cliente clienteentity.ClienteResumo `json:"cliente"`
}

func (o *Orcamento) View() OrcamentoView {
	return OrcamentoView{
		ID:              o.ID,
		Descricao:       o.Descricao,
		ValorTotal:      o.ValorTotal,
		Status:          o.Status,
		Observacoes:     o.Observacoes,
		DataCriacao:     o.DataCriacao.UTC(),
		DataAtualizacao: o.DataAtualizacao.UTC(),
		ClienteID:       o.ClienteID,
	}
}

func (r *OrcamentoRow) WithCliente() OrcamentoComCliente {
	return OrcamentoComCliente{
		OrcamentoView: r.View(),
		Cliente: clienteentity.ClienteResumo{
			ID:       r.ClienteID,
			Nome:     r.ClienteNome,
			Telefone: r.ClienteTelefone,
		},
	}
}
