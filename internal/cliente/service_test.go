package cliente

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/apperror"
	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/cliente/repo"
	"github.com/ovaphlow/pitchfork/service-tattoo-go/pkg/database/dbtest"
)

func ptr[T any](v T) *T { return &v }

func newService(t *testing.T) (*ClienteService, *sqlx.DB) {
	t.Helper()
	db := dbtest.New(t)
	return NewClienteService(repo.NewClienteRepo(db)), db
}

func insertOrcamento(t *testing.T, db *sqlx.DB, clienteID int64, descricao string, at time.Time) {
	t.Helper()
	_, err := db.Exec(db.Rebind(`INSERT INTO orcamentos (cliente_id, descricao, valor_total, status, data_criacao, data_atualizacao)
		VALUES (?, ?, ?, 'criado', ?, ?)`), clienteID, descricao, 150.5, at, at)
	require.NoError(t, err)
}

func TestCreateAndFind(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	nasc := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)

	view, err := svc.Create(ctx, CreateInput{
		Nome:           "  Carla  ",
		Sexo:           ptr("F"),
		DataNascimento: &nasc,
		Telefone:       ptr("(11) 98888-7777"),
		Observacoes:    ptr(""),
	})
	require.NoError(t, err)
	assert.Positive(t, view.ID)
	assert.Equal(t, "Carla", view.Nome)
	assert.Nil(t, view.Observacoes)

	found, err := svc.FindByID(ctx, view.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.NotNil(t, found.DataNascimento)
	assert.True(t, nasc.Equal(*found.DataNascimento))
	assert.Equal(t, "(11) 98888-7777", *found.Telefone)

	missing, err := svc.FindByID(ctx, view.ID+1)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFindAll_NewestFirst(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	list, err := svc.FindAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	a, err := svc.Create(ctx, CreateInput{Nome: "Ana"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, CreateInput{Nome: "Bruno"})
	require.NoError(t, err)

	list, err = svc.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)
}

func TestSearchByName(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	for _, n := range []string{"Mariana Souza", "Ana Maria", "Pedro", "100%_real"} {
		_, err := svc.Create(ctx, CreateInput{Nome: n})
		require.NoError(t, err)
	}

	list, err := svc.SearchByName(ctx, "MARI")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ana Maria", list[0].Nome)
	assert.Equal(t, "Mariana Souza", list[1].Nome)

	list, err = svc.SearchByName(ctx, "%_")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "100%_real", list[0].Nome)

	_, err = svc.SearchByName(ctx, "  ")
	assert.Equal(t, apperror.Validation, apperror.KindOf(err))
}

func TestUpdate_Partial(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	nasc := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	created, err := svc.Create(ctx, CreateInput{
		Nome: "Carla", Sexo: ptr("F"), DataNascimento: &nasc, Telefone: ptr("(11) 98888-7777"),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, UpdateInput{Observacoes: ptr("prefere traço fino")})
	require.NoError(t, err)
	assert.Equal(t, "Carla", updated.Nome)
	assert.Equal(t, "F", *updated.Sexo)
	assert.Equal(t, "prefere traço fino", *updated.Observacoes)

	updated, err = svc.Update(ctx, created.ID, UpdateInput{Telefone: ptr(""), ClearDataNascimento: true})
	require.NoError(t, err)
	assert.Nil(t, updated.Telefone)
	assert.Nil(t, updated.DataNascimento)
	assert.NotNil(t, updated.Sexo)

	_, err = svc.Update(ctx, created.ID+99, UpdateInput{Nome: ptr("X")})
	assert.ErrorIs(t, err, ErrClienteNotFound)
}

func TestDetailAndCascadeDelete(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	c, err := svc.Create(ctx, CreateInput{Nome: "Carla"})
	require.NoError(t, err)

	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	insertOrcamento(t, db, c.ID, "Fechamento de braço", base)
	insertOrcamento(t, db, c.ID, "Retoque de rosa", base.Add(time.Hour))

	detail, err := svc.FindByIDWithOrcamentos(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, detail.Orcamentos, 2)
	assert.Equal(t, "Retoque de rosa", detail.Orcamentos[0].Descricao)
	assert.InDelta(t, 150.5, detail.Orcamentos[0].ValorTotal, 0.001)

	require.NoError(t, svc.Delete(ctx, c.ID))

	var left int
	require.NoError(t, db.Get(&left, `SELECT COUNT(*) FROM orcamentos`))
	assert.Zero(t, left)

	assert.ErrorIs(t, svc.Delete(ctx, c.ID), ErrClienteNotFound)
	_, err = svc.FindByIDWithOrcamentos(ctx, c.ID)
	assert.ErrorIs(t, err, ErrClienteNotFound)
}
