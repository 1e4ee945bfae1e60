package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/residencia-api/internal/domain"
	"github.com/jhoicas/residencia-api/internal/domain/repository"
)

type fakeRow struct{ err error }

func (r fakeRow) Scan(...any) error { return r.err }

// fakeQuerier responde toda consulta con err y guarda el SQL recibido.
type fakeQuerier struct {
	err     error
	queries []string
}

func (q *fakeQuerier) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	q.queries = append(q.queries, sql)
	return pgconn.CommandTag{}, q.err
}

func (q *fakeQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	q.queries = append(q.queries, sql)
	return nil, q.err
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	q.queries = append(q.queries, sql)
	return fakeRow{err: q.err}
}

func (q *fakeQuerier) last() string {
	return strings.TrimSpace(q.queries[len(q.queries)-1])
}

func TestReferralRepo_GetForUpdateBloqueaLaFila(t *testing.T) {
	q := &fakeQuerier{err: pgx.ErrNoRows}
	repo := NewReferralRepository(q)

	ref, err := repo.GetForUpdate(context.Background(), "9b2f3c1e-0000-4000-8000-000000000001")
	require.NoError(t, err)
	assert.Nil(t, ref)
	assert.True(t, strings.HasSuffix(q.last(), "FOR UPDATE"))

	_, err = repo.GetByID(context.Background(), "9b2f3c1e-0000-4000-8000-000000000001")
	require.NoError(t, err)
	assert.NotContains(t, q.last(), "FOR UPDATE")
}

func TestRepos_IDMalFormadoEsNoEncontrado(t *testing.T) {
	ctx := context.Background()
	q := &fakeQuerier{err: &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}}

	getters := map[string]func() (any, error){
		"producto":           func() (any, error) { return NewProductRepository(q).GetByID(ctx, "abc") },
		"producto bloqueado": func() (any, error) { return NewProductRepository(q).GetForUpdate(ctx, "abc") },
		"movimiento":         func() (any, error) { return NewInventoryMovementRepository(q).GetByID(ctx, "abc") },
		"suministro":         func() (any, error) { return NewSupplyOrderRepository(q).GetByID(ctx, "abc") },
		"remision":           func() (any, error) { return NewReferralRepository(q).GetByID(ctx, "abc") },
		"remision bloqueada": func() (any, error) { return NewReferralRepository(q).GetForUpdate(ctx, "abc") },
		"residente":          func() (any, error) { return NewResidentRepository(q).GetByID(ctx, "abc") },
		"colaborador":        func() (any, error) { return NewCollaboratorRepository(q).GetByID(ctx, "abc") },
		"seguimiento":        func() (any, error) { return NewTrackingEventRepository(q).ListByReferral(ctx, "abc") },
		"trazabilidad":       func() (any, error) { return NewInvolvementRepository(q).ListByReferral(ctx, "abc") },
		"movimientos filtro": func() (any, error) { return NewInventoryMovementRepository(q).List(ctx, repository.MovementFilter{ProductID: "abc"}, 10, 0) },
		"suministros filtro": func() (any, error) { return NewSupplyOrderRepository(q).List(ctx, repository.SupplyOrderFilter{ProductID: "abc"}, 10, 0) },
		"conteo movimientos": func() (any, error) { return NewInventoryMovementRepository(q).CountByProduct(ctx, "abc") },
		"conteo suministros": func() (any, error) { return NewSupplyOrderRepository(q).CountByProduct(ctx, "abc") },
	}
	for name, get := range getters {
		t.Run(name, func(t *testing.T) {
			_, err := get()
			assert.NoError(t, err)
		})
	}

	assert.ErrorIs(t, NewProductRepository(q).Delete(ctx, "abc"), domain.ErrProductNotFound)
	assert.ErrorIs(t, NewSupplyOrderRepository(q).Delete(ctx, "abc"), domain.ErrSupplyOrderNotFound)
	assert.ErrorIs(t, NewReferralRepository(q).Delete(ctx, "abc"), domain.ErrReferralNotFound)
}

func TestRepos_FallosDelDriverSiguenSiendoPersistencia(t *testing.T) {
	q := &fakeQuerier{err: errors.New("conexión cerrada")}

	_, err := NewReferralRepository(q).GetForUpdate(context.Background(), "abc")
	assert.ErrorIs(t, err, domain.ErrPersistence)

	_, err = NewTrackingEventRepository(q).ListByReferral(context.Background(), "abc")
	assert.ErrorIs(t, err, domain.ErrPersistence)
}
