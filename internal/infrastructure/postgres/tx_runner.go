package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/residencia-api/internal/application/inventory"
	"github.com/jhoicas/residencia-api/internal/application/referral"
	"github.com/jhoicas/residencia-api/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and referral.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ referral.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos de inventario atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	supplyRepo repository.SupplyOrderRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewInventoryMovementRepository(tx), NewProductRepository(tx), NewSupplyOrderRepository(tx))
	})
}

// RunReferral inicia una transacción con los repos de remisiones (alta con número único, seguimiento).
func (r *TxRunner) RunReferral(ctx context.Context, fn func(repos referral.Repos) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(ReferralRepos(tx))
	})
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return wrap("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return wrap("transaction", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return wrap("commit transaction", err)
	}
	return nil
}

// ReferralRepos arma los repositorios de remisiones sobre un Querier (pool o tx).
func ReferralRepos(q Querier) referral.Repos {
	return referral.Repos{
		Referrals:     NewReferralRepository(q),
		Events:        NewTrackingEventRepository(q),
		Involvements:  NewInvolvementRepository(q),
		Residents:     NewResidentRepository(q),
		Collaborators: NewCollaboratorRepository(q),
	}
}
