package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/crm-pipeline-api/internal/application/pipeline"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/repository"
)

// Ensure TxRunner implements pipeline.StageTxRunner.
var _ pipeline.StageTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunStageChange inicia una transacción, ejecuta fn con repos atados a la tx
// (oportunidades e historial) y hace Commit o Rollback.
func (r *TxRunner) RunStageChange(ctx context.Context, fn func(
	opps repository.OpportunityRepository,
	history repository.StageHistoryRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return classify("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewOpportunityRepository(tx), NewStageHistoryRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", classify("commit", err))
	}
	return nil
}
