package postgres

import (
	"context"

	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/repository"
)

var _ repository.StageHistoryRepository = (*StageHistoryRepo)(nil)

// StageHistoryRepo historial de cambios de etapa (pool o tx).
type StageHistoryRepo struct {
	q Querier
}

// NewStageHistoryRepository construye el adaptador.
func NewStageHistoryRepository(q Querier) *StageHistoryRepo {
	return &StageHistoryRepo{q: q}
}

// Append registra un cambio de etapa.
func (r *StageHistoryRepo) Append(ctx context.Context, c *entity.StageChange) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO opportunity_stage_history (id, opportunity_id, from_stage, to_stage, changed_by, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.OpportunityID, string(c.FromStage), string(c.ToStage), c.ChangedBy, c.ChangedAt,
	)
	return classify("insert stage change", err)
}

// ListByOpportunity historial de la oportunidad, más reciente primero.
func (r *StageHistoryRepo) ListByOpportunity(ctx context.Context, opportunityID string) ([]*entity.StageChange, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id::text, opportunity_id::text, from_stage::text, to_stage::text, changed_by::text, changed_at
		FROM opportunity_stage_history
		WHERE opportunity_id = $1
		ORDER BY changed_at DESC`, opportunityID)
	if err != nil {
		return nil, classify("list stage history", err)
	}
	defer rows.Close()

	var out []*entity.StageChange
	for rows.Next() {
		var (
			c        entity.StageChange
			from, to string
		)
		if err := rows.Scan(&c.ID, &c.OpportunityID, &from, &to, &c.ChangedBy, &c.ChangedAt); err != nil {
			return nil, classify("scan stage change", err)
		}
		c.FromStage = entity.Stage(from)
		c.ToStage = entity.Stage(to)
		out = append(out, &c)
	}
	return out, classify("list stage history", rows.Err())
}
