package repository

import (
	"context"

	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
)

// OpportunityQuery filtros de lectura de oportunidades.
type OpportunityQuery struct {
	CountryID *string // nil = todos los países
}

// OpportunityRepository puerto de persistencia para Opportunity (el "store").
// Las operaciones devuelven domain.ErrNotFound, domain.ErrInvalidInput o
// domain.ErrStoreUnavailable según corresponda.
type OpportunityRepository interface {
	// List devuelve las oportunidades ordenadas por created_at DESC.
	List(ctx context.Context, q OpportunityQuery) ([]*entity.Opportunity, error)
	GetByID(ctx context.Context, id string) (*entity.Opportunity, error)
	Create(ctx context.Context, o *entity.Opportunity) error
	Update(ctx context.Context, o *entity.Opportunity) error
	// UpdateStage cambia solo la etapa y devuelve la fila actualizada.
	UpdateStage(ctx context.Context, id string, stage entity.Stage) (*entity.Opportunity, error)
	Delete(ctx context.Context, id string) error
}

// StageHistoryRepository historial de cambios de etapa.
type StageHistoryRepository interface {
	Append(ctx context.Context, change *entity.StageChange) error
	ListByOpportunity(ctx context.Context, opportunityID string) ([]*entity.StageChange, error)
}
