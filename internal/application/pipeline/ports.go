package pipeline

import (
	"context"
	"sync"

	"github.com/jhoicas/crm-pipeline-api/internal/domain"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/repository"
)

// StageTxRunner ejecuta el cambio de etapa y su registro de historial en una
// sola transacción (implementado por postgres.TxRunner).
type StageTxRunner interface {
	RunStageChange(ctx context.Context, fn func(
		opps repository.OpportunityRepository,
		history repository.StageHistoryRepository,
	) error) error
}

// InFlightGuard garantiza un único cambio de etapa pendiente por oportunidad.
// Acquire devuelve domain.ErrInFlight si el token ya está tomado.
type InFlightGuard interface {
	Acquire(ctx context.Context, opportunityID string) (release func(), err error)
}

// LocalGuard guard en proceso; válido con una sola instancia de la API.
type LocalGuard struct {
	mu   sync.Mutex
	held map[string]struct{}
}

var _ InFlightGuard = (*LocalGuard)(nil)

// NewLocalGuard construye el guard.
func NewLocalGuard() *LocalGuard {
	return &LocalGuard{held: make(map[string]struct{})}
}

// Acquire toma el token de la oportunidad.
func (g *LocalGuard) Acquire(_ context.Context, opportunityID string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.held[opportunityID]; busy {
		return nil, domain.ErrInFlight
	}
	g.held[opportunityID] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.held, opportunityID)
			g.mu.Unlock()
		})
	}, nil
}
