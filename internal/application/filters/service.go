package filters

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
)

// Store puerto de persistencia de la selección por sesión.
type Store interface {
	// Load devuelve found=false si la sesión no tiene selección guardada.
	Load(ctx context.Context, sessionID string) (f Filter, found bool, err error)
	Save(ctx context.Context, sessionID string, f Filter) error
	Delete(ctx context.Context, sessionID string) error
}

// Service casos de uso de la selección de filtros.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService construye el servicio.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Get devuelve la selección de la sesión o la selección por defecto.
func (s *Service) Get(ctx context.Context, sessionID string) (Filter, error) {
	f, found, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return Filter{}, fmt.Errorf("filters: cargar sesión: %w", err)
	}
	if !found {
		return Default(s.now()), nil
	}
	return f, nil
}

// Update aplica el parche y persiste la selección.
func (s *Service) Update(ctx context.Context, sessionID string, p dto.UpdateFilterRequest) (Filter, error) {
	cur, err := s.Get(ctx, sessionID)
	if err != nil {
		return Filter{}, err
	}
	next := cur.Apply(p)
	if err := s.store.Save(ctx, sessionID, next); err != nil {
		return Filter{}, fmt.Errorf("filters: guardar sesión: %w", err)
	}
	return next, nil
}

// Reset descarta la selección (logout).
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("filters: reset sesión: %w", err)
	}
	return nil
}
