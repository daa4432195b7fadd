package repository

import (
	"context"

	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
)

// ForecastQuery ventana de años [FromYear, ToYear] y país opcional.
type ForecastQuery struct {
	CountryID *string
	FromYear  int
	ToYear    int
}

// ForecastRepository puerto de persistencia para Forecast.
type ForecastRepository interface {
	List(ctx context.Context, q ForecastQuery) ([]*entity.Forecast, error)
	GetByID(ctx context.Context, id string) (*entity.Forecast, error)
	Create(ctx context.Context, f *entity.Forecast) error
	Update(ctx context.Context, f *entity.Forecast) error
}
