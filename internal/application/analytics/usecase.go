package analytics

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
	"github.com/jhoicas/crm-pipeline-api/internal/application/filters"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/repository"
)

// UseCase lecturas de las vistas derivadas. Todas reciben el filtro de la sesión.
type UseCase struct {
	opps       repository.OpportunityRepository
	forecasts  repository.ForecastRepository
	deliveries repository.ProjectDeliveryRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	opps repository.OpportunityRepository,
	forecasts repository.ForecastRepository,
	deliveries repository.ProjectDeliveryRepository,
) *UseCase {
	return &UseCase{opps: opps, forecasts: forecasts, deliveries: deliveries}
}

// Dashboard KPIs sobre las oportunidades del país seleccionado.
func (uc *UseCase) Dashboard(ctx context.Context, f filters.Filter) (*dto.DashboardSummaryDTO, error) {
	opps, err := uc.opps.List(ctx, repository.OpportunityQuery{CountryID: f.CountryID})
	if err != nil {
		return nil, fmt.Errorf("analytics: dashboard: %w", err)
	}
	out := BuildDashboard(opps)
	return &out, nil
}

// Forecast grid trimestral del año seleccionado y el siguiente.
// Oportunidades y proyecciones se leen en paralelo.
func (uc *UseCase) Forecast(ctx context.Context, f filters.Filter) (*dto.ForecastSummaryDTO, error) {
	var (
		opps    []*entity.Opportunity
		planned []*entity.Forecast
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		opps, err = uc.opps.List(gctx, repository.OpportunityQuery{CountryID: f.CountryID})
		return err
	})
	g.Go(func() error {
		var err error
		planned, err = uc.forecasts.List(gctx, repository.ForecastQuery{
			CountryID: f.CountryID,
			FromYear:  f.Year,
			ToYear:    f.Year + 1,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analytics: forecast: %w", err)
	}
	out := BuildForecast(f.Year, opps, planned)
	return &out, nil
}

// Delivery reporte de entrega del mes/año seleccionado.
func (uc *UseCase) Delivery(ctx context.Context, f filters.Filter) (*dto.DeliveryReportDTO, error) {
	rows, err := uc.deliveries.List(ctx, repository.DeliveryQuery{CountryID: f.CountryID})
	if err != nil {
		return nil, fmt.Errorf("analytics: delivery: %w", err)
	}
	out := BuildDelivery(f.Month, f.Year, rows)
	return &out, nil
}
