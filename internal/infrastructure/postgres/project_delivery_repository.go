package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/crm-pipeline-api/internal/domain"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/repository"
)

var _ repository.ProjectDeliveryRepository = (*ProjectDeliveryRepo)(nil)

// ProjectDeliveryRepo seguimiento mensual de entrega.
type ProjectDeliveryRepo struct {
	q Querier
}

// NewProjectDeliveryRepository construye el adaptador.
func NewProjectDeliveryRepository(q Querier) *ProjectDeliveryRepo {
	return &ProjectDeliveryRepo{q: q}
}

const deliverySelect = `
	SELECT d.id::text, d.country_id::text, d.year, d.month,
	       COALESCE(d.planned_sites, 0), COALESCE(d.actual_sites, 0), COALESCE(d.forecast_sites, 0),
	       COALESCE(d.planned_teams, 0), COALESCE(d.actual_teams, 0), COALESCE(d.forecast_teams, 0),
	       COALESCE(d.planned_revenue, 0), COALESCE(d.actual_revenue, 0), COALESCE(d.forecast_revenue, 0),
	       d.health_status::text, COALESCE(d.planning_assumptions, ''), COALESCE(d.notes, ''),
	       d.created_by::text, d.created_at, d.updated_at,
	       COALESCE(c.name, ''), COALESCE(c.code, '')
	FROM project_delivery d
	LEFT JOIN countries c ON c.id = d.country_id`

func scanDelivery(row pgx.Row) (*entity.ProjectDelivery, error) {
	var (
		d      entity.ProjectDelivery
		health *string
	)
	err := row.Scan(
		&d.ID, &d.CountryID, &d.Year, &d.Month,
		&d.PlannedSites, &d.ActualSites, &d.ForecastSites,
		&d.PlannedTeams, &d.ActualTeams, &d.ForecastTeams,
		&d.PlannedRevenue, &d.ActualRevenue, &d.ForecastRevenue,
		&health, &d.PlanningAssumptions, &d.Notes,
		&d.CreatedBy, &d.CreatedAt, &d.UpdatedAt,
		&d.CountryName, &d.CountryCode,
	)
	if err != nil {
		return nil, err
	}
	if health != nil {
		h := entity.HealthStatus(*health)
		d.HealthStatus = &h
	}
	return &d, nil
}

func healthArg(h *entity.HealthStatus) *string {
	if h == nil {
		return nil
	}
	s := string(*h)
	return &s
}

// List filas de entrega (año y mes descendentes), opcionalmente por país.
func (r *ProjectDeliveryRepo) List(ctx context.Context, q repository.DeliveryQuery) ([]*entity.ProjectDelivery, error) {
	country, ok := countryFilter(q.CountryID)
	if !ok {
		return []*entity.ProjectDelivery{}, nil
	}
	rows, err := r.q.Query(ctx, deliverySelect+`
	WHERE ($1::uuid IS NULL OR d.country_id = $1::uuid)
	ORDER BY d.year DESC, d.month DESC, c.name`, country)
	if err != nil {
		return nil, classify("list project delivery", err)
	}
	defer rows.Close()

	var out []*entity.ProjectDelivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, classify("scan project delivery", err)
		}
		out = append(out, d)
	}
	return out, classify("list project delivery", rows.Err())
}

// GetByID obtiene una fila.
func (r *ProjectDeliveryRepo) GetByID(ctx context.Context, id string) (*entity.ProjectDelivery, error) {
	d, err := scanDelivery(r.q.QueryRow(ctx, deliverySelect+` WHERE d.id = $1`, id))
	if err != nil {
		return nil, classify("get project delivery", err)
	}
	return d, nil
}

// Create persiste una fila. Un segundo registro del mismo país/mes → ErrDuplicate.
func (r *ProjectDeliveryRepo) Create(ctx context.Context, d *entity.ProjectDelivery) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO project_delivery (id, country_id, year, month,
			planned_sites, actual_sites, forecast_sites, planned_teams, actual_teams, forecast_teams,
			planned_revenue, actual_revenue, forecast_revenue, health_status, planning_assumptions, notes,
			created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			NULLIF($15, ''), NULLIF($16, ''), $17, $18, $19)`,
		d.ID, d.CountryID, d.Year, d.Month,
		d.PlannedSites, d.ActualSites, d.ForecastSites, d.PlannedTeams, d.ActualTeams, d.ForecastTeams,
		d.PlannedRevenue, d.ActualRevenue, d.ForecastRevenue, healthArg(d.HealthStatus), d.PlanningAssumptions, d.Notes,
		d.CreatedBy, d.CreatedAt, d.UpdatedAt,
	)
	return classify("insert project delivery", err)
}

// Update reescribe las métricas editables.
func (r *ProjectDeliveryRepo) Update(ctx context.Context, d *entity.ProjectDelivery) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE project_delivery
		SET planned_sites = $2, actual_sites = $3, forecast_sites = $4,
		    planned_teams = $5, actual_teams = $6, forecast_teams = $7,
		    planned_revenue = $8, actual_revenue = $9, forecast_revenue = $10,
		    health_status = $11, planning_assumptions = NULLIF($12, ''), notes = NULLIF($13, ''),
		    updated_at = $14
		WHERE id = $1`,
		d.ID, d.PlannedSites, d.ActualSites, d.ForecastSites,
		d.PlannedTeams, d.ActualTeams, d.ForecastTeams,
		d.PlannedRevenue, d.ActualRevenue, d.ForecastRevenue,
		healthArg(d.HealthStatus), d.PlanningAssumptions, d.Notes, d.UpdatedAt,
	)
	if err != nil {
		return classify("update project delivery", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
