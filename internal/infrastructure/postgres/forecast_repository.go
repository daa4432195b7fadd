package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/crm-pipeline-api/internal/domain"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/repository"
)

var _ repository.ForecastRepository = (*ForecastRepo)(nil)

// ForecastRepo proyecciones cargadas manualmente.
type ForecastRepo struct {
	q Querier
}

// NewForecastRepository construye el adaptador.
func NewForecastRepository(q Querier) *ForecastRepo {
	return &ForecastRepo{q: q}
}

const forecastSelect = `
	SELECT f.id::text, f.country_id::text, f.business_area::text, f.year, f.quarter,
	       COALESCE(f.expected_revenue, 0), COALESCE(f.growth_assumption, 0), COALESCE(f.notes, ''),
	       f.created_by::text, f.created_at, f.updated_at,
	       COALESCE(c.name, ''), COALESCE(c.code, '')
	FROM forecasts f
	LEFT JOIN countries c ON c.id = f.country_id`

func scanForecast(row pgx.Row) (*entity.Forecast, error) {
	var (
		f    entity.Forecast
		area string
	)
	err := row.Scan(
		&f.ID, &f.CountryID, &area, &f.Year, &f.Quarter,
		&f.ExpectedRevenue, &f.GrowthAssumption, &f.Notes,
		&f.CreatedBy, &f.CreatedAt, &f.UpdatedAt,
		&f.CountryName, &f.CountryCode,
	)
	if err != nil {
		return nil, err
	}
	f.BusinessArea = entity.BusinessArea(area)
	return &f, nil
}

// List proyecciones de la ventana de años, ordenadas por año y trimestre.
func (r *ForecastRepo) List(ctx context.Context, q repository.ForecastQuery) ([]*entity.Forecast, error) {
	country, ok := countryFilter(q.CountryID)
	if !ok {
		return []*entity.Forecast{}, nil
	}
	rows, err := r.q.Query(ctx, forecastSelect+`
	WHERE f.year BETWEEN $1 AND $2
	  AND ($3::uuid IS NULL OR f.country_id = $3::uuid)
	ORDER BY f.year, f.quarter NULLS FIRST`, q.FromYear, q.ToYear, country)
	if err != nil {
		return nil, classify("list forecasts", err)
	}
	defer rows.Close()

	var out []*entity.Forecast
	for rows.Next() {
		f, err := scanForecast(rows)
		if err != nil {
			return nil, classify("scan forecast", err)
		}
		out = append(out, f)
	}
	return out, classify("list forecasts", rows.Err())
}

// GetByID obtiene una proyección.
func (r *ForecastRepo) GetByID(ctx context.Context, id string) (*entity.Forecast, error) {
	f, err := scanForecast(r.q.QueryRow(ctx, forecastSelect+` WHERE f.id = $1`, id))
	if err != nil {
		return nil, classify("get forecast", err)
	}
	return f, nil
}

// Create persiste una proyección.
func (r *ForecastRepo) Create(ctx context.Context, f *entity.Forecast) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO forecasts (id, country_id, business_area, year, quarter, expected_revenue,
			growth_assumption, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10, $11)`,
		f.ID, f.CountryID, string(f.BusinessArea), f.Year, f.Quarter, f.ExpectedRevenue,
		f.GrowthAssumption, f.Notes, f.CreatedBy, f.CreatedAt, f.UpdatedAt,
	)
	return classify("insert forecast", err)
}

// Update reescribe los campos editables.
func (r *ForecastRepo) Update(ctx context.Context, f *entity.Forecast) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE forecasts
		SET business_area = $2, year = $3, quarter = $4, expected_revenue = $5,
		    growth_assumption = $6, notes = NULLIF($7, ''), updated_at = $8
		WHERE id = $1`,
		f.ID, string(f.BusinessArea), f.Year, f.Quarter, f.ExpectedRevenue,
		f.GrowthAssumption, f.Notes, f.UpdatedAt,
	)
	if err != nil {
		return classify("update forecast", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
