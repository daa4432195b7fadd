package postgres

import (
	"context"

	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/repository"
)

var _ repository.CountryRepository = (*CountryRepo)(nil)

// CountryRepo catálogo de países.
type CountryRepo struct {
	q Querier
}

// NewCountryRepository construye el adaptador.
func NewCountryRepository(q Querier) *CountryRepo {
	return &CountryRepo{q: q}
}

// ListActive países activos ordenados por nombre.
func (r *CountryRepo) ListActive(ctx context.Context) ([]*entity.Country, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id::text, name, code, COALESCE(region, ''), COALESCE(is_active, TRUE), created_at
		FROM countries
		WHERE COALESCE(is_active, TRUE)
		ORDER BY name`)
	if err != nil {
		return nil, classify("list countries", err)
	}
	defer rows.Close()

	var out []*entity.Country
	for rows.Next() {
		var c entity.Country
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.Region, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, classify("scan country", err)
		}
		out = append(out, &c)
	}
	return out, classify("list countries", rows.Err())
}

// Upsert inserta o actualiza un país por código (usado por el seed).
func (r *CountryRepo) Upsert(ctx context.Context, c *entity.Country) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO countries (name, code, region, is_active)
		VALUES ($1, $2, NULLIF($3, ''), $4)
		ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, region = EXCLUDED.region, is_active = EXCLUDED.is_active
		RETURNING id::text, created_at`,
		c.Name, c.Code, c.Region, c.IsActive,
	).Scan(&c.ID, &c.CreatedAt)
	return classify("upsert country", err)
}
