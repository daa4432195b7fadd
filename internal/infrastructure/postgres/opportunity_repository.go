package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/crm-pipeline-api/internal/domain"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/repository"
)

var _ repository.OpportunityRepository = (*OpportunityRepo)(nil)

// OpportunityRepo implementación del puerto OpportunityRepository (usable con pool o tx).
type OpportunityRepo struct {
	q Querier
}

// NewOpportunityRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOpportunityRepository(q Querier) *OpportunityRepo {
	return &OpportunityRepo{q: q}
}

const opportunitySelect = `
	SELECT o.id::text, o.opportunity_code, o.customer_name, o.deal_value, o.probability,
	       o.status::text, o.business_area::text, o.country_id::text, o.owner_id::text,
	       o.expected_closure_date, o.creation_date, COALESCE(o.notes, ''), o.created_by::text,
	       o.created_at, o.updated_at,
	       COALESCE(c.name, ''), COALESCE(c.code, ''), COALESCE(u.full_name, '')
	FROM opportunities o
	LEFT JOIN countries c ON c.id = o.country_id
	LEFT JOIN users u ON u.id = o.owner_id`

func scanOpportunity(row pgx.Row) (*entity.Opportunity, error) {
	var (
		o           entity.Opportunity
		stage, area string
	)
	err := row.Scan(
		&o.ID, &o.Code, &o.CustomerName, &o.DealValue, &o.Probability,
		&stage, &area, &o.CountryID, &o.OwnerID,
		&o.ExpectedClosureDate, &o.CreationDate, &o.Notes, &o.CreatedBy,
		&o.CreatedAt, &o.UpdatedAt,
		&o.CountryName, &o.CountryCode, &o.OwnerName,
	)
	if err != nil {
		return nil, err
	}
	o.Stage = entity.Stage(stage)
	o.BusinessArea = entity.BusinessArea(area)
	return &o, nil
}

// List devuelve las oportunidades (más recientes primero), opcionalmente por país.
func (r *OpportunityRepo) List(ctx context.Context, q repository.OpportunityQuery) ([]*entity.Opportunity, error) {
	country, ok := countryFilter(q.CountryID)
	if !ok {
		return []*entity.Opportunity{}, nil
	}
	query := opportunitySelect + `
	WHERE ($1::uuid IS NULL OR o.country_id = $1::uuid)
	ORDER BY o.created_at DESC, o.id`
	rows, err := r.q.Query(ctx, query, country)
	if err != nil {
		return nil, classify("list opportunities", err)
	}
	defer rows.Close()

	var out []*entity.Opportunity
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, classify("scan opportunity", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list opportunities", err)
	}
	return out, nil
}

// GetByID obtiene una oportunidad con país y responsable.
func (r *OpportunityRepo) GetByID(ctx context.Context, id string) (*entity.Opportunity, error) {
	o, err := scanOpportunity(r.q.QueryRow(ctx, opportunitySelect+` WHERE o.id = $1`, id))
	if err != nil {
		return nil, classify("get opportunity", err)
	}
	return o, nil
}

// Create persiste una nueva oportunidad. Código duplicado → ErrDuplicate.
func (r *OpportunityRepo) Create(ctx context.Context, o *entity.Opportunity) error {
	query := `
		INSERT INTO opportunities (id, opportunity_code, customer_name, deal_value, probability, status,
			business_area, country_id, owner_id, expected_closure_date, creation_date, notes, created_by,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, COALESCE($11, CURRENT_DATE), NULLIF($12, ''), $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.Code, o.CustomerName, o.DealValue, o.Probability, string(o.Stage),
		string(o.BusinessArea), o.CountryID, o.OwnerID, o.ExpectedClosureDate, o.CreationDate, o.Notes, o.CreatedBy,
		o.CreatedAt, o.UpdatedAt,
	)
	return classify("insert opportunity", err)
}

// Update reescribe los campos editables. No cambia created_by ni created_at.
func (r *OpportunityRepo) Update(ctx context.Context, o *entity.Opportunity) error {
	query := `
		UPDATE opportunities
		SET opportunity_code = $2, customer_name = $3, deal_value = $4, probability = $5, status = $6,
		    business_area = $7, country_id = $8, owner_id = $9, expected_closure_date = $10,
		    notes = NULLIF($11, ''), updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		o.ID, o.Code, o.CustomerName, o.DealValue, o.Probability, string(o.Stage),
		string(o.BusinessArea), o.CountryID, o.OwnerID, o.ExpectedClosureDate,
		o.Notes, o.UpdatedAt,
	)
	if err != nil {
		return classify("update opportunity", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStage cambia solo la etapa y devuelve la fila actualizada.
func (r *OpportunityRepo) UpdateStage(ctx context.Context, id string, stage entity.Stage) (*entity.Opportunity, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE opportunities SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, string(stage),
	)
	if err != nil {
		return nil, classify("update opportunity stage", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete elimina la oportunidad (el historial se borra en cascada).
func (r *OpportunityRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM opportunities WHERE id = $1`, id)
	if err != nil {
		return classify("delete opportunity", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
