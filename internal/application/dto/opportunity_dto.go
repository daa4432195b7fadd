package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOpportunityRequest entrada para crear una oportunidad.
// Fechas en formato YYYY-MM-DD.
type CreateOpportunityRequest struct {
	Code                string          `json:"opportunity_code" validate:"required,max=50"`
	CustomerName        string          `json:"customer_name" validate:"required,max=200"`
	DealValue           decimal.Decimal `json:"deal_value" validate:"gte=0"`
	Probability         *int            `json:"probability" validate:"omitempty,min=0,max=100"`
	Stage               string          `json:"stage" validate:"omitempty"`
	BusinessArea        string          `json:"business_area" validate:"required"`
	CountryID           *string         `json:"country_id" validate:"omitempty,uuid"`
	OwnerID             *string         `json:"owner_id" validate:"omitempty,uuid"`
	ExpectedClosureDate *string         `json:"expected_closure_date"`
	CreationDate        *string         `json:"creation_date"`
	Notes               string          `json:"notes"`
}

// UpdateOpportunityRequest parche parcial; campos nil no se modifican.
type UpdateOpportunityRequest struct {
	Code                *string          `json:"opportunity_code"`
	CustomerName        *string          `json:"customer_name"`
	DealValue           *decimal.Decimal `json:"deal_value"`
	Probability         *int             `json:"probability"`
	Stage               *string          `json:"stage"`
	BusinessArea        *string          `json:"business_area"`
	CountryID           *string          `json:"country_id"`
	OwnerID             *string          `json:"owner_id"`
	ExpectedClosureDate *string          `json:"expected_closure_date"`
	Notes               *string          `json:"notes"`
}

// CountryRefDTO país embebido en la respuesta (JOIN countries).
type CountryRefDTO struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// OpportunityResponse salida de una oportunidad.
type OpportunityResponse struct {
	ID                  string          `json:"id"`
	Code                string          `json:"opportunity_code"`
	CustomerName        string          `json:"customer_name"`
	DealValue           decimal.Decimal `json:"deal_value"`
	WeightedValue       decimal.Decimal `json:"weighted_value"`
	Probability         int             `json:"probability"`
	Stage               string          `json:"stage"`
	BusinessArea        string          `json:"business_area"`
	CountryID           *string         `json:"country_id"`
	Country             *CountryRefDTO  `json:"country,omitempty"`
	OwnerID             *string         `json:"owner_id"`
	OwnerName           string          `json:"owner_name,omitempty"`
	ExpectedClosureDate *string         `json:"expected_closure_date"`
	CreationDate        *string         `json:"creation_date"`
	Notes               string          `json:"notes,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// OpportunityListResponse listado (orden: más recientes primero).
type OpportunityListResponse struct {
	Items []OpportunityResponse `json:"items"`
	Total int                   `json:"total"`
}

// StageChangeResponse entrada del historial de etapas.
type StageChangeResponse struct {
	ID        string    `json:"id"`
	FromStage string    `json:"from_stage"`
	ToStage   string    `json:"to_stage"`
	ChangedBy *string   `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
}

// CountryResponse país activo del catálogo.
type CountryResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Code   string `json:"code"`
	Region string `json:"region,omitempty"`
}
