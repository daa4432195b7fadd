package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuarterRowDTO fila del grid trimestral: valor ponderado por área de negocio.
type QuarterRowDTO struct {
	Period  string                     `json:"period"` // ej: "Q1 2026"
	Year    int                        `json:"year"`
	Quarter int                        `json:"quarter"`
	ByArea  map[string]decimal.Decimal `json:"by_area"`
	Total   decimal.Decimal            `json:"total"`
}

// ForecastSummaryDTO respuesta de GET /api/forecast (año seleccionado y el siguiente).
type ForecastSummaryDTO struct {
	Year          int             `json:"year"`
	Quarters      []QuarterRowDTO `json:"quarters"`
	BusinessAreas []NamedValueDTO `json:"business_areas"` // ordenadas desc
	ByCountry     []NamedValueDTO `json:"by_country"`     // top 10, excluye Lost
	TotalForecast decimal.Decimal `json:"total_forecast"`
	YearOneTotal  decimal.Decimal `json:"year_one_total"`
	YearTwoTotal  decimal.Decimal `json:"year_two_total"`
	YoYGrowth     decimal.Decimal `json:"yoy_growth"` // % ; 0 si año uno = 0

	// Proyecciones cargadas manualmente (tabla forecasts) para la misma ventana.
	Planned      []ForecastResponse `json:"planned"`
	PlannedTotal decimal.Decimal    `json:"planned_total"`
}

// CreateForecastRequest entrada para registrar una proyección.
type CreateForecastRequest struct {
	CountryID        string           `json:"country_id" validate:"required,uuid"`
	BusinessArea     string           `json:"business_area" validate:"required"`
	Year             int              `json:"year" validate:"required"`
	Quarter          *int             `json:"quarter" validate:"omitempty,min=1,max=4"`
	ExpectedRevenue  decimal.Decimal  `json:"expected_revenue"`
	GrowthAssumption *decimal.Decimal `json:"growth_assumption"`
	Notes            string           `json:"notes"`
}

// UpdateForecastRequest parche parcial.
type UpdateForecastRequest struct {
	BusinessArea     *string          `json:"business_area"`
	Year             *int             `json:"year"`
	Quarter          *int             `json:"quarter"`
	ExpectedRevenue  *decimal.Decimal `json:"expected_revenue"`
	GrowthAssumption *decimal.Decimal `json:"growth_assumption"`
	Notes            *string          `json:"notes"`
}

// ForecastResponse salida de una proyección.
type ForecastResponse struct {
	ID               string          `json:"id"`
	CountryID        string          `json:"country_id"`
	Country          *CountryRefDTO  `json:"country,omitempty"`
	BusinessArea     string          `json:"business_area"`
	Year             int             `json:"year"`
	Quarter          *int            `json:"quarter"`
	ExpectedRevenue  decimal.Decimal `json:"expected_revenue"`
	GrowthAssumption decimal.Decimal `json:"growth_assumption"`
	Notes            string          `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
