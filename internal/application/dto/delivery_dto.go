package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliverySummaryDTO totales del mes seleccionado.
type DeliverySummaryDTO struct {
	PlannedSites    int             `json:"planned_sites"`
	ActualSites     int             `json:"actual_sites"`
	PlannedTeams    int             `json:"planned_teams"`
	ActualTeams     int             `json:"actual_teams"`
	PlannedRevenue  decimal.Decimal `json:"planned_revenue"`
	ActualRevenue   decimal.Decimal `json:"actual_revenue"`
	ForecastRevenue decimal.Decimal `json:"forecast_revenue"`
	SiteVariance    decimal.Decimal `json:"site_variance"`    // (actual - planned) / planned * 100
	RevenueVariance decimal.Decimal `json:"revenue_variance"` // idem sobre ingresos
	RevenuePerTeam  decimal.Decimal `json:"revenue_per_team"` // actual_revenue / actual_teams
}

// TrendPointDTO planificado vs real de un mes.
type TrendPointDTO struct {
	Period  string          `json:"period"` // ej: "Mar 26"
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Planned decimal.Decimal `json:"planned"`
	Actual  decimal.Decimal `json:"actual"`
}

// TeamProductivityDTO ingreso por equipo (real y proyectado) por país.
type TeamProductivityDTO struct {
	Country  string          `json:"country"`
	Current  decimal.Decimal `json:"current"`
	Forecast decimal.Decimal `json:"forecast"`
}

// CapacityRiskDTO punto del diagrama de riesgo de capacidad.
type CapacityRiskDTO struct {
	Country     string          `json:"country"`
	Utilization decimal.Decimal `json:"utilization"` // actual_teams / planned_teams * 100
	Variance    decimal.Decimal `json:"variance"`    // variación % de ingresos
	Health      string          `json:"health"`
}

// HealthCountsDTO conteo por semáforo.
type HealthCountsDTO struct {
	Green int `json:"Green"`
	Amber int `json:"Amber"`
	Red   int `json:"Red"`
}

// DeliveryRowDTO fila de la tabla de entrega con su variación.
type DeliveryRowDTO struct {
	ProjectDeliveryResponse
	Variance decimal.Decimal `json:"variance"`
}

// DeliveryReportDTO respuesta de GET /api/delivery.
type DeliveryReportDTO struct {
	Month            int                   `json:"month"`
	Year             int                   `json:"year"`
	Summary          *DeliverySummaryDTO   `json:"summary"` // nil si no hay datos del mes
	Trend            []TrendPointDTO       `json:"trend"`   // últimos 6 meses
	TeamProductivity []TeamProductivityDTO `json:"team_productivity"`
	CapacityRisk     []CapacityRiskDTO     `json:"capacity_risk"`
	HealthCounts     HealthCountsDTO       `json:"health_counts"`
	Rows             []DeliveryRowDTO      `json:"rows"`
}

// CreateDeliveryRequest entrada para registrar el seguimiento mensual de un país.
type CreateDeliveryRequest struct {
	CountryID           string          `json:"country_id" validate:"required,uuid"`
	Year                int             `json:"year" validate:"required"`
	Month               int             `json:"month" validate:"required,min=1,max=12"`
	PlannedSites        int             `json:"planned_sites"`
	ActualSites         int             `json:"actual_sites"`
	ForecastSites       int             `json:"forecast_sites"`
	PlannedTeams        int             `json:"planned_teams"`
	ActualTeams         int             `json:"actual_teams"`
	ForecastTeams       int             `json:"forecast_teams"`
	PlannedRevenue      decimal.Decimal `json:"planned_revenue"`
	ActualRevenue       decimal.Decimal `json:"actual_revenue"`
	ForecastRevenue     decimal.Decimal `json:"forecast_revenue"`
	HealthStatus        *string         `json:"health_status"`
	PlanningAssumptions string          `json:"planning_assumptions"`
	Notes               string          `json:"notes"`
}

// UpdateDeliveryRequest parche parcial.
type UpdateDeliveryRequest struct {
	PlannedSites        *int             `json:"planned_sites"`
	ActualSites         *int             `json:"actual_sites"`
	ForecastSites       *int             `json:"forecast_sites"`
	PlannedTeams        *int             `json:"planned_teams"`
	ActualTeams         *int             `json:"actual_teams"`
	ForecastTeams       *int             `json:"forecast_teams"`
	PlannedRevenue      *decimal.Decimal `json:"planned_revenue"`
	ActualRevenue       *decimal.Decimal `json:"actual_revenue"`
	ForecastRevenue     *decimal.Decimal `json:"forecast_revenue"`
	HealthStatus        *string          `json:"health_status"`
	PlanningAssumptions *string          `json:"planning_assumptions"`
	Notes               *string          `json:"notes"`
}

// ProjectDeliveryResponse salida de una fila de entrega.
type ProjectDeliveryResponse struct {
	ID                  string          `json:"id"`
	CountryID           string          `json:"country_id"`
	Country             *CountryRefDTO  `json:"country,omitempty"`
	Year                int             `json:"year"`
	Month               int             `json:"month"`
	PlannedSites        int             `json:"planned_sites"`
	ActualSites         int             `json:"actual_sites"`
	ForecastSites       int             `json:"forecast_sites"`
	PlannedTeams        int             `json:"planned_teams"`
	ActualTeams         int             `json:"actual_teams"`
	ForecastTeams       int             `json:"forecast_teams"`
	PlannedRevenue      decimal.Decimal `json:"planned_revenue"`
	ActualRevenue       decimal.Decimal `json:"actual_revenue"`
	ForecastRevenue     decimal.Decimal `json:"forecast_revenue"`
	HealthStatus        string          `json:"health_status"`
	PlanningAssumptions string          `json:"planning_assumptions,omitempty"`
	Notes               string          `json:"notes,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}
