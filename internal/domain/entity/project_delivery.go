package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// HealthStatus semáforo de un proyecto de entrega.
type HealthStatus string

const (
	HealthGreen HealthStatus = "Green"
	HealthAmber HealthStatus = "Amber"
	HealthRed   HealthStatus = "Red"
)

// IsValid indica si el estado es uno de los tres colores.
func (h HealthStatus) IsValid() bool {
	return h == HealthGreen || h == HealthAmber || h == HealthRed
}

// ProjectDelivery seguimiento mensual de entrega por país (sitios, equipos, ingresos).
type ProjectDelivery struct {
	ID                  string
	CountryID           string
	Year                int
	Month               int
	PlannedSites        int
	ActualSites         int
	ForecastSites       int
	PlannedTeams        int
	ActualTeams         int
	ForecastTeams       int
	PlannedRevenue      decimal.Decimal
	ActualRevenue       decimal.Decimal
	ForecastRevenue     decimal.Decimal
	HealthStatus        *HealthStatus // nil se interpreta como Green
	PlanningAssumptions string
	Notes               string
	CreatedBy           *string
	CreatedAt           time.Time
	UpdatedAt           time.Time

	CountryName string
	CountryCode string
}

// Health devuelve el estado de salud con Green por defecto.
func (d *ProjectDelivery) Health() HealthStatus {
	if d.HealthStatus == nil || !d.HealthStatus.IsValid() {
		return HealthGreen
	}
	return *d.HealthStatus
}
