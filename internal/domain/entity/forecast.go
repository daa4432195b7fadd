package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Forecast proyección de ingresos cargada manualmente por país, área y trimestre.
type Forecast struct {
	ID               string
	CountryID        string
	BusinessArea     BusinessArea
	Year             int
	Quarter          *int // 1..4; nil = anual
	ExpectedRevenue  decimal.Decimal
	GrowthAssumption decimal.Decimal // porcentaje
	Notes            string
	CreatedBy        *string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	CountryName string
	CountryCode string
}
