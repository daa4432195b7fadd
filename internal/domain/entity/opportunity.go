package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stage etapa del pipeline comercial (enum opportunity_status en la DB).
type Stage string

// Etapas válidas. El orden de declaración es el orden de columnas del tablero;
// no restringe transiciones: cualquier etapa puede moverse a cualquier otra.
const (
	StageProspect    Stage = "Prospect"
	StageQualified   Stage = "Qualified"
	StageRFP         Stage = "RFP"
	StageProposal    Stage = "Proposal"
	StageNegotiation Stage = "Negotiation"
	StageWon         Stage = "Won"
	StageLost        Stage = "Lost"
)

var stages = [...]Stage{
	StageProspect, StageQualified, StageRFP, StageProposal,
	StageNegotiation, StageWon, StageLost,
}

// Stages devuelve las siete etapas en orden de columna.
func Stages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages[:])
	return out
}

// IsValid indica si s es una de las etapas canónicas.
func (s Stage) IsValid() bool {
	for _, st := range stages {
		if st == s {
			return true
		}
	}
	return false
}

// IsClosed true para Won y Lost. Es solo semántica de negocio, no bloquea movimientos.
func (s Stage) IsClosed() bool {
	return s == StageWon || s == StageLost
}

// ParseStage convierte una etiqueta en Stage; ok=false si no es canónica.
func ParseStage(v string) (Stage, bool) {
	s := Stage(v)
	return s, s.IsValid()
}

// BusinessArea línea de negocio (enum business_area).
type BusinessArea string

const (
	AreaTelecomBuild          BusinessArea = "Telecom Build"
	AreaNetworkImplementation BusinessArea = "Network Implementation"
	AreaNOC                   BusinessArea = "NOC"
	AreaFLM                   BusinessArea = "FLM"
	AreaResourceProvisioning  BusinessArea = "Resource Provisioning"
)

var businessAreas = [...]BusinessArea{
	AreaTelecomBuild, AreaNetworkImplementation, AreaNOC, AreaFLM, AreaResourceProvisioning,
}

// BusinessAreas devuelve las áreas en el orden usado por los reportes.
func BusinessAreas() []BusinessArea {
	out := make([]BusinessArea, len(businessAreas))
	copy(out, businessAreas[:])
	return out
}

// IsValid indica si el área es una de las cinco canónicas.
func (a BusinessArea) IsValid() bool {
	for _, v := range businessAreas {
		if v == a {
			return true
		}
	}
	return false
}

// Opportunity representa una oportunidad de venta.
// CountryName/CountryCode/OwnerName son datos de lectura (JOIN), no se persisten.
type Opportunity struct {
	ID                  string
	Code                string // opportunity_code, único
	CustomerName        string
	DealValue           decimal.Decimal // >= 0
	Probability         int             // 0..100
	Stage               Stage
	BusinessArea        BusinessArea
	CountryID           *string
	OwnerID             *string
	ExpectedClosureDate *time.Time
	CreationDate        *time.Time
	Notes               string
	CreatedBy           *string
	CreatedAt           time.Time
	UpdatedAt           time.Time

	CountryName string
	CountryCode string
	OwnerName   string
}

// Validate verifica las invariantes de la fila: etapa y área canónicas,
// probabilidad en [0,100] y valor no negativo.
func (o *Opportunity) Validate() bool {
	if o.CustomerName == "" || o.Code == "" {
		return false
	}
	if !o.Stage.IsValid() || !o.BusinessArea.IsValid() {
		return false
	}
	if o.Probability < 0 || o.Probability > 100 {
		return false
	}
	return !o.DealValue.IsNegative()
}

// WeightedValue valor ponderado por probabilidad: deal_value × probability / 100.
func (o *Opportunity) WeightedValue() decimal.Decimal {
	return o.DealValue.Mul(decimal.NewFromInt(int64(o.Probability))).Div(decimal.NewFromInt(100))
}
