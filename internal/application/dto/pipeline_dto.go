package dto

import "github.com/shopspring/decimal"

// Estados del resultado de un drop (feedback tipo toast).
const (
	DragStatusNoop    = "noop"
	DragStatusSuccess = "success"
	DragStatusFailure = "failure"
)

// BoardCardDTO tarjeta del tablero.
type BoardCardDTO struct {
	ID                  string          `json:"id"`
	CustomerName        string          `json:"customer_name"`
	DealValue           decimal.Decimal `json:"deal_value"`
	DealValueLabel      string          `json:"deal_value_label"` // ej: "$1.2M"
	Probability         int             `json:"probability"`
	Stage               string          `json:"stage"`
	CountryCode         string          `json:"country_code,omitempty"`
	ExpectedClosureDate *string         `json:"expected_closure_date"`
}

// BoardColumnDTO columna del tablero con su total.
type BoardColumnDTO struct {
	Stage      string          `json:"stage"`
	Count      int             `json:"count"`
	Total      decimal.Decimal `json:"total"`
	TotalLabel string          `json:"total_label"`
	Items      []BoardCardDTO  `json:"items"`
}

// BoardAnomalyDTO fila excluida por etapa no canónica (integridad de datos).
type BoardAnomalyDTO struct {
	OpportunityID string `json:"opportunity_id"`
	Stage         string `json:"stage"`
}

// BoardResponse respuesta de GET /api/pipeline/board.
type BoardResponse struct {
	Columns    []BoardColumnDTO  `json:"columns"`
	GrandTotal decimal.Decimal   `json:"grand_total"`
	Anomalies  []BoardAnomalyDTO `json:"anomalies"`
}

// DragStartRequest cuerpo de POST /api/pipeline/drag/start.
type DragStartRequest struct {
	OpportunityID string `json:"opportunity_id" validate:"required"`
}

// DragStartResponse tarjeta activa para la vista previa.
type DragStartResponse struct {
	State  string        `json:"state"`
	Active *BoardCardDTO `json:"active"`
}

// DragEndRequest cuerpo de POST /api/pipeline/drag/end.
// TargetID es el ID de otra tarjeta o la etiqueta de una columna.
type DragEndRequest struct {
	OpportunityID string `json:"opportunity_id" validate:"required"`
	TargetID      string `json:"target_id"`
}

// DragResultResponse resultado del drop.
type DragResultResponse struct {
	Status        string         `json:"status"` // noop | success | failure
	Code          string         `json:"code,omitempty"`
	Message       string         `json:"message"`
	OpportunityID string         `json:"opportunity_id"`
	From          string         `json:"from,omitempty"`
	To            string         `json:"to,omitempty"`
	Board         *BoardResponse `json:"board,omitempty"`
}
