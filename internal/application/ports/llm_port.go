package ports

import (
	"context"

	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
)

// PipelineSnapshot resumen numérico del pipeline que se envía al modelo.
// Solo agregados: nunca se envían notas ni datos de contacto.
type PipelineSnapshot struct {
	CountryLabel     string              `json:"country"`
	TotalPipeline    string              `json:"total_pipeline"`
	WeightedPipeline string              `json:"weighted_pipeline"`
	WinRate          string              `json:"win_rate"`
	Opportunities    int                 `json:"opportunities"`
	Stages           []dto.NamedCountDTO `json:"stages"`
	TopCountries     []string            `json:"top_countries"`
	TopOpen          []string            `json:"top_open"` // "cliente, etapa, valor"
	Question         string              `json:"question,omitempty"`
}

// LLMService define el puerto de salida para los servicios de inteligencia artificial.
// Cualquier adaptador (Anthropic, Gemini, mock) debe implementar esta interfaz.
type LLMService interface {
	// AnalyzePipeline devuelve un resumen narrativo, riesgos y recomendaciones.
	// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
	AnalyzePipeline(ctx context.Context, snapshot PipelineSnapshot) (*dto.PipelineInsightsDTO, error)
}
