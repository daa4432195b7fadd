// Package reports genera las exportaciones descargables: PDF del pipeline,
// XML de la proyección y CSV de oportunidades.
package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
)

// StageSummary fila de la tabla de etapas del reporte.
type StageSummary struct {
	Stage string
	Count int
	Total decimal.Decimal
}

// PipelineReport datos ya calculados que el renderer dibuja.
type PipelineReport struct {
	CountryLabel string
	Month        int
	Year         int
	GeneratedAt  time.Time
	Summary      dto.DashboardSummaryDTO
	Stages       []StageSummary
	GrandTotal   decimal.Decimal
	Open         []*entity.Opportunity // abiertas, mayor valor primero
}

// PDFRenderer dibuja el reporte del pipeline (implementado con maroto).
type PDFRenderer interface {
	RenderPipeline(ctx context.Context, r PipelineReport) ([]byte, error)
}
