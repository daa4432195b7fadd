package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
	"github.com/jhoicas/crm-pipeline-api/internal/application/reports"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
)

func TestRenderPipeline(t *testing.T) {
	r := reports.PipelineReport{
		CountryLabel: "Colombia",
		Month:        3,
		Year:         2026,
		GeneratedAt:  time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		Summary:      dto.DashboardSummaryDTO{TotalOpportunities: 1, TotalPipeline: decimal.NewFromInt(1200000)},
		Stages:       []reports.StageSummary{{Stage: "Prospect", Count: 1, Total: decimal.NewFromInt(1200000)}},
		GrandTotal:   decimal.NewFromInt(1200000),
		Open: []*entity.Opportunity{{
			Code: "OPP-1", CustomerName: "Acme", Stage: entity.StageProspect,
			Probability: 20, DealValue: decimal.NewFromInt(1200000),
		}},
	}
	out, err := NewMarotoPDFGenerator("crm").RenderPipeline(context.Background(), r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "March 2026", periodLabel(3, 2026))
	assert.Equal(t, "13/2026", periodLabel(13, 2026))
}
