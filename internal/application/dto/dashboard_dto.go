package dto

import "github.com/shopspring/decimal"

// NamedValueDTO par nombre/valor para series de gráficos.
type NamedValueDTO struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// NamedCountDTO par nombre/conteo.
type NamedCountDTO struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	TotalPipeline      decimal.Decimal `json:"total_pipeline"`
	WeightedPipeline   decimal.Decimal `json:"weighted_pipeline"` // Σ valor × probabilidad / 100
	TotalOpportunities int             `json:"total_opportunities"`
	WonRevenue         decimal.Decimal `json:"won_revenue"`
	WonDeals           int             `json:"won_deals"`
	LostDeals          int             `json:"lost_deals"`
	WinRate            decimal.Decimal `json:"win_rate"` // won / (won + lost) * 100

	// Top 8 países por valor de pipeline (sin país = "Unknown")
	PipelineByCountry []NamedValueDTO `json:"pipeline_by_country"`
	// Conteo por etapa (solo etapas con filas)
	StageDistribution []NamedCountDTO `json:"stage_distribution"`
	// Top 5 oportunidades abiertas por valor
	TopOpportunities []OpportunityResponse `json:"top_opportunities"`
}
