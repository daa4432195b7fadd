package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
	"github.com/jhoicas/crm-pipeline-api/internal/application/usecase"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
)

const (
	dashboardTopCountries     = 8
	dashboardTopOpportunities = 5
)

// BuildDashboard KPIs y gráficos del dashboard sobre las oportunidades del filtro.
func BuildDashboard(opps []*entity.Opportunity) dto.DashboardSummaryDTO {
	out := dto.DashboardSummaryDTO{
		TotalPipeline:     decimal.Zero,
		WeightedPipeline:  decimal.Zero,
		WonRevenue:        decimal.Zero,
		WinRate:           decimal.Zero,
		PipelineByCountry: []dto.NamedValueDTO{},
		StageDistribution: []dto.NamedCountDTO{},
		TopOpportunities:  []dto.OpportunityResponse{},
	}
	byCountry := newAccumulator()
	stageCounts := make(map[entity.Stage]int)
	var extraStages []entity.Stage
	open := make([]*entity.Opportunity, 0, len(opps))

	for _, o := range opps {
		out.TotalOpportunities++
		out.TotalPipeline = out.TotalPipeline.Add(o.DealValue)
		out.WeightedPipeline = out.WeightedPipeline.Add(o.WeightedValue())
		switch o.Stage {
		case entity.StageWon:
			out.WonDeals++
			out.WonRevenue = out.WonRevenue.Add(o.DealValue)
		case entity.StageLost:
			out.LostDeals++
		}
		byCountry.add(countryName(o.CountryName), o.DealValue)
		if _, seen := stageCounts[o.Stage]; !seen && !o.Stage.IsValid() {
			extraStages = append(extraStages, o.Stage)
		}
		stageCounts[o.Stage]++
		if !o.Stage.IsClosed() {
			open = append(open, o)
		}
	}

	out.WinRate = percent(decimal.NewFromInt(int64(out.WonDeals)), decimal.NewFromInt(int64(out.WonDeals+out.LostDeals)))
	out.PipelineByCountry = byCountry.top(dashboardTopCountries)

	for _, s := range append(entity.Stages(), extraStages...) {
		if n := stageCounts[s]; n > 0 {
			out.StageDistribution = append(out.StageDistribution, dto.NamedCountDTO{Name: string(s), Count: n})
		}
	}

	sort.SliceStable(open, func(i, j int) bool { return open[i].DealValue.GreaterThan(open[j].DealValue) })
	if len(open) > dashboardTopOpportunities {
		open = open[:dashboardTopOpportunities]
	}
	for _, o := range open {
		out.TopOpportunities = append(out.TopOpportunities, usecase.ToOpportunityResponse(o))
	}
	return out
}
