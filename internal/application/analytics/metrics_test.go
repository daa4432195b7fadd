package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s got %s %v", want, got, msgAndArgs)
}

func TestBuildDashboard(t *testing.T) {
	opps := []*entity.Opportunity{
		{ID: "1", Stage: entity.StageProspect, DealValue: dec("1000"), Probability: 50, CountryName: "Colombia"},
		{ID: "2", Stage: entity.StageWon, DealValue: dec("3000"), Probability: 100, CountryName: "Perú"},
		{ID: "3", Stage: entity.StageLost, DealValue: dec("500"), Probability: 0, CountryName: "Colombia"},
		{ID: "4", Stage: entity.StageNegotiation, DealValue: dec("2000"), Probability: 80},
		{ID: "5", Stage: entity.StageWon, DealValue: dec("100"), Probability: 100, CountryName: "Perú"},
	}

	got := BuildDashboard(opps)

	assertDec(t, "6600", got.TotalPipeline)
	assertDec(t, "5200", got.WeightedPipeline) // 500 + 3000 + 0 + 1600 + 100
	assert.Equal(t, 5, got.TotalOpportunities)
	assertDec(t, "3100", got.WonRevenue)
	assert.Equal(t, 2, got.WonDeals)
	assert.Equal(t, 1, got.LostDeals)
	assertDec(t, "66.67", got.WinRate)

	require.Len(t, got.PipelineByCountry, 3)
	assert.Equal(t, "Perú", got.PipelineByCountry[0].Name)
	assertDec(t, "3100", got.PipelineByCountry[0].Value)
	assert.Equal(t, "Unknown", got.PipelineByCountry[1].Name)
	assert.Equal(t, "Colombia", got.PipelineByCountry[2].Name)

	names := make([]string, 0)
	for _, s := range got.StageDistribution {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Prospect", "Negotiation", "Won", "Lost"}, names)

	require.Len(t, got.TopOpportunities, 2)
	assert.Equal(t, "4", got.TopOpportunities[0].ID)
	assert.Equal(t, "1", got.TopOpportunities[1].ID)
}

func TestBuildDashboard_SinCerradasWinRateCero(t *testing.T) {
	got := BuildDashboard([]*entity.Opportunity{{ID: "1", Stage: entity.StageProspect, DealValue: dec("10")}})
	assert.True(t, got.WinRate.IsZero())

	empty := BuildDashboard(nil)
	assert.True(t, empty.WinRate.IsZero())
	assert.Empty(t, empty.TopOpportunities)
	assert.NotNil(t, empty.PipelineByCountry)
}

func TestBuildDashboard_TopCountriesLimitado(t *testing.T) {
	var opps []*entity.Opportunity
	for i := 0; i < 12; i++ {
		opps = append(opps, &entity.Opportunity{
			ID: string(rune('a' + i)), Stage: entity.StageProspect,
			DealValue: decimal.NewFromInt(int64(100 + i)), CountryName: string(rune('A' + i)),
		})
	}
	got := BuildDashboard(opps)
	require.Len(t, got.PipelineByCountry, 8)
	assert.Equal(t, "L", got.PipelineByCountry[0].Name)
	require.Len(t, got.TopOpportunities, 5)
}

func TestBuildForecast(t *testing.T) {
	opps := []*entity.Opportunity{
		{ID: "1", Stage: entity.StageProposal, DealValue: dec("1000"), Probability: 50, BusinessArea: entity.AreaNOC,
			ExpectedClosureDate: date(2026, time.February, 10), CountryName: "Colombia"},
		{ID: "2", Stage: entity.StageLost, DealValue: dec("9000"), Probability: 90, BusinessArea: entity.AreaNOC,
			ExpectedClosureDate: date(2026, time.February, 10), CountryName: "Colombia"},
		{ID: "3", Stage: entity.StageWon, DealValue: dec("2000"), Probability: 100, BusinessArea: entity.AreaFLM,
			ExpectedClosureDate: date(2027, time.November, 1), CountryName: "Perú"},
		{ID: "4", Stage: entity.StageProspect, DealValue: dec("400"), Probability: 25, BusinessArea: entity.AreaFLM},
		{ID: "5", Stage: entity.StageProspect, DealValue: dec("700"), Probability: 100, BusinessArea: entity.AreaNOC,
			ExpectedClosureDate: date(2028, time.January, 1)},
	}
	q := 2
	planned := []*entity.Forecast{
		{ID: "f1", Year: 2026, Quarter: &q, BusinessArea: entity.AreaNOC, ExpectedRevenue: dec("1500")},
		{ID: "f2", Year: 2027, BusinessArea: entity.AreaFLM, ExpectedRevenue: dec("500")},
	}

	got := BuildForecast(2026, opps, planned)

	require.Len(t, got.Quarters, 8)
	assert.Equal(t, "Q1 2026", got.Quarters[0].Period)
	assert.Equal(t, "Q4 2027", got.Quarters[7].Period)
	assertDec(t, "500", got.Quarters[0].ByArea["NOC"])
	assertDec(t, "0", got.Quarters[0].ByArea["FLM"])
	assert.Len(t, got.Quarters[0].ByArea, 5)
	assertDec(t, "2000", got.Quarters[7].ByArea["FLM"])

	assertDec(t, "500", got.YearOneTotal)
	assertDec(t, "2000", got.YearTwoTotal)
	assertDec(t, "2500", got.TotalForecast)
	assertDec(t, "300", got.YoYGrowth)

	require.Len(t, got.BusinessAreas, 5)
	assert.Equal(t, "FLM", got.BusinessAreas[0].Name)
	assert.Equal(t, "NOC", got.BusinessAreas[1].Name)

	// País: excluye Lost, incluye las que no tienen fecha.
	require.Len(t, got.ByCountry, 3)
	assert.Equal(t, "Perú", got.ByCountry[0].Name)
	assert.Equal(t, "Unknown", got.ByCountry[1].Name)
	assertDec(t, "800", got.ByCountry[1].Value)
	assert.Equal(t, "Colombia", got.ByCountry[2].Name)
	assertDec(t, "500", got.ByCountry[2].Value)

	require.Len(t, got.Planned, 2)
	assertDec(t, "2000", got.PlannedTotal)
}

func TestBuildForecast_SinAnioUnoYoYCero(t *testing.T) {
	got := BuildForecast(2030, nil, nil)
	assert.True(t, got.YoYGrowth.IsZero())
	assert.True(t, got.TotalForecast.IsZero())
	assert.Len(t, got.Quarters, 8)
	assert.NotNil(t, got.Planned)
}

func TestBuildDelivery(t *testing.T) {
	amber := entity.HealthAmber
	rows := []*entity.ProjectDelivery{
		{ID: "a", Year: 2026, Month: 3, CountryName: "Colombia", CountryCode: "CO",
			PlannedSites: 10, ActualSites: 12, PlannedTeams: 4, ActualTeams: 2, ForecastTeams: 4,
			PlannedRevenue: dec("1000"), ActualRevenue: dec("800"), ForecastRevenue: dec("1200")},
		{ID: "b", Year: 2026, Month: 3, CountryName: "Perú", CountryCode: "PE", HealthStatus: &amber,
			PlannedSites: 10, ActualSites: 8, PlannedTeams: 2, ActualTeams: 2,
			PlannedRevenue: dec("1000"), ActualRevenue: dec("1200")},
		{ID: "c", Year: 2025, Month: 12, PlannedRevenue: dec("300"), ActualRevenue: dec("100")},
		{ID: "d", Year: 2025, Month: 9, PlannedRevenue: dec("999"), ActualRevenue: dec("999")},
	}

	got := BuildDelivery(3, 2026, rows)

	require.NotNil(t, got.Summary)
	assert.Equal(t, 20, got.Summary.PlannedSites)
	assert.Equal(t, 20, got.Summary.ActualSites)
	assertDec(t, "0", got.Summary.SiteVariance)
	assertDec(t, "0", got.Summary.RevenueVariance)
	assertDec(t, "500", got.Summary.RevenuePerTeam)

	require.Len(t, got.Trend, 6)
	assert.Equal(t, "Oct 25", got.Trend[0].Period)
	assert.Equal(t, "Mar 26", got.Trend[5].Period)
	assertDec(t, "300", got.Trend[2].Planned)
	assertDec(t, "2000", got.Trend[5].Actual)

	require.Len(t, got.TeamProductivity, 2)
	assert.Equal(t, "PE", got.TeamProductivity[0].Country)
	assertDec(t, "600", got.TeamProductivity[0].Current)
	assertDec(t, "0", got.TeamProductivity[0].Forecast)
	assertDec(t, "300", got.TeamProductivity[1].Forecast)

	require.Len(t, got.CapacityRisk, 2)
	assertDec(t, "50", got.CapacityRisk[0].Utilization)
	assertDec(t, "-20", got.CapacityRisk[0].Variance)
	assert.Equal(t, "Green", got.CapacityRisk[0].Health)
	assert.Equal(t, "Amber", got.CapacityRisk[1].Health)

	assert.Equal(t, 1, got.HealthCounts.Green)
	assert.Equal(t, 1, got.HealthCounts.Amber)
	assert.Equal(t, 0, got.HealthCounts.Red)

	require.Len(t, got.Rows, 2)
	assertDec(t, "20", got.Rows[1].Variance)
	assert.Equal(t, "Green", got.Rows[0].HealthStatus)
}

func TestBuildDelivery_MesSinDatos(t *testing.T) {
	got := BuildDelivery(13, 2026, []*entity.ProjectDelivery{{Year: 2026, Month: 1}})
	assert.Nil(t, got.Summary)
	assert.Empty(t, got.Rows)
	assert.Len(t, got.Trend, 6)
}
