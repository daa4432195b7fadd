package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
	"github.com/jhoicas/crm-pipeline-api/internal/application/usecase"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
)

const deliveryTrendMonths = 6

// BuildDelivery reporte de entrega del mes seleccionado. rows puede contener
// cualquier período; la tendencia usa los 6 meses que terminan en month/year.
func BuildDelivery(month, year int, rows []*entity.ProjectDelivery) dto.DeliveryReportDTO {
	out := dto.DeliveryReportDTO{
		Month:            month,
		Year:             year,
		Trend:            make([]dto.TrendPointDTO, 0, deliveryTrendMonths),
		TeamProductivity: []dto.TeamProductivityDTO{},
		CapacityRisk:     []dto.CapacityRiskDTO{},
		Rows:             []dto.DeliveryRowDTO{},
	}

	current := make([]*entity.ProjectDelivery, 0)
	for _, d := range rows {
		if d.Month == month && d.Year == year {
			current = append(current, d)
		}
	}

	if len(current) > 0 {
		out.Summary = summarize(current)
	}

	for i := deliveryTrendMonths - 1; i >= 0; i-- {
		t := time.Date(year, time.Month(month-i), 1, 0, 0, 0, 0, time.UTC)
		p := dto.TrendPointDTO{
			Period:  t.Format("Jan 06"),
			Year:    t.Year(),
			Month:   int(t.Month()),
			Planned: decimal.Zero,
			Actual:  decimal.Zero,
		}
		for _, d := range rows {
			if d.Year == p.Year && d.Month == p.Month {
				p.Planned = p.Planned.Add(d.PlannedRevenue)
				p.Actual = p.Actual.Add(d.ActualRevenue)
			}
		}
		out.Trend = append(out.Trend, p)
	}

	for _, d := range current {
		if d.ActualTeams > 0 {
			code := d.CountryCode
			if code == "" {
				code = unknownCountry
			}
			out.TeamProductivity = append(out.TeamProductivity, dto.TeamProductivityDTO{
				Country:  code,
				Current:  ratio(d.ActualRevenue, d.ActualTeams),
				Forecast: ratio(d.ForecastRevenue, d.ForecastTeams),
			})
		}

		variance := percent(d.ActualRevenue.Sub(d.PlannedRevenue), d.PlannedRevenue)
		out.CapacityRisk = append(out.CapacityRisk, dto.CapacityRiskDTO{
			Country:     countryName(d.CountryName),
			Utilization: percent(decimal.NewFromInt(int64(d.ActualTeams)), decimal.NewFromInt(int64(d.PlannedTeams))),
			Variance:    variance,
			Health:      string(d.Health()),
		})

		switch d.Health() {
		case entity.HealthAmber:
			out.HealthCounts.Amber++
		case entity.HealthRed:
			out.HealthCounts.Red++
		default:
			out.HealthCounts.Green++
		}

		out.Rows = append(out.Rows, dto.DeliveryRowDTO{
			ProjectDeliveryResponse: usecase.ToDeliveryResponse(d),
			Variance:                variance,
		})
	}
	sort.SliceStable(out.TeamProductivity, func(i, j int) bool {
		return out.TeamProductivity[i].Current.GreaterThan(out.TeamProductivity[j].Current)
	})
	return out
}

func summarize(rows []*entity.ProjectDelivery) *dto.DeliverySummaryDTO {
	s := &dto.DeliverySummaryDTO{
		PlannedRevenue:  decimal.Zero,
		ActualRevenue:   decimal.Zero,
		ForecastRevenue: decimal.Zero,
	}
	for _, d := range rows {
		s.PlannedSites += d.PlannedSites
		s.ActualSites += d.ActualSites
		s.PlannedTeams += d.PlannedTeams
		s.ActualTeams += d.ActualTeams
		s.PlannedRevenue = s.PlannedRevenue.Add(d.PlannedRevenue)
		s.ActualRevenue = s.ActualRevenue.Add(d.ActualRevenue)
		s.ForecastRevenue = s.ForecastRevenue.Add(d.ForecastRevenue)
	}
	s.SiteVariance = percent(decimal.NewFromInt(int64(s.ActualSites-s.PlannedSites)), decimal.NewFromInt(int64(s.PlannedSites)))
	s.RevenueVariance = percent(s.ActualRevenue.Sub(s.PlannedRevenue), s.PlannedRevenue)
	s.RevenuePerTeam = ratio(s.ActualRevenue, s.ActualTeams)
	return s
}
