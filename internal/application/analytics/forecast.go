package analytics

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
	"github.com/jhoicas/crm-pipeline-api/internal/application/usecase"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
)

const forecastTopCountries = 10

// BuildForecast grid trimestral ponderado para year y year+1. Solo cuentan las
// oportunidades no perdidas con fecha de cierre esperada; el desglose por país
// incluye también las que no tienen fecha.
func BuildForecast(year int, opps []*entity.Opportunity, planned []*entity.Forecast) dto.ForecastSummaryDTO {
	areas := entity.BusinessAreas()

	type cell struct {
		year, quarter int
		area          entity.BusinessArea
	}
	grid := make(map[cell]decimal.Decimal)
	byCountry := newAccumulator()

	for _, o := range opps {
		if o.Stage == entity.StageLost {
			continue
		}
		w := o.WeightedValue()
		byCountry.add(countryName(o.CountryName), w)
		if o.ExpectedClosureDate == nil || !o.BusinessArea.IsValid() {
			continue
		}
		d := *o.ExpectedClosureDate
		k := cell{year: d.Year(), quarter: (int(d.Month())-1)/3 + 1, area: o.BusinessArea}
		grid[k] = grid[k].Add(w)
	}

	out := dto.ForecastSummaryDTO{
		Year:          year,
		Quarters:      make([]dto.QuarterRowDTO, 0, 8),
		TotalForecast: decimal.Zero,
		YearOneTotal:  decimal.Zero,
		YearTwoTotal:  decimal.Zero,
		PlannedTotal:  decimal.Zero,
		Planned:       make([]dto.ForecastResponse, 0, len(planned)),
	}
	areaTotals := make(map[entity.BusinessArea]decimal.Decimal, len(areas))
	for _, y := range []int{year, year + 1} {
		for q := 1; q <= 4; q++ {
			row := dto.QuarterRowDTO{
				Period:  fmt.Sprintf("Q%d %d", q, y),
				Year:    y,
				Quarter: q,
				ByArea:  make(map[string]decimal.Decimal, len(areas)),
				Total:   decimal.Zero,
			}
			for _, a := range areas {
				v := grid[cell{year: y, quarter: q, area: a}]
				row.ByArea[string(a)] = v
				row.Total = row.Total.Add(v)
				areaTotals[a] = areaTotals[a].Add(v)
			}
			out.Quarters = append(out.Quarters, row)
			out.TotalForecast = out.TotalForecast.Add(row.Total)
			if y == year {
				out.YearOneTotal = out.YearOneTotal.Add(row.Total)
			} else {
				out.YearTwoTotal = out.YearTwoTotal.Add(row.Total)
			}
		}
	}

	out.BusinessAreas = make([]dto.NamedValueDTO, 0, len(areas))
	for _, a := range areas {
		out.BusinessAreas = append(out.BusinessAreas, dto.NamedValueDTO{Name: string(a), Value: areaTotals[a]})
	}
	sort.SliceStable(out.BusinessAreas, func(i, j int) bool {
		return out.BusinessAreas[i].Value.GreaterThan(out.BusinessAreas[j].Value)
	})

	out.ByCountry = byCountry.top(forecastTopCountries)
	if out.YearOneTotal.IsPositive() {
		out.YoYGrowth = percent(out.YearTwoTotal.Sub(out.YearOneTotal), out.YearOneTotal)
	} else {
		out.YoYGrowth = decimal.Zero
	}

	for _, f := range planned {
		out.Planned = append(out.Planned, usecase.ToForecastResponse(f))
		out.PlannedTotal = out.PlannedTotal.Add(f.ExpectedRevenue)
	}
	return out
}
