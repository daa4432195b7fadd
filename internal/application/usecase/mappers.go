package usecase

import (
	"time"

	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

// parseDate acepta nil o "" como fecha vacía.
func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func countryRef(name, code string) *dto.CountryRefDTO {
	if name == "" && code == "" {
		return nil
	}
	return &dto.CountryRefDTO{Name: name, Code: code}
}

// ToOpportunityResponse mapea la entidad a su DTO de salida.
func ToOpportunityResponse(o *entity.Opportunity) dto.OpportunityResponse {
	return dto.OpportunityResponse{
		ID:                  o.ID,
		Code:                o.Code,
		CustomerName:        o.CustomerName,
		DealValue:           o.DealValue,
		WeightedValue:       o.WeightedValue(),
		Probability:         o.Probability,
		Stage:               string(o.Stage),
		BusinessArea:        string(o.BusinessArea),
		CountryID:           o.CountryID,
		Country:             countryRef(o.CountryName, o.CountryCode),
		OwnerID:             o.OwnerID,
		OwnerName:           o.OwnerName,
		ExpectedClosureDate: formatDate(o.ExpectedClosureDate),
		CreationDate:        formatDate(o.CreationDate),
		Notes:               o.Notes,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
}

// ToForecastResponse mapea una proyección.
func ToForecastResponse(f *entity.Forecast) dto.ForecastResponse {
	return dto.ForecastResponse{
		ID:               f.ID,
		CountryID:        f.CountryID,
		Country:          countryRef(f.CountryName, f.CountryCode),
		BusinessArea:     string(f.BusinessArea),
		Year:             f.Year,
		Quarter:          f.Quarter,
		ExpectedRevenue:  f.ExpectedRevenue,
		GrowthAssumption: f.GrowthAssumption,
		Notes:            f.Notes,
		CreatedAt:        f.CreatedAt,
		UpdatedAt:        f.UpdatedAt,
	}
}

// ToDeliveryResponse mapea una fila de entrega; health nulo se expone como Green.
func ToDeliveryResponse(d *entity.ProjectDelivery) dto.ProjectDeliveryResponse {
	return dto.ProjectDeliveryResponse{
		ID:                  d.ID,
		CountryID:           d.CountryID,
		Country:             countryRef(d.CountryName, d.CountryCode),
		Year:                d.Year,
		Month:               d.Month,
		PlannedSites:        d.PlannedSites,
		ActualSites:         d.ActualSites,
		ForecastSites:       d.ForecastSites,
		PlannedTeams:        d.PlannedTeams,
		ActualTeams:         d.ActualTeams,
		ForecastTeams:       d.ForecastTeams,
		PlannedRevenue:      d.PlannedRevenue,
		ActualRevenue:       d.ActualRevenue,
		ForecastRevenue:     d.ForecastRevenue,
		HealthStatus:        string(d.Health()),
		PlanningAssumptions: d.PlanningAssumptions,
		Notes:               d.Notes,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
}

// ToCountryResponse mapea un país.
func ToCountryResponse(c *entity.Country) dto.CountryResponse {
	return dto.CountryResponse{ID: c.ID, Name: c.Name, Code: c.Code, Region: c.Region}
}

// ToStageChangeResponse mapea una entrada del historial.
func ToStageChangeResponse(c *entity.StageChange) dto.StageChangeResponse {
	return dto.StageChangeResponse{
		ID:        c.ID,
		FromStage: string(c.FromStage),
		ToStage:   string(c.ToStage),
		ChangedBy: c.ChangedBy,
		ChangedAt: c.ChangedAt,
	}
}
