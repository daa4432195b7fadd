package reports

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/crm-pipeline-api/internal/application/analytics"
	"github.com/jhoicas/crm-pipeline-api/internal/application/filters"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
	board "github.com/jhoicas/crm-pipeline-api/internal/domain/pipeline"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/repository"
)

const (
	allCountries = "All countries"
	maxOpenRows  = 25
)

// Service arma los reportes a partir del filtro de la sesión.
type Service struct {
	opps      repository.OpportunityRepository
	countries repository.CountryRepository
	views     *analytics.UseCase
	pdf       PDFRenderer
	now       func() time.Time
}

// NewService construye el servicio.
func NewService(
	opps repository.OpportunityRepository,
	countries repository.CountryRepository,
	views *analytics.UseCase,
	pdf PDFRenderer,
) *Service {
	return &Service{opps: opps, countries: countries, views: views, pdf: pdf, now: time.Now}
}

// PipelinePDF KPIs, totales por etapa y oportunidades abiertas.
func (s *Service) PipelinePDF(ctx context.Context, f filters.Filter) ([]byte, error) {
	opps, err := s.opps.List(ctx, repository.OpportunityQuery{CountryID: f.CountryID})
	if err != nil {
		return nil, err
	}
	label, err := s.countryLabel(ctx, f)
	if err != nil {
		return nil, err
	}
	b, _ := board.GroupByStage(opps)
	rep := PipelineReport{
		CountryLabel: label,
		Month:        f.Month,
		Year:         f.Year,
		GeneratedAt:  s.now(),
		Summary:      analytics.BuildDashboard(opps),
		GrandTotal:   b.GrandTotal(),
	}
	for _, c := range b.Columns() {
		rep.Stages = append(rep.Stages, StageSummary{Stage: string(c.Stage), Count: len(c.Items), Total: c.Total})
	}
	rep.Open = openByValue(opps, maxOpenRows)
	return s.pdf.RenderPipeline(ctx, rep)
}

// ForecastXML devuelve el documento y su digest canónico (ETag).
func (s *Service) ForecastXML(ctx context.Context, f filters.Filter) ([]byte, string, error) {
	summary, err := s.views.Forecast(ctx, f)
	if err != nil {
		return nil, "", err
	}
	label, err := s.countryLabel(ctx, f)
	if err != nil {
		return nil, "", err
	}
	doc, err := BuildForecastXML(*summary, label)
	if err != nil {
		return nil, "", err
	}
	digest, err := Digest(doc)
	if err != nil {
		return nil, "", err
	}
	return doc, digest, nil
}

// OpportunitiesCSV listado de oportunidades del país seleccionado.
func (s *Service) OpportunitiesCSV(ctx context.Context, f filters.Filter) ([]byte, error) {
	opps, err := s.opps.List(ctx, repository.OpportunityQuery{CountryID: f.CountryID})
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteOpportunitiesCSV(&buf, opps); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Service) countryLabel(ctx context.Context, f filters.Filter) (string, error) {
	if f.CountryID == nil {
		return allCountries, nil
	}
	list, err := s.countries.ListActive(ctx)
	if err != nil {
		return "", fmt.Errorf("reports: países: %w", err)
	}
	for _, c := range list {
		if c.ID == *f.CountryID {
			return c.Name, nil
		}
	}
	return *f.CountryID, nil
}

func openByValue(opps []*entity.Opportunity, n int) []*entity.Opportunity {
	open := make([]*entity.Opportunity, 0, len(opps))
	for _, o := range opps {
		if !o.Stage.IsClosed() {
			open = append(open, o)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		return open[i].DealValue.GreaterThan(open[j].DealValue)
	})
	if len(open) > n {
		open = open[:n]
	}
	return open
}
