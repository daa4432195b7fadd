// Package insights arma el resumen del pipeline y lo delega al LLM configurado.
package insights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/crm-pipeline-api/internal/application/analytics"
	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
	"github.com/jhoicas/crm-pipeline-api/internal/application/filters"
	"github.com/jhoicas/crm-pipeline-api/internal/application/ports"
	"github.com/jhoicas/crm-pipeline-api/internal/domain"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/repository"
	"github.com/jhoicas/crm-pipeline-api/pkg/money"
)

const maxQuestionLen = 500

// UseCase orquesta el análisis del pipeline asistido por IA.
// Aplica un timeout en cada llamada al LLM para que las latencias externas
// no bloqueen los goroutines del servidor.
type UseCase struct {
	opps      repository.OpportunityRepository
	countries repository.CountryRepository
	llm       ports.LLMService
	timeout   time.Duration
}

// NewUseCase construye el caso de uso inyectando el puerto LLMService.
func NewUseCase(
	opps repository.OpportunityRepository,
	countries repository.CountryRepository,
	llm ports.LLMService,
	timeout time.Duration,
) *UseCase {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &UseCase{opps: opps, countries: countries, llm: llm, timeout: timeout}
}

// PipelineInsights resume el pipeline filtrado y pide el análisis al modelo.
func (uc *UseCase) PipelineInsights(ctx context.Context, f filters.Filter, in dto.PipelineInsightsRequest) (*dto.PipelineInsightsDTO, error) {
	question := strings.TrimSpace(in.Question)
	if len(question) > maxQuestionLen {
		return nil, fmt.Errorf("%w: question excede %d caracteres", domain.ErrInvalidInput, maxQuestionLen)
	}
	snap, err := uc.snapshot(ctx, f)
	if err != nil {
		return nil, err
	}
	snap.Question = question

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	out, err := uc.llm.AnalyzePipeline(ctx, snap)
	if err != nil {
		return nil, fmt.Errorf("análisis IA: %w", err)
	}
	return out, nil
}

func (uc *UseCase) snapshot(ctx context.Context, f filters.Filter) (ports.PipelineSnapshot, error) {
	opps, err := uc.opps.List(ctx, repository.OpportunityQuery{CountryID: f.CountryID})
	if err != nil {
		return ports.PipelineSnapshot{}, err
	}
	label := "All countries"
	if f.CountryID != nil {
		label = *f.CountryID
		list, err := uc.countries.ListActive(ctx)
		if err != nil {
			return ports.PipelineSnapshot{}, err
		}
		for _, c := range list {
			if c.ID == *f.CountryID {
				label = c.Name
				break
			}
		}
	}

	d := analytics.BuildDashboard(opps)
	snap := ports.PipelineSnapshot{
		CountryLabel:     label,
		TotalPipeline:    money.Compact(d.TotalPipeline),
		WeightedPipeline: money.Compact(d.WeightedPipeline),
		WinRate:          money.Percent(d.WinRate),
		Opportunities:    d.TotalOpportunities,
		Stages:           d.StageDistribution,
	}
	for _, c := range d.PipelineByCountry {
		snap.TopCountries = append(snap.TopCountries, fmt.Sprintf("%s: %s", c.Name, money.Compact(c.Value)))
	}
	for _, o := range d.TopOpportunities {
		snap.TopOpen = append(snap.TopOpen, fmt.Sprintf("%s, %s, %s", o.CustomerName, o.Stage, money.Compact(o.DealValue)))
	}
	return snap, nil
}
