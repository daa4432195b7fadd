package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
	"github.com/jhoicas/crm-pipeline-api/internal/application/events"
	"github.com/jhoicas/crm-pipeline-api/internal/domain"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/repository"
	"github.com/jhoicas/crm-pipeline-api/pkg/logger"
)

// DeliveryUseCase alta y edición del seguimiento mensual de entrega.
// Hay como máximo una fila por país, año y mes (duplicado → ErrDuplicate).
type DeliveryUseCase struct {
	repo repository.ProjectDeliveryRepository
	pub  events.Publisher
	log  *logger.Logger
	now  func() time.Time
}

// NewDeliveryUseCase construye el caso de uso.
func NewDeliveryUseCase(repo repository.ProjectDeliveryRepository, pub events.Publisher, log *logger.Logger) *DeliveryUseCase {
	if pub == nil {
		pub = events.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &DeliveryUseCase{repo: repo, pub: pub, log: log, now: time.Now}
}

// Create registra la fila del mes.
func (uc *DeliveryUseCase) Create(ctx context.Context, actorID string, in dto.CreateDeliveryRequest) (*dto.ProjectDeliveryResponse, error) {
	now := uc.now()
	d := &entity.ProjectDelivery{
		ID:                  uuid.New().String(),
		CountryID:           in.CountryID,
		Year:                in.Year,
		Month:               in.Month,
		PlannedSites:        in.PlannedSites,
		ActualSites:         in.ActualSites,
		ForecastSites:       in.ForecastSites,
		PlannedTeams:        in.PlannedTeams,
		ActualTeams:         in.ActualTeams,
		ForecastTeams:       in.ForecastTeams,
		PlannedRevenue:      in.PlannedRevenue,
		ActualRevenue:       in.ActualRevenue,
		ForecastRevenue:     in.ForecastRevenue,
		PlanningAssumptions: in.PlanningAssumptions,
		Notes:               in.Notes,
		CreatedBy:           emptyToNil(&actorID),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := setHealth(d, in.HealthStatus); err != nil {
		return nil, err
	}
	if err := validateDelivery(d); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	uc.publish(ctx, d.ID, actorID)
	return uc.reload(ctx, d), nil
}

// Update aplica un parche parcial. País, año y mes no se editan.
func (uc *DeliveryUseCase) Update(ctx context.Context, actorID, id string, in dto.UpdateDeliveryRequest) (*dto.ProjectDeliveryResponse, error) {
	d, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	setInt(&d.PlannedSites, in.PlannedSites)
	setInt(&d.ActualSites, in.ActualSites)
	setInt(&d.ForecastSites, in.ForecastSites)
	setInt(&d.PlannedTeams, in.PlannedTeams)
	setInt(&d.ActualTeams, in.ActualTeams)
	setInt(&d.ForecastTeams, in.ForecastTeams)
	if in.PlannedRevenue != nil {
		d.PlannedRevenue = *in.PlannedRevenue
	}
	if in.ActualRevenue != nil {
		d.ActualRevenue = *in.ActualRevenue
	}
	if in.ForecastRevenue != nil {
		d.ForecastRevenue = *in.ForecastRevenue
	}
	if in.HealthStatus != nil {
		if err := setHealth(d, in.HealthStatus); err != nil {
			return nil, err
		}
	}
	if in.PlanningAssumptions != nil {
		d.PlanningAssumptions = *in.PlanningAssumptions
	}
	if in.Notes != nil {
		d.Notes = *in.Notes
	}
	if err := validateDelivery(d); err != nil {
		return nil, err
	}
	d.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	uc.publish(ctx, d.ID, actorID)
	return uc.reload(ctx, d), nil
}

func (uc *DeliveryUseCase) reload(ctx context.Context, d *entity.ProjectDelivery) *dto.ProjectDeliveryResponse {
	if fresh, err := uc.repo.GetByID(ctx, d.ID); err == nil {
		d = fresh
	}
	out := ToDeliveryResponse(d)
	return &out
}

func (uc *DeliveryUseCase) publish(ctx context.Context, id, actor string) {
	if err := uc.pub.Publish(ctx, events.Event{Type: events.DeliveryChanged, EntityID: id, ActorID: actor, At: uc.now()}); err != nil {
		uc.log.Warn().Err(err).Str("event", events.DeliveryChanged).Str("entity_id", id).Msg("delivery: no se pudo publicar el evento")
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// setHealth acepta nil o "" como sin estado (Green al leer).
func setHealth(d *entity.ProjectDelivery, v *string) error {
	if v == nil || *v == "" {
		d.HealthStatus = nil
		return nil
	}
	h := entity.HealthStatus(*v)
	if !h.IsValid() {
		return fmt.Errorf("%w: health_status %q", domain.ErrInvalidInput, *v)
	}
	d.HealthStatus = &h
	return nil
}

func validateDelivery(d *entity.ProjectDelivery) error {
	if d.CountryID == "" {
		return fmt.Errorf("%w: country_id requerido", domain.ErrInvalidInput)
	}
	if d.Month < 1 || d.Month > 12 {
		return fmt.Errorf("%w: mes %d", domain.ErrInvalidInput, d.Month)
	}
	if d.Year < 2000 || d.Year > 2100 {
		return fmt.Errorf("%w: año %d", domain.ErrInvalidInput, d.Year)
	}
	for _, n := range []int{d.PlannedSites, d.ActualSites, d.ForecastSites, d.PlannedTeams, d.ActualTeams, d.ForecastTeams} {
		if n < 0 {
			return fmt.Errorf("%w: conteos negativos", domain.ErrInvalidInput)
		}
	}
	if d.PlannedRevenue.IsNegative() || d.ActualRevenue.IsNegative() || d.ForecastRevenue.IsNegative() {
		return fmt.Errorf("%w: ingresos negativos", domain.ErrInvalidInput)
	}
	return nil
}
