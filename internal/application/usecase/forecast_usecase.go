package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
	"github.com/jhoicas/crm-pipeline-api/internal/application/events"
	"github.com/jhoicas/crm-pipeline-api/internal/domain"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/repository"
	"github.com/jhoicas/crm-pipeline-api/pkg/logger"
)

// ForecastUseCase alta y edición de proyecciones manuales.
type ForecastUseCase struct {
	repo repository.ForecastRepository
	pub  events.Publisher
	log  *logger.Logger
	now  func() time.Time
}

// NewForecastUseCase construye el caso de uso.
func NewForecastUseCase(repo repository.ForecastRepository, pub events.Publisher, log *logger.Logger) *ForecastUseCase {
	if pub == nil {
		pub = events.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ForecastUseCase{repo: repo, pub: pub, log: log, now: time.Now}
}

// Create registra una proyección. Quarter nil = proyección anual.
func (uc *ForecastUseCase) Create(ctx context.Context, actorID string, in dto.CreateForecastRequest) (*dto.ForecastResponse, error) {
	now := uc.now()
	f := &entity.Forecast{
		ID:              uuid.New().String(),
		CountryID:       in.CountryID,
		BusinessArea:    entity.BusinessArea(in.BusinessArea),
		Year:            in.Year,
		Quarter:         in.Quarter,
		ExpectedRevenue: in.ExpectedRevenue,
		Notes:           in.Notes,
		CreatedBy:       emptyToNil(&actorID),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.GrowthAssumption != nil {
		f.GrowthAssumption = *in.GrowthAssumption
	}
	if err := validateForecast(f); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	uc.publish(ctx, f.ID, actorID)
	return uc.reload(ctx, f), nil
}

// Update aplica un parche parcial.
func (uc *ForecastUseCase) Update(ctx context.Context, actorID, id string, in dto.UpdateForecastRequest) (*dto.ForecastResponse, error) {
	f, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.BusinessArea != nil {
		f.BusinessArea = entity.BusinessArea(*in.BusinessArea)
	}
	if in.Year != nil {
		f.Year = *in.Year
	}
	if in.Quarter != nil {
		q := *in.Quarter
		if q == 0 {
			f.Quarter = nil
		} else {
			f.Quarter = &q
		}
	}
	if in.ExpectedRevenue != nil {
		f.ExpectedRevenue = *in.ExpectedRevenue
	}
	if in.GrowthAssumption != nil {
		f.GrowthAssumption = *in.GrowthAssumption
	}
	if in.Notes != nil {
		f.Notes = *in.Notes
	}
	if err := validateForecast(f); err != nil {
		return nil, err
	}
	f.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	uc.publish(ctx, f.ID, actorID)
	return uc.reload(ctx, f), nil
}

func (uc *ForecastUseCase) reload(ctx context.Context, f *entity.Forecast) *dto.ForecastResponse {
	if fresh, err := uc.repo.GetByID(ctx, f.ID); err == nil {
		f = fresh
	}
	out := ToForecastResponse(f)
	return &out
}

func (uc *ForecastUseCase) publish(ctx context.Context, id, actor string) {
	if err := uc.pub.Publish(ctx, events.Event{Type: events.ForecastChanged, EntityID: id, ActorID: actor, At: uc.now()}); err != nil {
		uc.log.Warn().Err(err).Str("event", events.ForecastChanged).Str("entity_id", id).Msg("forecast: no se pudo publicar el evento")
	}
}

func validateForecast(f *entity.Forecast) error {
	if f.CountryID == "" {
		return fmt.Errorf("%w: country_id requerido", domain.ErrInvalidInput)
	}
	if !f.BusinessArea.IsValid() {
		return fmt.Errorf("%w: área de negocio %q", domain.ErrInvalidInput, f.BusinessArea)
	}
	if f.Year < 2000 || f.Year > 2100 {
		return fmt.Errorf("%w: año %d", domain.ErrInvalidInput, f.Year)
	}
	if f.Quarter != nil && (*f.Quarter < 1 || *f.Quarter > 4) {
		return fmt.Errorf("%w: trimestre %d", domain.ErrInvalidInput, *f.Quarter)
	}
	if f.ExpectedRevenue.LessThan(decimal.Zero) {
		return fmt.Errorf("%w: expected_revenue negativo", domain.ErrInvalidInput)
	}
	return nil
}
