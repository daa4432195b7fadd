package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
	"github.com/jhoicas/crm-pipeline-api/internal/application/events"
	"github.com/jhoicas/crm-pipeline-api/internal/application/filters"
	"github.com/jhoicas/crm-pipeline-api/internal/application/pipeline"
	"github.com/jhoicas/crm-pipeline-api/internal/domain"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/repository"
	"github.com/jhoicas/crm-pipeline-api/pkg/logger"
)

// OpportunityUseCase CRUD de oportunidades. Un cambio de etapa por PATCH se
// registra en el historial dentro de la misma transacción que el update y
// comparte el token en curso con el arrastre del tablero.
type OpportunityUseCase struct {
	repo    repository.OpportunityRepository
	history repository.StageHistoryRepository
	tx      pipeline.StageTxRunner
	guard   pipeline.InFlightGuard
	pub     events.Publisher
	log     *logger.Logger
	now     func() time.Time
}

// NewOpportunityUseCase construye el caso de uso. pub nil = sin eventos, log nil = descartar.
func NewOpportunityUseCase(
	repo repository.OpportunityRepository,
	history repository.StageHistoryRepository,
	tx pipeline.StageTxRunner,
	guard pipeline.InFlightGuard,
	pub events.Publisher,
	log *logger.Logger,
) *OpportunityUseCase {
	if pub == nil {
		pub = events.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &OpportunityUseCase{repo: repo, history: history, tx: tx, guard: guard, pub: pub, log: log, now: time.Now}
}

// List oportunidades del país seleccionado (más recientes primero).
func (uc *OpportunityUseCase) List(ctx context.Context, f filters.Filter) (*dto.OpportunityListResponse, error) {
	list, err := uc.repo.List(ctx, repository.OpportunityQuery{CountryID: f.CountryID})
	if err != nil {
		return nil, err
	}
	items := make([]dto.OpportunityResponse, 0, len(list))
	for _, o := range list {
		items = append(items, ToOpportunityResponse(o))
	}
	return &dto.OpportunityListResponse{Items: items, Total: len(items)}, nil
}

// GetByID obtiene una oportunidad.
func (uc *OpportunityUseCase) GetByID(ctx context.Context, id string) (*dto.OpportunityResponse, error) {
	o, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToOpportunityResponse(o)
	return &out, nil
}

// Create valida y persiste. Etapa vacía = Prospect.
func (uc *OpportunityUseCase) Create(ctx context.Context, actorID string, in dto.CreateOpportunityRequest) (*dto.OpportunityResponse, error) {
	stage := entity.StageProspect
	if in.Stage != "" {
		s, ok := entity.ParseStage(in.Stage)
		if !ok {
			return nil, fmt.Errorf("%w: etapa %q", domain.ErrInvalidInput, in.Stage)
		}
		stage = s
	}
	closure, err := parseDate(in.ExpectedClosureDate)
	if err != nil {
		return nil, fmt.Errorf("%w: expected_closure_date", domain.ErrInvalidInput)
	}
	created, err := parseDate(in.CreationDate)
	if err != nil {
		return nil, fmt.Errorf("%w: creation_date", domain.ErrInvalidInput)
	}
	prob := 0
	if in.Probability != nil {
		prob = *in.Probability
	}
	now := uc.now()
	o := &entity.Opportunity{
		ID:                  uuid.New().String(),
		Code:                strings.TrimSpace(in.Code),
		CustomerName:        strings.TrimSpace(in.CustomerName),
		DealValue:           in.DealValue,
		Probability:         prob,
		Stage:               stage,
		BusinessArea:        entity.BusinessArea(in.BusinessArea),
		CountryID:           emptyToNil(in.CountryID),
		OwnerID:             emptyToNil(in.OwnerID),
		ExpectedClosureDate: closure,
		CreationDate:        created,
		Notes:               in.Notes,
		CreatedBy:           emptyToNil(&actorID),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if !o.Validate() {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	uc.publish(ctx, events.OpportunityCreated, o.ID, actorID, "", string(o.Stage))
	return uc.reload(ctx, o)
}

// Update aplica un parche parcial. Si el parche trae etapa, se toma el token
// en curso de la oportunidad antes de leerla (ErrInFlight si hay un arrastre
// pendiente) y el update y el historial van en una transacción.
func (uc *OpportunityUseCase) Update(ctx context.Context, actorID, id string, in dto.UpdateOpportunityRequest) (*dto.OpportunityResponse, error) {
	if in.Stage != nil {
		release, err := uc.guard.Acquire(ctx, id)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	o, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := o.Stage
	if err := applyOpportunityPatch(o, in); err != nil {
		return nil, err
	}
	if !o.Validate() {
		return nil, domain.ErrInvalidInput
	}
	o.UpdatedAt = uc.now()

	if o.Stage == from {
		if err := uc.repo.Update(ctx, o); err != nil {
			return nil, err
		}
		uc.publish(ctx, events.OpportunityUpdated, o.ID, actorID, "", "")
		return uc.reload(ctx, o)
	}

	err = uc.tx.RunStageChange(ctx, func(opps repository.OpportunityRepository, history repository.StageHistoryRepository) error {
		if err := opps.Update(ctx, o); err != nil {
			return err
		}
		return history.Append(ctx, &entity.StageChange{
			ID:            uuid.New().String(),
			OpportunityID: o.ID,
			FromStage:     from,
			ToStage:       o.Stage,
			ChangedBy:     emptyToNil(&actorID),
			ChangedAt:     o.UpdatedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, events.OpportunityStageChanged, o.ID, actorID, string(from), string(o.Stage))
	return uc.reload(ctx, o)
}

// Delete elimina la oportunidad.
func (uc *OpportunityUseCase) Delete(ctx context.Context, actorID, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.publish(ctx, events.OpportunityDeleted, id, actorID, "", "")
	return nil
}

// History cambios de etapa de la oportunidad, más recientes primero.
func (uc *OpportunityUseCase) History(ctx context.Context, id string) ([]dto.StageChangeResponse, error) {
	if _, err := uc.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	list, err := uc.history.ListByOpportunity(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StageChangeResponse, 0, len(list))
	for _, c := range list {
		out = append(out, ToStageChangeResponse(c))
	}
	return out, nil
}

// reload relee la fila para devolver los datos del JOIN (país, responsable).
func (uc *OpportunityUseCase) reload(ctx context.Context, o *entity.Opportunity) (*dto.OpportunityResponse, error) {
	fresh, err := uc.repo.GetByID(ctx, o.ID)
	if err != nil {
		fresh = o
	}
	out := ToOpportunityResponse(fresh)
	return &out, nil
}

func (uc *OpportunityUseCase) publish(ctx context.Context, typ, id, actor, from, to string) {
	err := uc.pub.Publish(ctx, events.Event{
		Type:          typ,
		OpportunityID: id,
		From:          from,
		To:            to,
		ActorID:       actor,
		At:            uc.now(),
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("event", typ).Str("opportunity_id", id).Msg("opportunity: no se pudo publicar el evento")
	}
}

func applyOpportunityPatch(o *entity.Opportunity, in dto.UpdateOpportunityRequest) error {
	if in.Code != nil {
		o.Code = strings.TrimSpace(*in.Code)
	}
	if in.CustomerName != nil {
		o.CustomerName = strings.TrimSpace(*in.CustomerName)
	}
	if in.DealValue != nil {
		o.DealValue = *in.DealValue
	}
	if in.Probability != nil {
		o.Probability = *in.Probability
	}
	if in.Stage != nil {
		s, ok := entity.ParseStage(*in.Stage)
		if !ok {
			return fmt.Errorf("%w: etapa %q", domain.ErrInvalidInput, *in.Stage)
		}
		o.Stage = s
	}
	if in.BusinessArea != nil {
		o.BusinessArea = entity.BusinessArea(*in.BusinessArea)
	}
	if in.CountryID != nil {
		o.CountryID = emptyToNil(in.CountryID)
	}
	if in.OwnerID != nil {
		o.OwnerID = emptyToNil(in.OwnerID)
	}
	if in.ExpectedClosureDate != nil {
		t, err := parseDate(in.ExpectedClosureDate)
		if err != nil {
			return fmt.Errorf("%w: expected_closure_date", domain.ErrInvalidInput)
		}
		o.ExpectedClosureDate = t
	}
	if in.Notes != nil {
		o.Notes = *in.Notes
	}
	return nil
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
