// Package pipeline casos de uso del tablero Kanban: lectura agrupada por etapa
// y resolución de gestos de arrastre en cambios de etapa persistidos.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
	"github.com/jhoicas/crm-pipeline-api/internal/application/events"
	"github.com/jhoicas/crm-pipeline-api/internal/application/filters"
	"github.com/jhoicas/crm-pipeline-api/internal/domain"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
	board "github.com/jhoicas/crm-pipeline-api/internal/domain/pipeline"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/repository"
	"github.com/jhoicas/crm-pipeline-api/pkg/logger"
	"github.com/jhoicas/crm-pipeline-api/pkg/money"
)

// Códigos de fallo de un drop.
const (
	CodeNotFound         = "NOT_FOUND"
	CodeValidation       = "VALIDATION"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeInFlight         = "IN_FLIGHT"
)

// sesiones de arrastre inactivas más allá de este tiempo se descartan.
const sessionIdleTTL = 30 * time.Minute

type dragSession struct {
	machine  board.DragMachine
	lastSeen time.Time
}

// BoardService tablero de oportunidades y gestos de arrastre.
type BoardService struct {
	repo   repository.OpportunityRepository
	tx     StageTxRunner
	guard  InFlightGuard
	events events.Publisher
	log    *logger.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*dragSession
}

// NewBoardService construye el servicio.
func NewBoardService(
	repo repository.OpportunityRepository,
	tx StageTxRunner,
	guard InFlightGuard,
	pub events.Publisher,
	log *logger.Logger,
) *BoardService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &BoardService{
		repo:     repo,
		tx:       tx,
		guard:    guard,
		events:   pub,
		log:      log,
		now:      time.Now,
		sessions: make(map[string]*dragSession),
	}
}

// GetBoard lee las oportunidades del filtro (solo país) y las agrupa por etapa.
func (s *BoardService) GetBoard(ctx context.Context, f filters.Filter) (*dto.BoardResponse, error) {
	b, anomalies, err := s.fetch(ctx, f)
	if err != nil {
		return nil, err
	}
	return toBoardResponse(b, anomalies), nil
}

// DragStart registra la tarjeta activa de la sesión para la vista previa.
// No modifica datos.
func (s *BoardService) DragStart(ctx context.Context, sessionID string, f filters.Filter, opportunityID string) (*dto.DragStartResponse, error) {
	b, _, err := s.fetch(ctx, f)
	if err != nil {
		return nil, err
	}
	o, ok := b.Find(opportunityID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	if err := s.withMachine(sessionID, func(m *board.DragMachine) error {
		return m.Start(opportunityID)
	}); err != nil {
		return nil, domain.ErrInFlight
	}
	card := toCardDTO(o)
	return &dto.DragStartResponse{State: board.DragDragging.String(), Active: &card}, nil
}

// DragCancel abandona el arrastre sin drop.
func (s *BoardService) DragCancel(sessionID string) {
	_ = s.withMachine(sessionID, func(m *board.DragMachine) error {
		m.Cancel()
		return nil
	})
}

// EndSession descarta el estado de arrastre de la sesión (logout).
func (s *BoardService) EndSession(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// DragEnd resuelve un drop. targetID puede ser el ID de otra tarjeta (destino =
// etapa de esa tarjeta) o la etiqueta de una columna. Un destino no reconocido
// o igual a la etapa actual es un noop sin llamadas al store. Los fallos se
// devuelven como resultado (status=failure); error solo si no se pudo leer el tablero.
func (s *BoardService) DragEnd(ctx context.Context, sessionID, actorID string, f filters.Filter, in dto.DragEndRequest) (*dto.DragResultResponse, error) {
	if err := s.withMachine(sessionID, func(m *board.DragMachine) error {
		return m.Drop(in.OpportunityID)
	}); err != nil {
		return failure(in.OpportunityID, CodeInFlight, "hay otro movimiento en resolución", "", ""), nil
	}
	defer s.finish(sessionID)

	b, anomalies, err := s.fetch(ctx, f)
	if err != nil {
		return nil, err
	}

	to, ok := b.ResolveTarget(in.TargetID)
	if !ok {
		return noop(in.OpportunityID, "destino no reconocido"), nil
	}
	cmd, err := board.NewMoveCommand(b, in.OpportunityID, to)
	if err != nil {
		if errors.Is(err, board.ErrCardNotOnBoard) {
			return failure(in.OpportunityID, CodeNotFound, "la oportunidad no existe", "", string(to)), nil
		}
		return failure(in.OpportunityID, CodeValidation, err.Error(), "", string(to)), nil
	}
	if cmd.IsNoop() {
		return noop(in.OpportunityID, "la oportunidad ya está en "+string(to)), nil
	}

	release, err := s.guard.Acquire(ctx, in.OpportunityID)
	if err != nil {
		if errors.Is(err, domain.ErrInFlight) {
			return failure(in.OpportunityID, CodeInFlight, "ya hay un cambio de etapa en curso", string(cmd.From), string(to)), nil
		}
		return failure(in.OpportunityID, CodeStoreUnavailable, err.Error(), string(cmd.From), string(to)), nil
	}
	defer release()

	if err := cmd.Apply(b); err != nil {
		return failure(in.OpportunityID, CodeNotFound, err.Error(), string(cmd.From), string(to)), nil
	}

	if err := s.persist(ctx, cmd, actorID); err != nil {
		if undoErr := cmd.Undo(b); undoErr != nil {
			s.log.Error().Err(undoErr).Str("opportunity_id", cmd.OpportunityID).Msg("pipeline: no se pudo deshacer el movimiento")
		}
		code := failureCode(err)
		s.log.Warn().Err(err).
			Str("opportunity_id", cmd.OpportunityID).
			Str("from", string(cmd.From)).
			Str("to", string(cmd.To)).
			Str("code", code).
			Msg("pipeline: cambio de etapa fallido")
		res := failure(in.OpportunityID, code, failureMessage(code), string(cmd.From), string(to))
		res.Board = toBoardResponse(b, anomalies)
		return res, nil
	}

	ev := events.Event{
		Type:          events.OpportunityStageChanged,
		OpportunityID: cmd.OpportunityID,
		From:          string(cmd.From),
		To:            string(cmd.To),
		ActorID:       actorID,
		At:            s.now().UTC(),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("opportunity_id", cmd.OpportunityID).Msg("pipeline: no se pudo publicar el evento")
	}

	return &dto.DragResultResponse{
		Status:        dto.DragStatusSuccess,
		Message:       "Movida a " + string(cmd.To),
		OpportunityID: cmd.OpportunityID,
		From:          string(cmd.From),
		To:            string(cmd.To),
		Board:         toBoardResponse(b, anomalies),
	}, nil
}

func (s *BoardService) persist(ctx context.Context, cmd *board.MoveCommand, actorID string) error {
	return s.tx.RunStageChange(ctx, func(opps repository.OpportunityRepository, history repository.StageHistoryRepository) error {
		if _, err := opps.UpdateStage(ctx, cmd.OpportunityID, cmd.To); err != nil {
			return err
		}
		change := &entity.StageChange{
			ID:            uuid.New().String(),
			OpportunityID: cmd.OpportunityID,
			FromStage:     cmd.From,
			ToStage:       cmd.To,
			ChangedAt:     s.now().UTC(),
		}
		if actorID != "" {
			change.ChangedBy = &actorID
		}
		return history.Append(ctx, change)
	})
}

func (s *BoardService) fetch(ctx context.Context, f filters.Filter) (*board.Board, []board.Anomaly, error) {
	opps, err := s.repo.List(ctx, repository.OpportunityQuery{CountryID: f.CountryID})
	if err != nil {
		return nil, nil, fmt.Errorf("pipeline: listar oportunidades: %w", err)
	}
	b, anomalies := board.GroupByStage(opps)
	for _, a := range anomalies {
		s.log.Warn().Str("opportunity_id", a.OpportunityID).Str("stage", a.Stage).Msg("pipeline: etapa no canónica excluida del tablero")
	}
	return b, anomalies, nil
}

func (s *BoardService) withMachine(sessionID string, fn func(m *board.DragMachine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, sess := range s.sessions {
		if id != sessionID && sess.machine.State() != board.DragResolving && now.Sub(sess.lastSeen) > sessionIdleTTL {
			delete(s.sessions, id)
		}
	}
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &dragSession{}
		s.sessions[sessionID] = sess
	}
	sess.lastSeen = now
	return fn(&sess.machine)
}

func (s *BoardService) finish(sessionID string) {
	_ = s.withMachine(sessionID, func(m *board.DragMachine) error {
		m.Finish()
		return nil
	})
}

// DragState estado actual del gesto de la sesión.
func (s *BoardService) DragState(sessionID string) board.DragState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		return sess.machine.State()
	}
	return board.DragIdle
}

func failureCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return CodeValidation
	default:
		return CodeStoreUnavailable
	}
}

func failureMessage(code string) string {
	switch code {
	case CodeNotFound:
		return "la oportunidad ya no existe"
	case CodeValidation:
		return "el cambio de etapa fue rechazado por validación"
	default:
		return "no se pudo guardar el cambio, intente de nuevo"
	}
}

func noop(id, msg string) *dto.DragResultResponse {
	return &dto.DragResultResponse{Status: dto.DragStatusNoop, Message: msg, OpportunityID: id}
}

func failure(id, code, msg, from, to string) *dto.DragResultResponse {
	return &dto.DragResultResponse{
		Status:        dto.DragStatusFailure,
		Code:          code,
		Message:       msg,
		OpportunityID: id,
		From:          from,
		To:            to,
	}
}

func toBoardResponse(b *board.Board, anomalies []board.Anomaly) *dto.BoardResponse {
	out := &dto.BoardResponse{
		Columns:    make([]dto.BoardColumnDTO, 0, len(b.Columns())),
		GrandTotal: b.GrandTotal(),
		Anomalies:  make([]dto.BoardAnomalyDTO, 0, len(anomalies)),
	}
	for _, col := range b.Columns() {
		c := dto.BoardColumnDTO{
			Stage:      string(col.Stage),
			Count:      len(col.Items),
			Total:      col.Total,
			TotalLabel: money.Compact(col.Total),
			Items:      make([]dto.BoardCardDTO, 0, len(col.Items)),
		}
		for _, o := range col.Items {
			c.Items = append(c.Items, toCardDTO(o))
		}
		out.Columns = append(out.Columns, c)
	}
	for _, a := range anomalies {
		out.Anomalies = append(out.Anomalies, dto.BoardAnomalyDTO{OpportunityID: a.OpportunityID, Stage: a.Stage})
	}
	return out
}

func toCardDTO(o *entity.Opportunity) dto.BoardCardDTO {
	card := dto.BoardCardDTO{
		ID:             o.ID,
		CustomerName:   o.CustomerName,
		DealValue:      o.DealValue,
		DealValueLabel: money.Compact(o.DealValue),
		Probability:    o.Probability,
		Stage:          string(o.Stage),
		CountryCode:    o.CountryCode,
	}
	if o.ExpectedClosureDate != nil {
		d := o.ExpectedClosureDate.Format("2006-01-02")
		card.ExpectedClosureDate = &d
	}
	return card
}
