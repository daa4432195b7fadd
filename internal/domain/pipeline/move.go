package pipeline

import (
	"errors"

	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
)

var (
	// ErrCardNotOnBoard la tarjeta arrastrada no está en el tablero.
	ErrCardNotOnBoard = errors.New("pipeline: la oportunidad no está en el tablero")
	// ErrInvalidStage etapa destino no canónica.
	ErrInvalidStage = errors.New("pipeline: etapa inválida")
	// ErrNotApplied Undo sin un Apply previo.
	ErrNotApplied = errors.New("pipeline: movimiento no aplicado")
)

// MoveCommand movimiento optimista de una tarjeta entre columnas con deshacer.
type MoveCommand struct {
	OpportunityID string
	From          entity.Stage
	To            entity.Stage
	applied       bool
}

// NewMoveCommand prepara el movimiento leyendo la etapa actual desde el tablero.
func NewMoveCommand(b *Board, opportunityID string, to entity.Stage) (*MoveCommand, error) {
	if !to.IsValid() {
		return nil, ErrInvalidStage
	}
	o, ok := b.Find(opportunityID)
	if !ok {
		return nil, ErrCardNotOnBoard
	}
	return &MoveCommand{OpportunityID: opportunityID, From: o.Stage, To: to}, nil
}

// IsNoop true si origen y destino coinciden.
func (c *MoveCommand) IsNoop() bool {
	return c.From == c.To
}

// Apply mueve la tarjeta a la columna destino y actualiza su etapa.
func (c *MoveCommand) Apply(b *Board) error {
	return c.move(b, c.To, true)
}

// Undo devuelve la tarjeta a la columna de origen.
func (c *MoveCommand) Undo(b *Board) error {
	if !c.applied {
		return ErrNotApplied
	}
	return c.move(b, c.From, false)
}

func (c *MoveCommand) move(b *Board, stage entity.Stage, applied bool) error {
	o, ok := b.remove(c.OpportunityID)
	if !ok {
		return ErrCardNotOnBoard
	}
	o.Stage = stage
	b.insert(o, stage)
	c.applied = applied
	return nil
}
