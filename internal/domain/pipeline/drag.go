package pipeline

import "errors"

// DragState estado del gesto de arrastre de una sesión.
type DragState int

const (
	// DragIdle sin gesto activo.
	DragIdle DragState = iota
	// DragDragging hay una tarjeta activa (solo vista previa).
	DragDragging
	// DragResolving el drop se está resolviendo / persistiendo.
	DragResolving
)

func (s DragState) String() string {
	switch s {
	case DragDragging:
		return "dragging"
	case DragResolving:
		return "resolving"
	default:
		return "idle"
	}
}

// ErrDragBusy la sesión está resolviendo un drop anterior.
var ErrDragBusy = errors.New("pipeline: hay un movimiento en resolución")

// DragMachine máquina de estados Idle → Dragging(id) → Resolving → Idle.
// No es segura para uso concurrente; el llamador serializa el acceso.
type DragMachine struct {
	state    DragState
	activeID string
}

// State estado actual.
func (m *DragMachine) State() DragState { return m.state }

// ActiveID tarjeta activa (vacío en Idle).
func (m *DragMachine) ActiveID() string { return m.activeID }

// Start registra la tarjeta activa. Un nuevo Start durante Dragging reemplaza la tarjeta.
func (m *DragMachine) Start(id string) error {
	if m.state == DragResolving {
		return ErrDragBusy
	}
	m.state = DragDragging
	m.activeID = id
	return nil
}

// Drop pasa a Resolving con la tarjeta soltada. Se acepta también desde Idle
// (drop sin start previo registrado).
func (m *DragMachine) Drop(id string) error {
	if m.state == DragResolving {
		return ErrDragBusy
	}
	m.state = DragResolving
	m.activeID = id
	return nil
}

// Finish cierra la resolución (confirmada o fallida) y vuelve a Idle.
func (m *DragMachine) Finish() {
	m.state = DragIdle
	m.activeID = ""
}

// Cancel abandona un arrastre sin drop. No tiene efecto durante Resolving.
func (m *DragMachine) Cancel() {
	if m.state == DragDragging {
		m.Finish()
	}
}
