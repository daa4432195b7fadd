// Package events define los eventos de invalidación que se publican tras
// mutar datos para que los clientes conectados vuelvan a consultar.
package events

import (
	"context"
	"sync"
	"time"
)

// Tipos de evento.
const (
	OpportunityStageChanged = "opportunity.stage_changed"
	OpportunityCreated      = "opportunity.created"
	OpportunityUpdated      = "opportunity.updated"
	OpportunityDeleted      = "opportunity.deleted"
	ForecastChanged         = "forecast.changed"
	DeliveryChanged         = "delivery.changed"
)

// Event mensaje de invalidación. Los campos de etapa solo aplican a cambios de etapa.
type Event struct {
	Type          string    `json:"type"`
	OpportunityID string    `json:"opportunity_id,omitempty"`
	EntityID      string    `json:"entity_id,omitempty"`
	From          string    `json:"from,omitempty"`
	To            string    `json:"to,omitempty"`
	ActorID       string    `json:"actor_id,omitempty"`
	At            time.Time `json:"at"`
}

// Publisher puerto de salida para publicar eventos.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Subscriber entrega eventos a un handler hasta que ctx se cancela.
type Subscriber interface {
	Subscribe(ctx context.Context, handler func(Event)) error
}

// MemoryBus bus en proceso (sin Redis).
type MemoryBus struct {
	mu       sync.RWMutex
	handlers map[int]func(Event)
	nextID   int
}

var (
	_ Publisher  = (*MemoryBus)(nil)
	_ Subscriber = (*MemoryBus)(nil)
)

// NewMemoryBus construye el bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{handlers: make(map[int]func(Event))}
}

// Publish entrega el evento de forma síncrona a todos los suscriptores.
func (b *MemoryBus) Publish(_ context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	b.mu.RLock()
	hs := make([]func(Event), 0, len(b.handlers))
	for _, h := range b.handlers {
		hs = append(hs, h)
	}
	b.mu.RUnlock()
	for _, h := range hs {
		h(ev)
	}
	return nil
}

// Subscribe registra handler y bloquea hasta que ctx termine.
func (b *MemoryBus) Subscribe(ctx context.Context, handler func(Event)) error {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = handler
	b.mu.Unlock()

	<-ctx.Done()

	b.mu.Lock()
	delete(b.handlers, id)
	b.mu.Unlock()
	return nil
}

// Nop descarta los eventos.
type Nop struct{}

// Publish no hace nada.
func (Nop) Publish(context.Context, Event) error { return nil }
