package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/crm-pipeline-api/internal/application/events"
)

const eventsChannel = "events"

var (
	_ events.Publisher  = (*EventBus)(nil)
	_ events.Subscriber = (*EventBus)(nil)
)

// EventBus eventos de invalidación por Redis Pub/Sub, para que todas las
// instancias de la API notifiquen a sus clientes websocket.
type EventBus struct {
	c *Client
}

// NewEventBus construye el bus.
func NewEventBus(c *Client) *EventBus {
	return &EventBus{c: c}
}

// Publish serializa el evento y lo publica en el canal.
func (b *EventBus) Publish(ctx context.Context, ev events.Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("redis: marshal event: %w", err)
	}
	if err := b.c.rdb.Publish(ctx, b.c.key(eventsChannel), payload).Err(); err != nil {
		return fmt.Errorf("redis: publish: %w", err)
	}
	return nil
}

// Subscribe entrega los eventos recibidos a handler hasta que ctx se cancela.
// Mensajes que no decodifican se descartan.
func (b *EventBus) Subscribe(ctx context.Context, handler func(events.Event)) error {
	pubsub := b.c.rdb.Subscribe(ctx, b.c.key(eventsChannel))
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("redis: subscribe: %w", err)
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev events.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				continue
			}
			handler(ev)
		}
	}
}
