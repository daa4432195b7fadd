package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/crm-pipeline-api/internal/application/pipeline"
	"github.com/jhoicas/crm-pipeline-api/internal/domain"
)

// releaseLua borra la clave solo si el token coincide con el del dueño.
const releaseLua = `
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`

var _ pipeline.InFlightGuard = (*InFlightGuard)(nil)

// InFlightGuard token por oportunidad con SETNX + TTL, compartido entre
// instancias de la API. El TTL acota el bloqueo si el proceso muere.
type InFlightGuard struct {
	c       *Client
	ttl     time.Duration
	release *redis.Script
}

// NewInFlightGuard construye el guard.
func NewInFlightGuard(c *Client, ttl time.Duration) *InFlightGuard {
	return &InFlightGuard{c: c, ttl: ttl, release: redis.NewScript(releaseLua)}
}

// Acquire toma el token; domain.ErrInFlight si ya está tomado.
func (g *InFlightGuard) Acquire(ctx context.Context, opportunityID string) (func(), error) {
	token := uuid.New().String()
	key := g.c.key("inflight", opportunityID)

	ok, err := g.c.rdb.SetNX(ctx, key, token, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: acquire %s: %w: %w", opportunityID, domain.ErrStoreUnavailable, err)
	}
	if !ok {
		return nil, domain.ErrInFlight
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// Contexto propio: el del request puede estar cancelado.
			rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = g.release.Run(rctx, g.c.rdb, []string{key}, token).Err()
		})
	}, nil
}
