package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/crm-pipeline-api/internal/application/filters"
	"github.com/jhoicas/crm-pipeline-api/internal/domain"
)

var _ filters.Store = (*FilterStore)(nil)

// FilterStore guarda la selección de cada sesión como JSON con TTL igual a la
// vida del token.
type FilterStore struct {
	c   *Client
	ttl time.Duration
}

// NewFilterStore construye el store.
func NewFilterStore(c *Client, ttl time.Duration) *FilterStore {
	return &FilterStore{c: c, ttl: ttl}
}

// Load lee la selección de la sesión.
func (s *FilterStore) Load(ctx context.Context, sessionID string) (filters.Filter, bool, error) {
	raw, err := s.c.rdb.Get(ctx, s.c.key("filters", sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return filters.Filter{}, false, nil
	}
	if err != nil {
		return filters.Filter{}, false, fmt.Errorf("redis: get filters: %w: %w", domain.ErrStoreUnavailable, err)
	}
	var f filters.Filter
	if err := json.Unmarshal(raw, &f); err != nil {
		// Valor corrupto: se trata como ausente.
		return filters.Filter{}, false, nil
	}
	return f, true, nil
}

// Save guarda la selección renovando el TTL.
func (s *FilterStore) Save(ctx context.Context, sessionID string, f filters.Filter) error {
	raw, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("redis: marshal filters: %w", err)
	}
	if err := s.c.rdb.Set(ctx, s.c.key("filters", sessionID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set filters: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Delete elimina la selección.
func (s *FilterStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.c.rdb.Del(ctx, s.c.key("filters", sessionID)).Err(); err != nil {
		return fmt.Errorf("redis: del filters: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}
