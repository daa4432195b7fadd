package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-pipeline-api/internal/domain"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/repository"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []error
	}{
		{"sin filas", pgx.ErrNoRows, []error{domain.ErrNotFound}},
		{"unique", &pgconn.PgError{Code: "23505"}, []error{domain.ErrDuplicate, domain.ErrInvalidInput}},
		{"uuid inválido", &pgconn.PgError{Code: "22P02"}, []error{domain.ErrInvalidInput}},
		{"check", &pgconn.PgError{Code: "23514"}, []error{domain.ErrInvalidInput}},
		{"fk", &pgconn.PgError{Code: "23503"}, []error{domain.ErrInvalidInput}},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, []error{domain.ErrStoreUnavailable}},
		{"timeout", fmt.Errorf("query: %w", context.DeadlineExceeded), []error{domain.ErrStoreUnavailable}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify("op", tt.err)
			for _, w := range tt.want {
				assert.ErrorIs(t, got, w)
			}
		})
	}

	assert.NoError(t, classify("op", nil))
	other := classify("op", errors.New("x"))
	assert.False(t, errors.Is(other, domain.ErrNotFound))
	assert.False(t, errors.Is(other, domain.ErrStoreUnavailable))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(errors.New("otro")))
}

func TestCountryFilter(t *testing.T) {
	id := "3f2b1c9e-8d7a-4e6f-9b1a-2c3d4e5f6a7b"
	upper := "  3F2B1C9E-8D7A-4E6F-9B1A-2C3D4E5F6A7B "
	blank := " "
	code := "co"

	arg, ok := countryFilter(nil)
	assert.True(t, ok)
	assert.Nil(t, arg)

	arg, ok = countryFilter(&blank)
	assert.True(t, ok)
	assert.Nil(t, arg)

	arg, ok = countryFilter(&id)
	assert.True(t, ok)
	assert.Equal(t, id, *arg)

	arg, ok = countryFilter(&upper)
	assert.True(t, ok)
	assert.Equal(t, id, *arg)

	_, ok = countryFilter(&code)
	assert.False(t, ok)
}

// failingQuerier falla el test si el repositorio llega a consultar.
type failingQuerier struct{ t *testing.T }

func (f failingQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	f.t.Fatal("Exec inesperado")
	return pgconn.CommandTag{}, nil
}

func (f failingQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	f.t.Fatal("Query inesperado")
	return nil, nil
}

func (f failingQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	f.t.Fatal("QueryRow inesperado")
	return nil
}

func TestList_PaisNoUUIDDevuelveVacio(t *testing.T) {
	ctx := context.Background()
	q := failingQuerier{t: t}
	code := "co"

	opps, err := NewOpportunityRepository(q).List(ctx, repository.OpportunityQuery{CountryID: &code})
	require.NoError(t, err)
	assert.Empty(t, opps)

	forecasts, err := NewForecastRepository(q).List(ctx, repository.ForecastQuery{FromYear: 2025, ToYear: 2026, CountryID: &code})
	require.NoError(t, err)
	assert.Empty(t, forecasts)

	deliveries, err := NewProjectDeliveryRepository(q).List(ctx, repository.DeliveryQuery{CountryID: &code})
	require.NoError(t, err)
	assert.Empty(t, deliveries)
}
