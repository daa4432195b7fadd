package filters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func fixedNow() time.Time     { return time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC) }

func newTestService(store Store) *Service {
	s := NewService(store)
	s.now = fixedNow
	return s
}

func TestService_Get_SinSeleccionDevuelveDefault(t *testing.T) {
	s := newTestService(NewMemoryStore(time.Hour))

	f, err := s.Get(context.Background(), "sesion-1")
	require.NoError(t, err)
	assert.Equal(t, Filter{Month: 3, Year: 2026}, f)
}

func TestService_UpdateYReset(t *testing.T) {
	ctx := context.Background()
	s := newTestService(NewMemoryStore(time.Hour))

	f, err := s.Update(ctx, "sesion-1", dto.UpdateFilterRequest{Month: intPtr(13), CountryID: strPtr("co")})
	require.NoError(t, err)
	assert.Equal(t, 13, f.Month, "no se valida el rango del mes")
	assert.Equal(t, 2026, f.Year)
	require.NotNil(t, f.CountryID)
	assert.Equal(t, "co", *f.CountryID)

	// Otra sesión no ve la selección.
	other, err := s.Get(ctx, "sesion-2")
	require.NoError(t, err)
	assert.Nil(t, other.CountryID)

	f, err = s.Update(ctx, "sesion-1", dto.UpdateFilterRequest{ClearCountry: true, Year: intPtr(2027)})
	require.NoError(t, err)
	assert.Nil(t, f.CountryID)
	assert.Equal(t, 2027, f.Year)
	assert.Equal(t, 13, f.Month)

	require.NoError(t, s.Reset(ctx, "sesion-1"))
	f, err = s.Get(ctx, "sesion-1")
	require.NoError(t, err)
	assert.Equal(t, Default(fixedNow()), f)
}

func TestFilter_Apply_CountryVacioEsTodos(t *testing.T) {
	f := Filter{Month: 1, Year: 2025, CountryID: strPtr("pe")}
	out := f.Apply(dto.UpdateFilterRequest{CountryID: strPtr("")})
	assert.Nil(t, out.CountryID)
	require.NotNil(t, f.CountryID, "Apply no modifica el original")
}

func TestMemoryStore_Expira(t *testing.T) {
	m := NewMemoryStore(time.Minute)
	now := fixedNow()
	m.now = func() time.Time { return now }
	require.NoError(t, m.Save(context.Background(), "s", Filter{Month: 5, Year: 2026}))

	_, found, err := m.Load(context.Background(), "s")
	require.NoError(t, err)
	assert.True(t, found)

	now = now.Add(2 * time.Minute)
	_, found, err = m.Load(context.Background(), "s")
	require.NoError(t, err)
	assert.False(t, found)
}
