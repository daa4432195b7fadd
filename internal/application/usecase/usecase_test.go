package usecase

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
	"github.com/jhoicas/crm-pipeline-api/internal/application/events"
	"github.com/jhoicas/crm-pipeline-api/internal/application/filters"
	"github.com/jhoicas/crm-pipeline-api/internal/application/pipeline"
	"github.com/jhoicas/crm-pipeline-api/internal/domain"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/repository"
	"github.com/jhoicas/crm-pipeline-api/pkg/logger"
)

type memOppRepo struct {
	mu   sync.Mutex
	rows map[string]*entity.Opportunity
}

func newMemOppRepo() *memOppRepo { return &memOppRepo{rows: map[string]*entity.Opportunity{}} }

func (r *memOppRepo) List(_ context.Context, q repository.OpportunityQuery) ([]*entity.Opportunity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Opportunity
	for _, o := range r.rows {
		if q.CountryID != nil && (o.CountryID == nil || *o.CountryID != *q.CountryID) {
			continue
		}
		c := *o
		out = append(out, &c)
	}
	return out, nil
}

func (r *memOppRepo) GetByID(_ context.Context, id string) (*entity.Opportunity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *o
	return &c, nil
}

func (r *memOppRepo) Create(_ context.Context, o *entity.Opportunity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.rows {
		if x.Code == o.Code {
			return domain.ErrDuplicate
		}
	}
	c := *o
	r.rows[o.ID] = &c
	return nil
}

func (r *memOppRepo) Update(_ context.Context, o *entity.Opportunity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[o.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *o
	r.rows[o.ID] = &c
	return nil
}

func (r *memOppRepo) UpdateStage(ctx context.Context, id string, s entity.Stage) (*entity.Opportunity, error) {
	o, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Stage = s
	return o, r.Update(ctx, o)
}

func (r *memOppRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

type memHistory struct{ changes []*entity.StageChange }

func (h *memHistory) Append(_ context.Context, c *entity.StageChange) error {
	h.changes = append(h.changes, c)
	return nil
}

func (h *memHistory) ListByOpportunity(_ context.Context, id string) ([]*entity.StageChange, error) {
	var out []*entity.StageChange
	for _, c := range h.changes {
		if c.OpportunityID == id {
			out = append(out, c)
		}
	}
	return out, nil
}

type memTx struct {
	opps    *memOppRepo
	history *memHistory
	calls   int
}

func (t *memTx) RunStageChange(_ context.Context, fn func(repository.OpportunityRepository, repository.StageHistoryRepository) error) error {
	t.calls++
	return fn(t.opps, t.history)
}

type memForecastRepo struct{ rows map[string]*entity.Forecast }

func (r *memForecastRepo) List(context.Context, repository.ForecastQuery) ([]*entity.Forecast, error) {
	return nil, nil
}

func (r *memForecastRepo) GetByID(_ context.Context, id string) (*entity.Forecast, error) {
	f, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return f, nil
}

func (r *memForecastRepo) Create(_ context.Context, f *entity.Forecast) error {
	r.rows[f.ID] = f
	return nil
}

func (r *memForecastRepo) Update(_ context.Context, f *entity.Forecast) error {
	r.rows[f.ID] = f
	return nil
}

type memDeliveryRepo struct{ rows map[string]*entity.ProjectDelivery }

func (r *memDeliveryRepo) List(context.Context, repository.DeliveryQuery) ([]*entity.ProjectDelivery, error) {
	return nil, nil
}

func (r *memDeliveryRepo) GetByID(_ context.Context, id string) (*entity.ProjectDelivery, error) {
	d, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (r *memDeliveryRepo) Create(_ context.Context, d *entity.ProjectDelivery) error {
	r.rows[d.ID] = d
	return nil
}

func (r *memDeliveryRepo) Update(_ context.Context, d *entity.ProjectDelivery) error {
	r.rows[d.ID] = d
	return nil
}

type capturePublisher struct {
	events []events.Event
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, ev events.Event) error {
	p.events = append(p.events, ev)
	return p.err
}

type opportunityFixture struct {
	uc    *OpportunityUseCase
	repo  *memOppRepo
	hist  *memHistory
	tx    *memTx
	pub   *capturePublisher
	guard *pipeline.LocalGuard
	logs  *bytes.Buffer
}

func newFixture() opportunityFixture {
	f := opportunityFixture{
		repo:  newMemOppRepo(),
		hist:  &memHistory{},
		pub:   &capturePublisher{},
		guard: pipeline.NewLocalGuard(),
		logs:  &bytes.Buffer{},
	}
	f.tx = &memTx{opps: f.repo, history: f.hist}
	log := logger.New(logger.Config{Env: "production", Level: "warn", Output: f.logs})
	f.uc = NewOpportunityUseCase(f.repo, f.hist, f.tx, f.guard, f.pub, log)
	return f
}

func newOpportunityFixture() (*OpportunityUseCase, *memOppRepo, *memHistory, *memTx, *capturePublisher) {
	f := newFixture()
	return f.uc, f.repo, f.hist, f.tx, f.pub
}

func validCreate() dto.CreateOpportunityRequest {
	p := 40
	return dto.CreateOpportunityRequest{
		Code:         "OPP-001",
		CustomerName: "Acme Telecom",
		DealValue:    decimal.NewFromInt(100000),
		Probability:  &p,
		BusinessArea: string(entity.AreaNOC),
	}
}

func TestOpportunityUseCase_Create(t *testing.T) {
	uc, repo, _, _, pub := newOpportunityFixture()

	out, err := uc.Create(context.Background(), "user-1", validCreate())
	require.NoError(t, err)
	assert.Equal(t, "Prospect", out.Stage)
	assert.True(t, out.WeightedValue.Equal(decimal.NewFromInt(40000)))
	assert.Len(t, repo.rows, 1)
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.OpportunityCreated, pub.events[0].Type)

	_, err = uc.Create(context.Background(), "user-1", validCreate())
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestOpportunityUseCase_CreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.CreateOpportunityRequest)
	}{
		{"etapa desconocida", func(r *dto.CreateOpportunityRequest) { r.Stage = "Closed" }},
		{"probabilidad fuera de rango", func(r *dto.CreateOpportunityRequest) { p := 150; r.Probability = &p }},
		{"valor negativo", func(r *dto.CreateOpportunityRequest) { r.DealValue = decimal.NewFromInt(-1) }},
		{"área desconocida", func(r *dto.CreateOpportunityRequest) { r.BusinessArea = "Retail" }},
		{"fecha inválida", func(r *dto.CreateOpportunityRequest) { d := "31/12/2026"; r.ExpectedClosureDate = &d }},
		{"sin cliente", func(r *dto.CreateOpportunityRequest) { r.CustomerName = "  " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo, _, _, _ := newOpportunityFixture()
			in := validCreate()
			tt.mutate(&in)
			_, err := uc.Create(context.Background(), "user-1", in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, repo.rows)
		})
	}
}

func TestOpportunityUseCase_UpdateStageRecordsHistory(t *testing.T) {
	uc, _, hist, tx, pub := newOpportunityFixture()
	ctx := context.Background()
	created, err := uc.Create(ctx, "user-1", validCreate())
	require.NoError(t, err)

	won := "Won"
	out, err := uc.Update(ctx, "user-2", created.ID, dto.UpdateOpportunityRequest{Stage: &won})
	require.NoError(t, err)
	assert.Equal(t, "Won", out.Stage)
	assert.Equal(t, 1, tx.calls)
	require.Len(t, hist.changes, 1)
	assert.Equal(t, entity.StageProspect, hist.changes[0].FromStage)
	assert.Equal(t, entity.StageWon, hist.changes[0].ToStage)
	assert.Equal(t, events.OpportunityStageChanged, pub.events[len(pub.events)-1].Type)

	history, err := uc.History(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestOpportunityUseCase_UpdateWithoutStageChangeSkipsTx(t *testing.T) {
	uc, _, hist, tx, _ := newOpportunityFixture()
	ctx := context.Background()
	created, err := uc.Create(ctx, "user-1", validCreate())
	require.NoError(t, err)

	notes := "llamar el lunes"
	prospect := "Prospect"
	out, err := uc.Update(ctx, "user-1", created.ID, dto.UpdateOpportunityRequest{Notes: &notes, Stage: &prospect})
	require.NoError(t, err)
	assert.Equal(t, notes, out.Notes)
	assert.Zero(t, tx.calls)
	assert.Empty(t, hist.changes)
}

func TestOpportunityUseCase_UpdateStageWhileDragInFlight(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.uc.Create(ctx, "user-1", validCreate())
	require.NoError(t, err)

	release, err := f.guard.Acquire(ctx, created.ID)
	require.NoError(t, err)

	lost := "Lost"
	_, err = f.uc.Update(ctx, "user-2", created.ID, dto.UpdateOpportunityRequest{Stage: &lost})
	assert.ErrorIs(t, err, domain.ErrInFlight)
	assert.Equal(t, entity.StageProspect, f.repo.rows[created.ID].Stage)
	assert.Empty(t, f.hist.changes)
	assert.Zero(t, f.tx.calls)

	// Sin etapa en el parche no compite con el arrastre.
	notes := "sigue en curso"
	_, err = f.uc.Update(ctx, "user-2", created.ID, dto.UpdateOpportunityRequest{Notes: &notes})
	require.NoError(t, err)

	release()
	out, err := f.uc.Update(ctx, "user-2", created.ID, dto.UpdateOpportunityRequest{Stage: &lost})
	require.NoError(t, err)
	assert.Equal(t, "Lost", out.Stage)
	require.Len(t, f.hist.changes, 1)

	// El token se libera al terminar el PATCH.
	again, err := f.guard.Acquire(ctx, created.ID)
	require.NoError(t, err)
	again()
}

func TestOpportunityUseCase_PublishFailureIsLogged(t *testing.T) {
	f := newFixture()
	f.pub.err = errors.New("bus caído")

	out, err := f.uc.Create(context.Background(), "user-1", validCreate())
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.Contains(t, f.logs.String(), "bus caído")
	assert.Contains(t, f.logs.String(), events.OpportunityCreated)
}

func TestForecastAndDelivery_PublishFailureIsLogged(t *testing.T) {
	var logs bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Output: &logs})
	pub := &capturePublisher{err: errors.New("redis sin conexión")}

	fc := NewForecastUseCase(&memForecastRepo{rows: map[string]*entity.Forecast{}}, pub, log)
	_, err := fc.Create(context.Background(), "user-1", dto.CreateForecastRequest{
		CountryID:    "c",
		BusinessArea: string(entity.AreaFLM),
		Year:         2026,
	})
	require.NoError(t, err)
	assert.Contains(t, logs.String(), events.ForecastChanged)

	dl := NewDeliveryUseCase(&memDeliveryRepo{rows: map[string]*entity.ProjectDelivery{}}, pub, log)
	_, err = dl.Create(context.Background(), "user-1", dto.CreateDeliveryRequest{CountryID: "c", Year: 2026, Month: 3})
	require.NoError(t, err)
	assert.Contains(t, logs.String(), events.DeliveryChanged)
	assert.Len(t, pub.events, 2)
}

func TestOpportunityUseCase_NotFound(t *testing.T) {
	uc, _, _, _, _ := newOpportunityFixture()
	ctx := context.Background()

	_, err := uc.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Update(ctx, "u", "missing", dto.UpdateOpportunityRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, "u", "missing"), domain.ErrNotFound)
	_, err = uc.History(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOpportunityUseCase_ListFiltersByCountry(t *testing.T) {
	uc, _, _, _, _ := newOpportunityFixture()
	ctx := context.Background()
	co := "co"
	in := validCreate()
	in.CountryID = &co
	_, err := uc.Create(ctx, "u", in)
	require.NoError(t, err)
	in2 := validCreate()
	in2.Code = "OPP-002"
	_, err = uc.Create(ctx, "u", in2)
	require.NoError(t, err)

	all, err := uc.List(ctx, filters.Filter{Month: 1, Year: 2026})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)

	only, err := uc.List(ctx, filters.Filter{Month: 1, Year: 2026, CountryID: &co})
	require.NoError(t, err)
	assert.Equal(t, 1, only.Total)
}

func TestValidateForecast(t *testing.T) {
	q5 := 5
	base := func() *entity.Forecast {
		return &entity.Forecast{CountryID: "c", BusinessArea: entity.AreaFLM, Year: 2026}
	}
	assert.NoError(t, validateForecast(base()))

	f := base()
	f.Quarter = &q5
	assert.ErrorIs(t, validateForecast(f), domain.ErrInvalidInput)

	f = base()
	f.BusinessArea = "Retail"
	assert.ErrorIs(t, validateForecast(f), domain.ErrInvalidInput)

	f = base()
	f.ExpectedRevenue = decimal.NewFromInt(-10)
	assert.ErrorIs(t, validateForecast(f), domain.ErrInvalidInput)
}

func TestSetHealth(t *testing.T) {
	d := &entity.ProjectDelivery{}
	amber := "Amber"
	require.NoError(t, setHealth(d, &amber))
	assert.Equal(t, entity.HealthAmber, d.Health())

	empty := ""
	require.NoError(t, setHealth(d, &empty))
	assert.Equal(t, entity.HealthGreen, d.Health())

	bad := "Blue"
	assert.ErrorIs(t, setHealth(d, &bad), domain.ErrInvalidInput)
}

func TestValidateDelivery(t *testing.T) {
	d := &entity.ProjectDelivery{CountryID: "c", Year: 2026, Month: 3}
	assert.NoError(t, validateDelivery(d))
	d.Month = 13
	assert.ErrorIs(t, validateDelivery(d), domain.ErrInvalidInput)
	d.Month = 3
	d.ActualTeams = -1
	assert.ErrorIs(t, validateDelivery(d), domain.ErrInvalidInput)
}
