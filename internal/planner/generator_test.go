package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nelson200402/Educacion/internal/authstore"
	"github.com/Nelson200402/Educacion/internal/domain/ai"
	"github.com/Nelson200402/Educacion/internal/domain/plans"
	"github.com/Nelson200402/Educacion/internal/domain/sessions"
	"github.com/Nelson200402/Educacion/internal/events"
	"github.com/Nelson200402/Educacion/internal/infra/metrics"
)

type fakeCreator struct {
	mu       sync.Mutex
	got      []sessions.Create
	inFlight atomic.Int32
	peak     atomic.Int32
	failOn   func(sessions.Create) bool
}

func (f *fakeCreator) Create(_ context.Context, in sessions.Create) (*sessions.Session, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(2 * time.Millisecond)

	f.mu.Lock()
	f.got = append(f.got, in)
	id := int64(len(f.got))
	f.mu.Unlock()

	if f.failOn != nil && f.failOn(in) {
		return nil, errors.New("boom")
	}
	return &sessions.Session{ID: id, Date: in.Date, StartTime: in.StartTime, PlanID: in.PlanID}, nil
}

type fakeAI struct {
	question string
	calReq   ai.CalendarRequest
	calRes   *ai.CalendarResponse
	err      error
}

func (f *fakeAI) Recommend(_ context.Context, profileID int64, q string) (*ai.Recommendation, error) {
	f.question = q
	if f.err != nil {
		return nil, f.err
	}
	return &ai.Recommendation{UsuarioID: profileID, Question: q, Text: "  Empieza por Algebra. "}, nil
}

func (f *fakeAI) GenerateCalendar(_ context.Context, in ai.CalendarRequest) (*ai.CalendarResponse, error) {
	f.calReq = in
	if f.err != nil {
		return nil, f.err
	}
	return f.calRes, nil
}

type fakePlans struct{ got plans.Plan }

func (f *fakePlans) Create(_ context.Context, p plans.Plan) (*plans.Plan, error) {
	f.got = p
	p.ID = 77
	return &p, nil
}

func payloads(n int) []sessions.Create {
	out := make([]sessions.Create, n)
	for i := range out {
		out[i] = sessions.Create{Date: "2025-12-15", StartTime: fmt.Sprintf("%02d:00", i%24)}
	}
	return out
}

func TestCreateAllBatches(t *testing.T) {
	c := &fakeCreator{}
	results := CreateAll(context.Background(), c, payloads(25), 10)

	require.Len(t, results, 25)
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.True(t, r.OK())
		assert.NotNil(t, r.Session)
	}
	assert.LessOrEqual(t, c.peak.Load(), int32(10))
	assert.Len(t, c.got, 25)
}

func TestCreateAllPerItemFailures(t *testing.T) {
	c := &fakeCreator{failOn: func(in sessions.Create) bool { return in.StartTime == "03:00" || in.StartTime == "07:00" }}
	results := CreateAll(context.Background(), c, payloads(12), 5)

	sum := Summarize(results)
	assert.Equal(t, 12, sum.Total)
	assert.Equal(t, 10, sum.Created)
	assert.Equal(t, 2, sum.Failed)
	require.Error(t, sum.Err)
	assert.Contains(t, sum.Err.Error(), "2025-12-15 03:00")
	assert.False(t, results[3].OK())
	assert.False(t, results[7].OK())
	assert.Len(t, Created(results), 10)
}

func TestCreateAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &fakeCreator{}
	results := CreateAll(ctx, c, payloads(3), 10)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
	assert.Empty(t, c.got)
}

// cancelingCreator cancels the run while the first batch is in flight.
type cancelingCreator struct {
	cancel context.CancelFunc
	calls  atomic.Int32
}

func (c *cancelingCreator) Create(ctx context.Context, in sessions.Create) (*sessions.Session, error) {
	if c.calls.Add(1) == 2 {
		c.cancel()
		return nil, ctx.Err()
	}
	return &sessions.Session{ID: 1, Date: in.Date, StartTime: in.StartTime}, nil
}

func TestCreateAllStopsAfterCancelMidRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := &cancelingCreator{cancel: cancel}

	results := CreateAll(ctx, c, payloads(7), 3)

	assert.Equal(t, int32(3), c.calls.Load())
	for _, r := range results[3:] {
		assert.ErrorIs(t, r.Err, context.Canceled)
		assert.Nil(t, r.Session)
	}
	sum := Summarize(results)
	assert.Equal(t, 2, sum.Created)
	assert.Equal(t, 5, sum.Failed)
}

func newGenerator(c *fakeCreator, a *fakeAI, p *fakePlans, bus *events.Bus, m *metrics.Metrics) *Generator {
	g := NewGenerator(Deps{Sessions: c, AI: a, Calendar: a, Plans: p, Bus: bus, Metrics: m}, Options{}, time.UTC)
	g.now = func() time.Time { return today }
	return g
}

func TestGeneratorRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	bus := events.NewBus(m)
	ch, unsub := bus.Subscribe(4)
	defer unsub()

	c := &fakeCreator{failOn: func(in sessions.Create) bool { return in.Date == "2025-12-18" && in.StartTime == "09:15" }}
	a := &fakeAI{}
	g := newGenerator(c, a, &fakePlans{}, bus, m)

	out, err := g.Run(context.Background(), 42, mathRequest())
	require.NoError(t, err)

	assert.Equal(t, "Empieza por Algebra.", out.Recommendation)
	assert.Contains(t, a.question, "Materia: Math")
	assert.Equal(t, 7, out.Summary.Created)
	assert.Equal(t, 1, out.Summary.Failed)
	assert.Len(t, out.Results, 8)

	select {
	case e := <-ch:
		assert.Equal(t, events.SessionChanged, e.Kind)
		assert.Equal(t, int64(42), e.ChatID)
	default:
		t.Fatal("expected a session change event")
	}

	expected := `
# HELP planner_sessions_created_total Study sessions created by the calendar generator.
# TYPE planner_sessions_created_total counter
planner_sessions_created_total{result="error"} 1
planner_sessions_created_total{result="ok"} 7
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "planner_sessions_created_total"))
}

func TestGeneratorRunStopsBeforeCreating(t *testing.T) {
	t.Run("no profile", func(t *testing.T) {
		c := &fakeCreator{}
		req := mathRequest()
		req.ProfileID = 0
		_, err := newGenerator(c, &fakeAI{}, &fakePlans{}, nil, nil).Run(context.Background(), 1, req)
		assert.ErrorIs(t, err, authstore.ErrNoProfile)
		assert.Empty(t, c.got)
	})
	t.Run("past target", func(t *testing.T) {
		c := &fakeCreator{}
		a := &fakeAI{}
		req := mathRequest()
		req.TargetDate = "2025-01-01"
		_, err := newGenerator(c, a, &fakePlans{}, nil, nil).Run(context.Background(), 1, req)
		assert.ErrorIs(t, err, ErrTargetInPast)
		assert.Empty(t, a.question)
		assert.Empty(t, c.got)
	})
	t.Run("assistant fails", func(t *testing.T) {
		c := &fakeCreator{}
		_, err := newGenerator(c, &fakeAI{err: errors.New("down")}, &fakePlans{}, nil, nil).Run(context.Background(), 1, mathRequest())
		assert.Error(t, err)
		assert.Empty(t, c.got)
	})
}

func TestGeneratorRunRemote(t *testing.T) {
	bus := events.NewBus(nil)
	ch, unsub := bus.Subscribe(1)
	defer unsub()

	c := &fakeCreator{}
	p := &fakePlans{}
	a := &fakeAI{calRes: &ai.CalendarResponse{
		Plan: ai.GeneratedPlan{Name: "Plan Math", Content: "Repasa a diario", Source: "ia"},
		Sessions: []ai.GeneratedSession{
			{Date: "2025-12-16", StartTime: "08:00:00", Duration: 45, Name: "Estudio: Math", Description: "Tema: Algebra"},
			{Date: "2025-12-17", StartTime: "08:00:00", Duration: 45, Name: "Estudio: Math", Description: "Tema: Calculus", MateriaID: 5},
		},
	}}
	g := newGenerator(c, a, p, bus, nil)

	out, err := g.RunRemote(context.Background(), 7, mathRequest())
	require.NoError(t, err)

	assert.Equal(t, "Algebra, Calculus", a.calReq.Topics)
	assert.Equal(t, "Mañana", a.calReq.Preference)
	assert.Equal(t, int64(9), p.got.UsuarioID)
	assert.True(t, p.got.Active)
	assert.Equal(t, int64(77), out.PlanID)
	assert.Equal(t, 2, out.Summary.Created)

	require.Len(t, c.got, 2)
	for _, in := range c.got {
		require.NotNil(t, in.PlanID)
		assert.Equal(t, int64(77), *in.PlanID)
		assert.Equal(t, "08:00", in.StartTime)
	}
	subjects := map[int64]bool{}
	for _, in := range c.got {
		subjects[in.MateriaID] = true
	}
	assert.Equal(t, map[int64]bool{3: true, 5: true}, subjects)

	e := <-ch
	assert.Equal(t, events.SessionChanged, e.Kind)
}
