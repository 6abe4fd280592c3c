package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Nelson200402/Educacion/internal/authstore"
	"github.com/Nelson200402/Educacion/internal/domain/ai"
	"github.com/Nelson200402/Educacion/internal/domain/plans"
	"github.com/Nelson200402/Educacion/internal/domain/sessions"
	"github.com/Nelson200402/Educacion/internal/events"
	"github.com/Nelson200402/Educacion/internal/infra/metrics"
)

type Recommender interface {
	Recommend(ctx context.Context, profileID int64, question string) (*ai.Recommendation, error)
}

type RemoteCalendar interface {
	GenerateCalendar(ctx context.Context, in ai.CalendarRequest) (*ai.CalendarResponse, error)
}

type PlanCreator interface {
	Create(ctx context.Context, p plans.Plan) (*plans.Plan, error)
}

type Deps struct {
	Sessions Creator
	AI       Recommender
	Calendar RemoteCalendar
	Plans    PlanCreator
	Bus      *events.Bus
	Metrics  *metrics.Metrics
	Log      *slog.Logger
}

// Outcome is what the generator screen shows after a run.
type Outcome struct {
	Recommendation string
	PlanID         int64
	Results        []Result
	Summary        Summary
}

type Generator struct {
	deps Deps
	opts Options
	loc  *time.Location
	now  func() time.Time
}

func NewGenerator(deps Deps, opts Options, loc *time.Location) *Generator {
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Generator{deps: deps, opts: opts.withDefaults(), loc: loc, now: time.Now}
}

func (g *Generator) today() time.Time { return g.now().In(g.loc) }

// Run builds the plan locally, asks the assistant for a recommendation and creates
// every session. The token must already be on ctx.
func (g *Generator) Run(ctx context.Context, chatID int64, req Request) (*Outcome, error) {
	if req.ProfileID == 0 {
		return nil, authstore.ErrNoProfile
	}
	payloads, err := Build(req, g.today(), g.opts)
	if err != nil {
		return nil, err
	}

	rec, err := g.deps.AI.Recommend(ctx, req.ProfileID, Question(req))
	if err != nil {
		return nil, fmt.Errorf("recommendation: %w", err)
	}

	out := &Outcome{Recommendation: strings.TrimSpace(rec.Text)}
	out.Results = CreateAll(ctx, g.deps.Sessions, payloads, g.opts.BatchSize)
	out.Summary = Summarize(out.Results)
	g.finish(chatID, out)
	return out, nil
}

// RunRemote asks the backend generator for a plan, stores that plan and creates the
// returned sessions linked to it.
func (g *Generator) RunRemote(ctx context.Context, chatID int64, req Request) (*Outcome, error) {
	if req.ProfileID == 0 {
		return nil, authstore.ErrNoProfile
	}
	req = normalize(req)
	if _, err := Validate(req, g.today()); err != nil {
		return nil, err
	}

	res, err := g.deps.Calendar.GenerateCalendar(ctx, ai.CalendarRequest{
		MateriaID:   req.SubjectID,
		Topics:      strings.Join(SplitTopics(req.Topics), ", "),
		TargetDate:  req.TargetDate,
		HoursPerDay: req.HoursPerDay,
		Preference:  string(req.Preference),
	})
	if err != nil {
		return nil, fmt.Errorf("generate calendar: %w", err)
	}
	if len(res.Sessions) == 0 {
		return nil, errors.New("planner: backend returned no sessions")
	}

	name := res.Plan.Name
	if strings.TrimSpace(name) == "" {
		name = "Plan: " + req.SubjectName
	}
	plan, err := g.deps.Plans.Create(ctx, plans.Plan{
		UsuarioID: req.ProfileID,
		Name:      name,
		Content:   res.Plan.Content,
		Source:    res.Plan.Source,
		Active:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("save plan: %w", err)
	}

	payloads := make([]sessions.Create, 0, len(res.Sessions))
	for _, s := range res.Sessions {
		subject := s.MateriaID
		if subject == 0 {
			subject = req.SubjectID
		}
		payloads = append(payloads, sessions.Create{
			UsuarioID:   req.ProfileID,
			MateriaID:   subject,
			PlanID:      &plan.ID,
			Name:        s.Name,
			Description: s.Description,
			Duration:    s.Duration,
			Date:        s.Date,
			StartTime:   sessions.NormalizeTime(s.StartTime),
		})
	}

	out := &Outcome{Recommendation: strings.TrimSpace(res.Plan.Content), PlanID: plan.ID}
	out.Results = CreateAll(ctx, g.deps.Sessions, payloads, g.opts.BatchSize)
	out.Summary = Summarize(out.Results)
	g.finish(chatID, out)
	return out, nil
}

func (g *Generator) finish(chatID int64, out *Outcome) {
	g.deps.Metrics.SessionsCreated(out.Summary.Created, out.Summary.Failed)
	if out.Summary.Created > 0 && g.deps.Bus != nil {
		g.deps.Bus.Publish(events.Event{Kind: events.SessionChanged, ChatID: chatID})
	}
	log := g.deps.Log.With("chat_id", chatID, "created", out.Summary.Created, "failed", out.Summary.Failed)
	if out.Summary.Err != nil {
		log.Warn("sessions partially created", "err", out.Summary.Err)
		return
	}
	log.Info("sessions created", "plan_id", out.PlanID)
}
