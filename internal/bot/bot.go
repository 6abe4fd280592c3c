package bot

import (
	"context"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Nelson200402/Educacion/internal/authstore"
	"github.com/Nelson200402/Educacion/internal/calendar"
	"github.com/Nelson200402/Educacion/internal/dialog"
	"github.com/Nelson200402/Educacion/internal/domain/ai"
	"github.com/Nelson200402/Educacion/internal/domain/auth"
	"github.com/Nelson200402/Educacion/internal/domain/plans"
	"github.com/Nelson200402/Educacion/internal/domain/profiles"
	"github.com/Nelson200402/Educacion/internal/domain/sessions"
	"github.com/Nelson200402/Educacion/internal/domain/subjects"
	"github.com/Nelson200402/Educacion/internal/events"
	"github.com/Nelson200402/Educacion/internal/planner"
)

const eventBuffer = 64

// Deps are the collaborators the screens talk to.
type Deps struct {
	States    dialog.Store
	Auth      *authstore.Store
	AuthAPI   *auth.Repo
	Subjects  *subjects.Repo
	Sessions  *sessions.Repo
	Plans     *plans.Repo
	Profiles  *profiles.Repo
	AI        *ai.Repo
	Generator *planner.Generator
	Bus       *events.Bus
	Location  *time.Location
}

type Bot struct {
	api       *tgbotapi.BotAPI
	log       *slog.Logger
	states    dialog.Store
	auth      *authstore.Store
	authAPI   *auth.Repo
	subjects  *subjects.Repo
	sessions  *sessions.Repo
	plans     *plans.Repo
	profiles  *profiles.Repo
	ai        *ai.Repo
	generator *planner.Generator
	bus       *events.Bus
	views     *calendar.Views
	queue     *chatQueue
	pwd       passwordPad
	loc       *time.Location
	now       func() time.Time
}

func New(api *tgbotapi.BotAPI, log *slog.Logger, d Deps) *Bot {
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Bot{
		api: api, log: log, states: d.States,
		auth: d.Auth, authAPI: d.AuthAPI,
		subjects: d.Subjects, sessions: d.Sessions, plans: d.Plans,
		profiles: d.Profiles, ai: d.AI, generator: d.Generator,
		bus: d.Bus, views: calendar.NewViews(), queue: newChatQueue(),
		loc: loc, now: time.Now,
	}
}

// Run polls Telegram and reacts to bus events until ctx is done. Work for one chat
// runs in order on that chat's queue, so a slow backend call only holds up its own
// chat. Run returns after the queued work has finished.
func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	evs, unsubscribe := b.bus.Subscribe(eventBuffer)
	defer unsubscribe()
	defer b.queue.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			b.dispatch(ctx, upd)
		case e, ok := <-evs:
			if !ok {
				return nil
			}
			b.queue.Do(e.ChatID, func() { b.onEvent(ctx, e) })
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.Message != nil:
		b.queue.Do(upd.Message.Chat.ID, func() { b.onMessage(ctx, upd) })
	case upd.CallbackQuery != nil && upd.CallbackQuery.Message != nil:
		b.queue.Do(upd.CallbackQuery.Message.Chat.ID, func() { b.onCallback(ctx, upd) })
	case upd.CallbackQuery != nil:
		b.answerCallback(upd.CallbackQuery, "", false)
	}
}

func (b *Bot) onMessage(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.handleStateMessage(ctx, msg)
}

func (b *Bot) onCallback(ctx context.Context, upd tgbotapi.Update) {
	b.handleCallback(ctx, upd.CallbackQuery)
}

func (b *Bot) onEvent(ctx context.Context, e events.Event) {
	switch e.Kind {
	case events.SessionChanged:
		b.views.Drop(e.ChatID)
		st, err := b.states.Get(ctx, e.ChatID)
		if err != nil || st.State != dialog.StateCalendar {
			return
		}
		mid, ok := dialog.GetInt64(st.Payload, "last_mid")
		if !ok {
			return
		}
		date, _ := dialog.GetString(st.Payload, "date")
		m := int(mid)
		b.showCalendar(ctx, e.ChatID, date, &m)

	case events.AuthChanged:
		st, err := b.auth.Load(ctx, e.ChatID)
		if err != nil {
			b.log.Error("load auth state", "chat_id", e.ChatID, "err", err)
			return
		}
		if st.SignedIn() {
			return
		}
		b.views.Drop(e.ChatID)
		// a login form started right after signing out survives
		if d, err := b.states.Get(ctx, e.ChatID); err == nil && !isAuthState(d.State) {
			_ = b.states.Reset(ctx, e.ChatID)
		}
	}
}

func (b *Bot) today() string {
	return calendar.Today(b.now(), b.loc)
}

func (b *Bot) publishSessionChanged(chatID, sessionID int64) {
	b.bus.Publish(events.Event{Kind: events.SessionChanged, ChatID: chatID, SessionID: sessionID})
}

func isAuthState(s dialog.State) bool {
	switch s {
	case dialog.StateLoginUser, dialog.StateLoginPass,
		dialog.StateRegUser, dialog.StateRegEmail, dialog.StateRegPass:
		return true
	}
	return false
}
