package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Nelson200402/Educacion/internal/calendar"
	"github.com/Nelson200402/Educacion/internal/dialog"
	"github.com/Nelson200402/Educacion/internal/domain/sessions"
	"github.com/Nelson200402/Educacion/internal/domain/subjects"
	"github.com/Nelson200402/Educacion/internal/export"
)

// renderFirst redraws the screen with the optimistic value before the request goes out.
type renderFirst struct {
	render func()
	next   calendar.DoneSetter
}

func (r renderFirst) SetDone(ctx context.Context, id int64, done bool) error {
	r.render()
	return r.next.SetDone(ctx, id, done)
}

// toggleRendered flips the session in v, drawing the optimistic value before remote is
// called and drawing again after a rollback.
func toggleRendered(ctx context.Context, v *calendar.View, id int64, remote calendar.DoneSetter, render func()) (bool, error) {
	done, err := v.Toggle(ctx, id, renderFirst{render: render, next: remote})
	if err != nil && !errors.Is(err, calendar.ErrSessionNotFound) {
		render()
	}
	return done, err
}

func (b *Bot) openCalendar(ctx context.Context, chatID int64) {
	b.clearPrevStep(ctx, chatID)
	date := b.today()
	if mid := b.showCalendar(ctx, chatID, date, nil); mid != 0 {
		b.saveLastStep(ctx, chatID, dialog.StateCalendar, dialog.Payload{"date": date}, mid)
	}
}

// loadView returns the chat's sessions, fetching them when not loaded yet.
func (b *Bot) loadView(ctx context.Context, chatID int64) (*calendar.View, context.Context, error) {
	profileID, actx, err := b.profile(ctx, chatID)
	if err != nil {
		return nil, ctx, err
	}
	v := b.views.For(chatID)
	if v.Loaded() {
		return v, actx, nil
	}
	items, err := b.sessions.List(actx)
	if err != nil {
		return nil, actx, err
	}
	v.Replace(sessions.OwnedBy(items, profileID))
	return v, actx, nil
}

// subjectNames is best effort: the calendar still renders when subjects fail to load.
func (b *Bot) subjectNames(ctx context.Context) map[int64]subjects.Subject {
	items, err := b.subjects.List(ctx)
	if err != nil {
		b.log.Warn("load subjects", "err", err)
		return nil
	}
	return subjects.ByID(items)
}

func (b *Bot) showCalendar(ctx context.Context, chatID int64, date string, editMsgID *int) int {
	if date == "" {
		date = b.today()
	}
	v, actx, err := b.loadView(ctx, chatID)
	if err != nil {
		b.fail(ctx, chatID, err)
		return 0
	}
	entries := v.Day(date)
	text := formatDay(date, entries, b.subjectNames(actx))
	return b.screen(chatID, editMsgID, text, dayKeyboard(date, entries, b.today()))
}

func (b *Bot) showSessionDetail(ctx context.Context, chatID int64, mid int, id int64) {
	v, actx, err := b.loadView(ctx, chatID)
	if err != nil {
		b.fail(ctx, chatID, err)
		return
	}
	s, ok := v.Get(id)
	if !ok {
		b.fail(ctx, chatID, calendar.ErrSessionNotFound)
		return
	}
	b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, formatSession(s, b.subjectNames(actx)), sessionKeyboard(id, s.Done)))
}

func (b *Bot) handleCalendarCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, action, arg string) {
	chatID := cb.Message.Chat.ID
	mid := cb.Message.MessageID
	st, _ := b.states.Get(ctx, chatID)
	date, _ := dialog.GetString(st.Payload, "date")

	switch action {
	case "day":
		if _, err := time.Parse(calendar.DateLayout, arg); err != nil {
			b.answerCallback(cb, "", false)
			return
		}
		b.showCalendar(ctx, chatID, arg, &mid)
		b.saveLastStep(ctx, chatID, dialog.StateCalendar, dialog.Payload{"date": arg}, mid)
		b.answerCallback(cb, "", false)

	case "reload", "back":
		if action == "reload" {
			b.views.Drop(chatID)
		}
		b.showCalendar(ctx, chatID, date, &mid)
		b.saveLastStep(ctx, chatID, dialog.StateCalendar, dialog.Payload{"date": date}, mid)
		b.answerCallback(cb, "", false)

	case "open":
		if id, ok := parseID(arg); ok {
			b.showSessionDetail(ctx, chatID, mid, id)
		}
		b.answerCallback(cb, "", false)

	case "tg", "tgd":
		id, ok := parseID(arg)
		if !ok {
			b.answerCallback(cb, "", false)
			return
		}
		b.toggleSession(ctx, cb, id, date, action == "tgd")

	case "del":
		id, ok := parseID(arg)
		if !ok {
			b.answerCallback(cb, "", false)
			return
		}
		kb := confirmDeleteKeyboard(fmt.Sprintf("cal:delok:%d", id), fmt.Sprintf("cal:open:%d", id))
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, "¿Eliminar esta sesión?", kb))
		b.answerCallback(cb, "", false)

	case "delok":
		id, ok := parseID(arg)
		if !ok {
			b.answerCallback(cb, "", false)
			return
		}
		_, actx, err := b.session(ctx, chatID)
		if err == nil {
			err = b.sessions.Delete(actx, id)
		}
		if err != nil {
			b.fail(ctx, chatID, err)
			b.answerCallback(cb, "", false)
			return
		}
		b.views.For(chatID).Remove(id)
		// the calendar message is redrawn by the SessionChanged handler
		b.saveLastStep(ctx, chatID, dialog.StateCalendar, dialog.Payload{"date": date}, mid)
		b.publishSessionChanged(chatID, id)
		b.answerCallback(cb, "Sesión eliminada", false)

	case "xlsx":
		b.exportCalendar(ctx, chatID)
		b.answerCallback(cb, "", false)

	default:
		b.answerCallback(cb, "", false)
	}
}

// toggleSession flips the done flag on screen first and rolls it back when the
// backend rejects the change.
func (b *Bot) toggleSession(ctx context.Context, cb *tgbotapi.CallbackQuery, id int64, date string, detail bool) {
	chatID := cb.Message.Chat.ID
	mid := cb.Message.MessageID

	v, actx, err := b.loadView(ctx, chatID)
	if err != nil {
		b.fail(ctx, chatID, err)
		b.answerCallback(cb, "", false)
		return
	}
	names := b.subjectNames(actx)
	render := func() {
		if detail {
			if s, ok := v.Get(id); ok {
				b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, formatSession(s, names), sessionKeyboard(id, s.Done)))
			}
			return
		}
		entries := v.Day(date)
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, formatDay(date, entries, names), dayKeyboard(date, entries, b.today())))
	}

	done, err := toggleRendered(actx, v, id, b.sessions, render)
	if err != nil {
		b.answerCallback(cb, userMessage(err), true)
		return
	}
	label := "Marcada como pendiente"
	if done {
		label = "¡Sesión completada! ✅"
	}
	b.answerCallback(cb, label, false)
}

func (b *Bot) exportCalendar(ctx context.Context, chatID int64) {
	v, actx, err := b.loadView(ctx, chatID)
	if err != nil {
		b.fail(ctx, chatID, err)
		return
	}
	items := v.All()
	if len(items) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "No hay sesiones para exportar."))
		return
	}
	data, err := export.Sessions(items, b.subjectNames(actx))
	if err != nil {
		b.fail(ctx, chatID, err)
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("sesiones_%s.xlsx", b.nowIn().Format("20060102_150405")),
		Bytes: data,
	})
	doc.Caption = fmt.Sprintf("Tus sesiones de estudio (%d).", len(items))
	b.send(doc)
}
