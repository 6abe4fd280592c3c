package bot

import (
	"context"
	"errors"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Nelson200402/Educacion/internal/api"
	"github.com/Nelson200402/Educacion/internal/authstore"
	"github.com/Nelson200402/Educacion/internal/calendar"
	"github.com/Nelson200402/Educacion/internal/dialog"
	"github.com/Nelson200402/Educacion/internal/planner"
	"github.com/Nelson200402/Educacion/internal/validation"
)

/*** HELPERS ***/

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

// sendID sends msg and returns the new message id, 0 on failure.
func (b *Bot) sendID(msg tgbotapi.Chattable) int {
	m, err := b.api.Send(msg)
	if err != nil {
		b.log.Error("send failed", "err", err)
		return 0
	}
	return m.MessageID
}

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string, alert bool) {
	if r := []rune(text); len(r) > maxAlertRunes {
		text = string(r[:maxAlertRunes-1]) + "…"
	}
	resp := tgbotapi.NewCallback(cb.ID, text)
	resp.ShowAlert = alert
	if _, err := b.api.Request(resp); err != nil {
		b.log.Debug("answer callback", "err", err)
	}
}

func (b *Bot) editTextAndClear(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		chatID, messageID, clip(text),
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}},
	)
	b.send(edit)
}

// screen edits editMsgID when given, otherwise sends a new message. It returns the
// id of the message that now shows the screen.
func (b *Bot) screen(chatID int64, editMsgID *int, text string, kb tgbotapi.InlineKeyboardMarkup) int {
	if editMsgID != nil && *editMsgID != 0 {
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, *editMsgID, clip(text), kb))
		return *editMsgID
	}
	m := tgbotapi.NewMessage(chatID, clip(text))
	m.ReplyMarkup = kb
	return b.sendID(m)
}

func (b *Bot) ask(chatID int64, text string, back bool) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = navKeyboard(back, true)
	b.send(m)
}

func (b *Bot) setState(ctx context.Context, chatID int64, st dialog.State, p dialog.Payload) {
	if err := b.states.Set(ctx, chatID, st, p); err != nil {
		b.log.Error("save dialog", "chat_id", chatID, "state", st, "err", err)
	}
}

// clearPrevStep removes the inline buttons of the previous step, if any.
func (b *Bot) clearPrevStep(ctx context.Context, chatID int64) {
	st, _ := b.states.Get(ctx, chatID)
	if st == nil {
		return
	}
	if mid, ok := dialog.GetInt64(st.Payload, "last_mid"); ok && mid != 0 {
		rm := tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
		b.send(tgbotapi.NewEditMessageReplyMarkup(chatID, int(mid), rm))
	}
}

// saveLastStep stores the id of the bot message that shows the current step.
func (b *Bot) saveLastStep(ctx context.Context, chatID int64, next dialog.State, payload dialog.Payload, mid int) {
	if payload == nil {
		payload = dialog.Payload{}
	}
	payload["last_mid"] = float64(mid)
	b.setState(ctx, chatID, next, payload)
}

func (b *Bot) deleteMessage(chatID int64, messageID int) {
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		b.log.Debug("delete message", "err", err)
	}
}

// fail reports err to the chat. Missing sign-in and missing profile get their own
// guided screens; an expired token signs the chat out.
func (b *Bot) fail(ctx context.Context, chatID int64, err error) {
	switch {
	case errors.Is(err, authstore.ErrSignedOut):
		b.showGuest(chatID, "Inicia sesión para continuar.")
		return
	case errors.Is(err, authstore.ErrNoProfile):
		b.showIncompleteProfile(chatID)
		return
	case errors.Is(err, api.ErrUnauthorized):
		if serr := b.auth.SignOut(ctx, chatID); serr != nil {
			b.log.Error("sign out", "chat_id", chatID, "err", serr)
		}
		b.showGuest(chatID, "Tu sesión expiró. Inicia sesión de nuevo.")
		return
	}
	if !errors.Is(err, validation.ErrInvalid) && !errors.Is(err, planner.ErrTargetInPast) {
		b.log.Error("request failed", "chat_id", chatID, "err", err)
	}
	b.send(tgbotapi.NewMessage(chatID, userMessage(err)))
}

// userMessage is the text shown for an error.
func userMessage(err error) string {
	var verr *validation.Error
	var aerr *api.Error
	switch {
	case errors.As(err, &verr):
		return "Revisa los datos:\n" + verr.Message()
	case errors.Is(err, planner.ErrTargetInPast):
		return "La fecha objetivo no puede ser anterior a hoy."
	case errors.Is(err, calendar.ErrSessionNotFound):
		return "La sesión ya no está en el calendario. Pulsa 🔄 Actualizar."
	case errors.As(err, &aerr):
		return "Error: " + aerr.Message
	case errors.Is(err, context.DeadlineExceeded):
		return "El servidor tardó demasiado en responder. Intenta de nuevo."
	}
	return "Ocurrió un error. Intenta de nuevo."
}

func (b *Bot) nowIn() time.Time { return b.now().In(b.loc) }

const (
	maxMessageRunes = 4000
	maxAlertRunes   = 190
)

// clip keeps text under the Telegram message limit.
func clip(text string) string {
	r := []rune(text)
	if len(r) <= maxMessageRunes {
		return text
	}
	return string(r[:maxMessageRunes-1]) + "…"
}
