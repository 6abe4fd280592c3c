package bot

import (
	"context"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Nelson200402/Educacion/internal/dialog"
	"github.com/Nelson200402/Educacion/internal/domain/profiles"
	"github.com/Nelson200402/Educacion/internal/domain/sessions"
)

const (
	fieldNombre  = "nombre"
	fieldCorreo  = "correo"
	fieldNivel   = "nivel"
	fieldDias    = "dias"
	fieldPeriodo = "periodo"
)

var fieldPrompts = map[string]string{
	fieldNombre:  "Escribe tu nombre.",
	fieldCorreo:  "Escribe tu correo.",
	fieldNivel:   "Escribe tu nivel de estudios.",
	fieldDias:    "¿Qué días tienes libres? Por ejemplo: sábado, domingo.",
	fieldPeriodo: "¿Qué periodo del día prefieres? Mañana, Tarde o Noche.",
}

// passwordPad keeps an in-progress password change in memory only; dialog payloads
// are persisted and must not carry passwords.
type passwordPad struct {
	mu    sync.Mutex
	chats map[int64]profiles.PasswordChange
}

// get reports whether the chat has a change in progress. A persisted Pwd* dialog
// step with no entry means the process restarted mid-flow.
func (p *passwordPad) get(chatID int64) (profiles.PasswordChange, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.chats[chatID]
	return v, ok
}

func (p *passwordPad) put(chatID int64, v profiles.PasswordChange) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.chats == nil {
		p.chats = make(map[int64]profiles.PasswordChange)
	}
	p.chats[chatID] = v
}

func (p *passwordPad) drop(chatID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.chats, chatID)
}

func (b *Bot) openProfile(ctx context.Context, chatID int64) {
	b.clearPrevStep(ctx, chatID)
	if mid := b.showProfile(ctx, chatID, nil); mid != 0 {
		b.saveLastStep(ctx, chatID, dialog.StateProfile, dialog.Payload{}, mid)
	}
}

func (b *Bot) showProfile(ctx context.Context, chatID int64, editMsgID *int) int {
	profileID, actx, err := b.profile(ctx, chatID)
	if err != nil {
		b.fail(ctx, chatID, err)
		return 0
	}
	p, err := b.profiles.Get(actx, profileID)
	if err != nil {
		b.fail(ctx, chatID, err)
		return 0
	}
	items, err := b.sessions.List(actx)
	if err != nil {
		b.fail(ctx, chatID, err)
		return 0
	}
	planList, err := b.plans.List(actx)
	if err != nil {
		b.fail(ctx, chatID, err)
		return 0
	}
	stats := profiles.Summarize(profileID, sessions.OwnedBy(items, profileID), planList)
	return b.screen(chatID, editMsgID, formatProfile(p, stats), profileKeyboard(p.Disponibilidad))
}

func (b *Bot) handleProfileCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, action, arg string) {
	chatID := cb.Message.Chat.ID
	mid := cb.Message.MessageID
	defer b.answerCallback(cb, "", false)

	switch action {
	case "edit":
		prompt, ok := fieldPrompts[arg]
		if !ok {
			return
		}
		b.saveLastStep(ctx, chatID, dialog.StateProfileEdit, dialog.Payload{"field": arg}, mid)
		b.ask(chatID, prompt, false)

	case "avail":
		profileID, actx, err := b.profile(ctx, chatID)
		if err != nil {
			b.fail(ctx, chatID, err)
			return
		}
		p, err := b.profiles.Get(actx, profileID)
		if err == nil {
			_, err = b.profiles.Patch(actx, profileID, map[string]bool{"disponibilidad": !p.Disponibilidad})
		}
		if err != nil {
			b.fail(ctx, chatID, err)
			return
		}
		b.showProfile(ctx, chatID, &mid)

	case "pwd":
		b.pwd.drop(chatID)
		b.setState(ctx, chatID, dialog.StatePwdOld, dialog.Payload{})
		b.ask(chatID, "Escribe tu contraseña actual.", false)
	}
}

func (b *Bot) handleProfileText(ctx context.Context, msg *tgbotapi.Message, st *dialog.Item) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch st.State {
	case dialog.StateProfileEdit:
		field, _ := dialog.GetString(st.Payload, "field")
		if !b.saveProfileField(ctx, chatID, field, text) {
			return
		}
		mid, _ := dialog.GetInt64(st.Payload, "last_mid")
		m := int(mid)
		if m = b.showProfile(ctx, chatID, &m); m != 0 {
			b.saveLastStep(ctx, chatID, dialog.StateProfile, dialog.Payload{}, m)
		}

	case dialog.StatePwdOld:
		b.deleteMessage(chatID, msg.MessageID)
		b.pwd.put(chatID, profiles.PasswordChange{Old: msg.Text})
		b.setState(ctx, chatID, dialog.StatePwdNew, dialog.Payload{})
		b.ask(chatID, "Escribe la contraseña nueva (mínimo 6 caracteres).", true)

	case dialog.StatePwdNew:
		b.deleteMessage(chatID, msg.MessageID)
		pc, ok := b.pwd.get(chatID)
		if !ok {
			b.restartPasswordChange(ctx, chatID)
			return
		}
		if len([]rune(msg.Text)) < 6 {
			b.ask(chatID, "La contraseña nueva debe tener al menos 6 caracteres.", true)
			return
		}
		pc.New = msg.Text
		b.pwd.put(chatID, pc)
		b.setState(ctx, chatID, dialog.StatePwdConfirm, dialog.Payload{})
		b.ask(chatID, "Repite la contraseña nueva.", true)

	case dialog.StatePwdConfirm:
		b.deleteMessage(chatID, msg.MessageID)
		pc, ok := b.pwd.get(chatID)
		if !ok {
			b.restartPasswordChange(ctx, chatID)
			return
		}
		pc.Confirm = msg.Text
		if pc.Confirm != pc.New {
			b.setState(ctx, chatID, dialog.StatePwdNew, dialog.Payload{})
			b.ask(chatID, "Las contraseñas no coinciden. Escribe la contraseña nueva otra vez.", true)
			return
		}
		_, actx, err := b.session(ctx, chatID)
		if err != nil {
			b.fail(ctx, chatID, err)
			return
		}
		text, err := b.profiles.ChangePassword(actx, pc)
		b.pwd.drop(chatID)
		_ = b.states.Reset(ctx, chatID)
		if err != nil {
			b.fail(ctx, chatID, err)
			return
		}
		if text == "" {
			text = "Contraseña actualizada ✅"
		}
		b.send(tgbotapi.NewMessage(chatID, text))
	}
}

func (b *Bot) restartPasswordChange(ctx context.Context, chatID int64) {
	b.setState(ctx, chatID, dialog.StatePwdOld, dialog.Payload{})
	b.ask(chatID, "El cambio de contraseña se interrumpió. Escribe tu contraseña actual.", false)
}

// saveProfileField validates and stores one edited field. A changed name or email is
// copied into the stored login identity so other screens see it.
func (b *Bot) saveProfileField(ctx context.Context, chatID int64, field, value string) bool {
	st, actx, err := b.session(ctx, chatID)
	if err != nil {
		b.fail(ctx, chatID, err)
		return false
	}
	profileID, err := st.ProfileID()
	if err != nil {
		b.fail(ctx, chatID, err)
		return false
	}
	p, err := b.profiles.Get(actx, profileID)
	if err != nil {
		b.fail(ctx, chatID, err)
		return false
	}
	switch field {
	case fieldNombre:
		p.Nombre = value
	case fieldCorreo:
		p.Correo = value
	case fieldNivel:
		p.NivelEstudios = value
	case fieldDias:
		p.DiasLibres = value
	case fieldPeriodo:
		p.PeriodoPreferencia = value
	}
	saved, err := b.profiles.Save(actx, *p)
	if err != nil {
		b.fail(ctx, chatID, err)
		return false
	}
	if (field == fieldNombre || field == fieldCorreo) && st.User != nil && st.User.Usuario != nil {
		u := *st.User
		ref := *u.Usuario
		ref.Nombre, ref.Correo = saved.Nombre, saved.Correo
		u.Usuario = &ref
		if err := b.auth.SetUser(ctx, chatID, u); err != nil {
			b.log.Error("update stored user", "chat_id", chatID, "err", err)
		}
	}
	b.send(tgbotapi.NewMessage(chatID, "✅ Perfil actualizado."))
	return true
}
