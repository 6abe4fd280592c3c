package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Nelson200402/Educacion/internal/authstore"
	"github.com/Nelson200402/Educacion/internal/dialog"
	"github.com/Nelson200402/Educacion/internal/domain/auth"
)

// session loads the chat's auth state and a context carrying its token.
func (b *Bot) session(ctx context.Context, chatID int64) (authstore.State, context.Context, error) {
	st, err := b.auth.Load(ctx, chatID)
	if err != nil {
		return st, ctx, err
	}
	if !st.SignedIn() {
		return st, ctx, authstore.ErrSignedOut
	}
	return st, st.Context(ctx), nil
}

// profile is session plus the study profile id every scheduling screen needs.
func (b *Bot) profile(ctx context.Context, chatID int64) (int64, context.Context, error) {
	st, actx, err := b.session(ctx, chatID)
	if err != nil {
		return 0, ctx, err
	}
	id, err := st.ProfileID()
	if err != nil {
		return 0, actx, err
	}
	return id, actx, nil
}

func (b *Bot) showHome(ctx context.Context, chatID int64) {
	st, err := b.auth.Load(ctx, chatID)
	if err != nil || !st.SignedIn() {
		b.showGuest(chatID, "¡Hola! Organiza tus materias y sesiones de estudio desde aquí.")
		return
	}
	name := "👋"
	if st.User != nil {
		name = st.User.DisplayName()
	}
	m := tgbotapi.NewMessage(chatID, fmt.Sprintf("Hola, %s. Elige una opción del menú.", name))
	m.ReplyMarkup = mainReplyKeyboard()
	b.send(m)
	if _, err := st.ProfileID(); err != nil {
		b.showIncompleteProfile(chatID)
	}
}

func (b *Bot) showGuest(chatID int64, text string) {
	rm := tgbotapi.NewMessage(chatID, text)
	rm.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	b.send(rm)

	m := tgbotapi.NewMessage(chatID, "¿Qué quieres hacer?")
	m.ReplyMarkup = guestKeyboard()
	b.send(m)
}

func (b *Bot) showIncompleteProfile(chatID int64) {
	m := tgbotapi.NewMessage(chatID,
		"⚠️ Perfil incompleto\n\n"+
			"Tu cuenta todavía no tiene un perfil de estudiante, así que no puedes ver ni crear sesiones. "+
			"Cuando tu perfil esté registrado, vuelve a iniciar sesión para cargarlo.")
	m.ReplyMarkup = incompleteProfileKeyboard()
	b.send(m)
}

func (b *Bot) logout(ctx context.Context, chatID int64) {
	if err := b.auth.SignOut(ctx, chatID); err != nil {
		b.fail(ctx, chatID, err)
		return
	}
	b.showGuest(chatID, "Sesión cerrada.")
}

func (b *Bot) handleAuthCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, action string) {
	chatID := cb.Message.Chat.ID
	mid := cb.Message.MessageID
	defer b.answerCallback(cb, "", false)

	switch action {
	case "login":
		b.setState(ctx, chatID, dialog.StateLoginUser, dialog.Payload{})
		b.editTextAndClear(chatID, mid, "🔑 Iniciar sesión")
		b.ask(chatID, "Escribe tu usuario.", false)
	case "register":
		b.setState(ctx, chatID, dialog.StateRegUser, dialog.Payload{})
		b.editTextAndClear(chatID, mid, "📝 Crear cuenta")
		b.ask(chatID, "Escribe el nombre de usuario que quieres usar.", false)
	case "relogin":
		if err := b.auth.SignOut(ctx, chatID); err != nil {
			b.fail(ctx, chatID, err)
			return
		}
		b.setState(ctx, chatID, dialog.StateLoginUser, dialog.Payload{})
		b.editTextAndClear(chatID, mid, "🔑 Iniciar sesión")
		b.ask(chatID, "Escribe tu usuario.", false)
	}
}

func (b *Bot) handleAuthText(ctx context.Context, msg *tgbotapi.Message, st *dialog.Item) {
	chatID := msg.Chat.ID
	text := msg.Text

	switch st.State {
	case dialog.StateLoginUser:
		b.setState(ctx, chatID, dialog.StateLoginPass, dialog.Payload{"username": text})
		b.ask(chatID, "Escribe tu contraseña.", true)

	case dialog.StateLoginPass:
		b.deleteMessage(chatID, msg.MessageID)
		username, _ := dialog.GetString(st.Payload, "username")
		res, err := b.authAPI.Login(ctx, username, text)
		if err != nil {
			b.fail(ctx, chatID, err)
			return
		}
		b.signedIn(ctx, chatID, res)

	case dialog.StateRegUser:
		b.setState(ctx, chatID, dialog.StateRegEmail, dialog.Payload{"username": text})
		b.ask(chatID, "Escribe tu correo electrónico.", true)

	case dialog.StateRegEmail:
		p := st.Payload.Clone()
		p["email"] = text
		b.setState(ctx, chatID, dialog.StateRegPass, p)
		b.ask(chatID, "Elige una contraseña (mínimo 6 caracteres).", true)

	case dialog.StateRegPass:
		b.deleteMessage(chatID, msg.MessageID)
		username, _ := dialog.GetString(st.Payload, "username")
		email, _ := dialog.GetString(st.Payload, "email")
		res, err := b.authAPI.Register(ctx, username, email, text)
		if err != nil {
			b.fail(ctx, chatID, err)
			return
		}
		b.signedIn(ctx, chatID, res)
	}
}

func (b *Bot) signedIn(ctx context.Context, chatID int64, res *auth.LoginResponse) {
	if err := b.auth.SignIn(ctx, chatID, *res); err != nil {
		b.fail(ctx, chatID, err)
		return
	}
	_ = b.states.Reset(ctx, chatID)
	b.log.Info("signed in", "chat_id", chatID, "user_id", res.User.ID)
	b.showHome(ctx, chatID)
}
