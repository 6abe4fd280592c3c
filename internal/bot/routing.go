package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Nelson200402/Educacion/internal/dialog"
)

const helpText = "Comandos:\n" +
	"/start — inicio\n" +
	"/calendario — sesiones del día\n" +
	"/materias — tus materias\n" +
	"/generar — generar calendario de estudio\n" +
	"/perfil — perfil y estadísticas\n" +
	"/logout — cerrar sesión\n" +
	"/help — ayuda"

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		_ = b.states.Reset(ctx, chatID)
		b.showHome(ctx, chatID)
	case "help":
		b.send(tgbotapi.NewMessage(chatID, helpText))
	case "logout":
		b.logout(ctx, chatID)
	case "calendario":
		b.openCalendar(ctx, chatID)
	case "materias":
		b.openSubjects(ctx, chatID)
	case "generar":
		b.startGenerate(ctx, chatID)
	case "perfil":
		b.openProfile(ctx, chatID)
	case "cancel":
		_ = b.states.Reset(ctx, chatID)
		b.send(tgbotapi.NewMessage(chatID, "Operación cancelada."))
	default:
		b.send(tgbotapi.NewMessage(chatID, "No conozco ese comando. Escribe /help"))
	}
}

func (b *Bot) handleStateMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	// Bottom panel
	switch text {
	case btnCalendar:
		b.openCalendar(ctx, chatID)
		return
	case btnSubjects:
		b.openSubjects(ctx, chatID)
		return
	case btnNewSession:
		b.startNewSession(ctx, chatID)
		return
	case btnGenerate:
		b.startGenerate(ctx, chatID)
		return
	case btnProfile:
		b.openProfile(ctx, chatID)
		return
	case btnAskAI:
		b.startAskAI(ctx, chatID)
		return
	case btnLogout:
		b.logout(ctx, chatID)
		return
	}

	st, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.log.Error("load dialog", "chat_id", chatID, "err", err)
	}

	switch st.State {
	case dialog.StateLoginUser, dialog.StateLoginPass,
		dialog.StateRegUser, dialog.StateRegEmail, dialog.StateRegPass:
		b.handleAuthText(ctx, msg, st)

	case dialog.StateSubjName, dialog.StateSubjNotes, dialog.StateSubjEdit:
		b.handleSubjectText(ctx, chatID, text, st)

	case dialog.StateSessName, dialog.StateSessTopic, dialog.StateSessDate,
		dialog.StateSessTime, dialog.StateSessMinutes:
		b.handleSessionText(ctx, chatID, text, st)

	case dialog.StateGenTopics, dialog.StateGenTarget, dialog.StateGenHours:
		b.handleGenerateText(ctx, chatID, text, st)

	case dialog.StateProfileEdit, dialog.StatePwdOld, dialog.StatePwdNew, dialog.StatePwdConfirm:
		b.handleProfileText(ctx, msg, st)

	case dialog.StateAskAI:
		b.handleAskAI(ctx, chatID, text)

	default:
		b.showHome(ctx, chatID)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		b.answerCallback(cb, "", false)
		return
	}
	chatID := cb.Message.Chat.ID
	mid := cb.Message.MessageID
	prefix, action, arg := parseCallback(cb.Data)

	switch prefix {
	case "nav":
		switch action {
		case "cancel":
			_ = b.states.Reset(ctx, chatID)
			b.editTextAndClear(chatID, mid, "Operación cancelada.")
			b.answerCallback(cb, "Cancelado", false)
		case "back":
			b.handleBack(ctx, cb)
		default:
			b.answerCallback(cb, "", false)
		}
	case "auth":
		b.handleAuthCallback(ctx, cb, action)
	case "subj":
		b.handleSubjectCallback(ctx, cb, action, arg)
	case "cal":
		b.handleCalendarCallback(ctx, cb, action, arg)
	case "sess":
		b.handleSessionCallback(ctx, cb, action, arg)
	case "gen":
		b.handleGenerateCallback(ctx, cb, action, arg)
	case "prof":
		b.handleProfileCallback(ctx, cb, action, arg)
	default:
		b.answerCallback(cb, "Acción desconocida", false)
	}
}

// handleBack returns to the previous step of the multi-step forms.
func (b *Bot) handleBack(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	mid := cb.Message.MessageID
	st, _ := b.states.Get(ctx, chatID)
	defer b.answerCallback(cb, "", false)

	switch st.State {
	case dialog.StateLoginPass:
		b.setState(ctx, chatID, dialog.StateLoginUser, dialog.Payload{})
		b.editTextAndClear(chatID, mid, "Escribe tu usuario.")
	case dialog.StateRegEmail:
		b.setState(ctx, chatID, dialog.StateRegUser, dialog.Payload{})
		b.editTextAndClear(chatID, mid, "Escribe el nombre de usuario que quieres usar.")
	case dialog.StateRegPass:
		b.setState(ctx, chatID, dialog.StateRegEmail, st.Payload)
		b.editTextAndClear(chatID, mid, "Escribe tu correo electrónico.")

	case dialog.StateSubjDifficulty:
		b.setState(ctx, chatID, dialog.StateSubjName, dialog.Payload{})
		b.editTextAndClear(chatID, mid, "Escribe el nombre de la materia.")
	case dialog.StateSubjNotes:
		p := st.Payload.Clone()
		b.saveLastStep(ctx, chatID, dialog.StateSubjDifficulty, p, mid)
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, "Elige la dificultad (1 fácil, 5 difícil).", difficultyKeyboard("subj:diff")))

	case dialog.StateSessTopic, dialog.StateSessDate, dialog.StateSessTime, dialog.StateSessMinutes:
		prev := map[dialog.State]dialog.State{
			dialog.StateSessTopic:   dialog.StateSessName,
			dialog.StateSessDate:    dialog.StateSessTopic,
			dialog.StateSessTime:    dialog.StateSessDate,
			dialog.StateSessMinutes: dialog.StateSessTime,
		}[st.State]
		b.setState(ctx, chatID, prev, st.Payload)
		b.editTextAndClear(chatID, mid, sessionPrompt(prev))

	case dialog.StateGenTarget, dialog.StateGenHours:
		prev := dialog.StateGenTopics
		if st.State == dialog.StateGenHours {
			prev = dialog.StateGenTarget
		}
		b.setState(ctx, chatID, prev, st.Payload)
		b.editTextAndClear(chatID, mid, generatePrompt(prev))
	case dialog.StateGenPref:
		b.setState(ctx, chatID, dialog.StateGenHours, st.Payload)
		b.editTextAndClear(chatID, mid, generatePrompt(dialog.StateGenHours))
	case dialog.StateGenConfirm:
		b.saveLastStep(ctx, chatID, dialog.StateGenPref, st.Payload.Clone(), mid)
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, generatePrompt(dialog.StateGenPref), preferenceKeyboard()))

	case dialog.StatePwdNew:
		b.setState(ctx, chatID, dialog.StatePwdOld, dialog.Payload{})
		b.editTextAndClear(chatID, mid, "Escribe tu contraseña actual.")
	case dialog.StatePwdConfirm:
		p := st.Payload.Clone()
		delete(p, "new")
		b.setState(ctx, chatID, dialog.StatePwdNew, p)
		b.editTextAndClear(chatID, mid, "Escribe la contraseña nueva (mínimo 6 caracteres).")

	default:
		_ = b.states.Reset(ctx, chatID)
		b.editTextAndClear(chatID, mid, "Operación cancelada.")
	}
}
