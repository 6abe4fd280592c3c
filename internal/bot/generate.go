package bot

import (
	"context"
	"errors"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Nelson200402/Educacion/internal/calendar"
	"github.com/Nelson200402/Educacion/internal/dialog"
	"github.com/Nelson200402/Educacion/internal/planner"
)

func generatePrompt(st dialog.State) string {
	switch st {
	case dialog.StateGenTopics:
		return "Escribe los temas, uno por línea o separados por comas."
	case dialog.StateGenTarget:
		return "¿Hasta qué fecha quieres estudiar? AAAA-MM-DD o DD/MM/AAAA."
	case dialog.StateGenHours:
		return "¿Cuántas horas al día puedes estudiar? Por ejemplo 1,5."
	case dialog.StateGenPref:
		return "¿En qué parte del día prefieres estudiar?"
	}
	return ""
}

func (b *Bot) startGenerate(ctx context.Context, chatID int64) {
	b.clearPrevStep(ctx, chatID)
	_, actx, err := b.profile(ctx, chatID)
	if err != nil {
		b.fail(ctx, chatID, err)
		return
	}
	items, err := b.subjects.List(actx)
	if err != nil {
		b.fail(ctx, chatID, err)
		return
	}
	if len(items) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "Primero crea una materia en «"+btnSubjects+"»."))
		return
	}
	m := tgbotapi.NewMessage(chatID, "🤖 Generar calendario\n\nElige la materia.")
	m.ReplyMarkup = subjectPickKeyboard(items, "gen:subj")
	b.saveLastStep(ctx, chatID, dialog.StateGenSubject, dialog.Payload{}, b.sendID(m))
}

func (b *Bot) handleGenerateCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, action, arg string) {
	chatID := cb.Message.Chat.ID
	mid := cb.Message.MessageID
	st, _ := b.states.Get(ctx, chatID)

	switch action {
	case "subj":
		id, ok := parseID(arg)
		if !ok {
			b.answerCallback(cb, "", false)
			return
		}
		name := b.subjectLabel(ctx, chatID, id)
		b.setState(ctx, chatID, dialog.StateGenTopics, dialog.Payload{"subject_id": float64(id), "subject_name": name})
		b.editTextAndClear(chatID, mid, "Materia: "+name)
		b.ask(chatID, generatePrompt(dialog.StateGenTopics), false)
		b.answerCallback(cb, "", false)

	case "pref":
		if st.State != dialog.StateGenPref {
			b.answerCallback(cb, "Este paso ya no está activo", false)
			return
		}
		p := st.Payload.Clone()
		p["preference"] = arg
		req := generateRequest(0, p)
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid,
			formatGenerateSummary(req.SubjectName, req.Topics, req.TargetDate, req.HoursPerDay, req.Preference),
			generateConfirmKeyboard()))
		b.saveLastStep(ctx, chatID, dialog.StateGenConfirm, p, mid)
		b.answerCallback(cb, "", false)

	case "run":
		if st.State != dialog.StateGenConfirm {
			b.answerCallback(cb, "Este paso ya no está activo", false)
			return
		}
		b.answerCallback(cb, "Generando…", false)
		b.runGenerator(ctx, chatID, mid, st.Payload, arg == "remote")

	default:
		b.answerCallback(cb, "", false)
	}
}

func (b *Bot) handleGenerateText(ctx context.Context, chatID int64, text string, st *dialog.Item) {
	p := st.Payload.Clone()

	switch st.State {
	case dialog.StateGenTopics:
		if text == "" {
			b.ask(chatID, generatePrompt(dialog.StateGenTopics), false)
			return
		}
		p["topics"] = text
		b.setState(ctx, chatID, dialog.StateGenTarget, p)
		b.ask(chatID, generatePrompt(dialog.StateGenTarget), true)

	case dialog.StateGenTarget:
		now := b.nowIn()
		date, ok := parseDate(text, now)
		if !ok {
			b.ask(chatID, "Fecha no válida. "+generatePrompt(dialog.StateGenTarget), true)
			return
		}
		target, _ := time.Parse(calendar.DateLayout, date)
		if _, err := planner.Days(now, target); errors.Is(err, planner.ErrTargetInPast) {
			b.ask(chatID, userMessage(err), true)
			return
		}
		p["target"] = date
		b.setState(ctx, chatID, dialog.StateGenHours, p)
		b.ask(chatID, generatePrompt(dialog.StateGenHours), true)

	case dialog.StateGenHours:
		hours, ok := parseHours(text)
		if !ok {
			b.ask(chatID, "Escribe un número de horas mayor que cero.", true)
			return
		}
		p["hours"] = hours
		m := tgbotapi.NewMessage(chatID, generatePrompt(dialog.StateGenPref))
		m.ReplyMarkup = preferenceKeyboard()
		b.saveLastStep(ctx, chatID, dialog.StateGenPref, p, b.sendID(m))
	}
}

func generateRequest(profileID int64, p dialog.Payload) planner.Request {
	subjectID, _ := dialog.GetInt64(p, "subject_id")
	name, _ := dialog.GetString(p, "subject_name")
	topics, _ := dialog.GetString(p, "topics")
	target, _ := dialog.GetString(p, "target")
	hours, _ := dialog.GetFloat(p, "hours")
	pref, _ := dialog.GetString(p, "preference")
	return planner.Request{
		ProfileID:   profileID,
		SubjectID:   subjectID,
		SubjectName: name,
		Topics:      topics,
		TargetDate:  target,
		HoursPerDay: hours,
		Preference:  planner.Preference(pref),
	}
}

func (b *Bot) runGenerator(ctx context.Context, chatID int64, mid int, p dialog.Payload, remote bool) {
	profileID, actx, err := b.profile(ctx, chatID)
	if err != nil {
		b.fail(ctx, chatID, err)
		return
	}
	b.editTextAndClear(chatID, mid, "⏳ Generando tu calendario…")

	req := generateRequest(profileID, p)
	var out *planner.Outcome
	if remote {
		out, err = b.generator.RunRemote(actx, chatID, req)
	} else {
		out, err = b.generator.Run(actx, chatID, req)
	}
	if err != nil {
		b.editTextAndClear(chatID, mid, "No se pudo generar el calendario.")
		b.fail(ctx, chatID, err)
		return
	}
	_ = b.states.Reset(ctx, chatID)
	b.editTextAndClear(chatID, mid, formatOutcome(out))
}
