package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Nelson200402/Educacion/internal/dialog"
	"github.com/Nelson200402/Educacion/internal/domain/sessions"
	"github.com/Nelson200402/Educacion/internal/domain/subjects"
)

func sessionPrompt(st dialog.State) string {
	switch st {
	case dialog.StateSessName:
		return "Escribe el nombre de la sesión o «-» para usar «Estudio: <materia>»."
	case dialog.StateSessTopic:
		return "¿Qué tema vas a estudiar?"
	case dialog.StateSessDate:
		return "¿Qué día? Escribe AAAA-MM-DD, DD/MM/AAAA, «hoy» o «mañana»."
	case dialog.StateSessTime:
		return "¿A qué hora empiezas? Formato HH:MM."
	case dialog.StateSessMinutes:
		return "¿Cuántos minutos dura la sesión?"
	}
	return ""
}

func (b *Bot) startNewSession(ctx context.Context, chatID int64) {
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
	m := tgbotapi.NewMessage(chatID, "➕ Nueva sesión\n\nElige la materia.")
	m.ReplyMarkup = subjectPickKeyboard(items, "sess:subj")
	b.saveLastStep(ctx, chatID, dialog.StateSessSubject, dialog.Payload{}, b.sendID(m))
}

func (b *Bot) handleSessionCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, action, arg string) {
	chatID := cb.Message.Chat.ID
	mid := cb.Message.MessageID
	defer b.answerCallback(cb, "", false)

	if action != "subj" {
		return
	}
	id, ok := parseID(arg)
	if !ok {
		return
	}
	p := dialog.Payload{"subject_id": float64(id), "subject_name": b.subjectLabel(ctx, chatID, id)}
	b.setState(ctx, chatID, dialog.StateSessName, p)
	b.editTextAndClear(chatID, mid, "Materia: "+p["subject_name"].(string))
	b.ask(chatID, sessionPrompt(dialog.StateSessName), false)
}

func (b *Bot) subjectLabel(ctx context.Context, chatID, id int64) string {
	_, actx, err := b.session(ctx, chatID)
	if err != nil {
		return "Materia"
	}
	s, err := b.subjects.Get(actx, id)
	if err != nil || strings.TrimSpace(s.Name) == "" {
		return "Materia"
	}
	return s.Name
}

func (b *Bot) handleSessionText(ctx context.Context, chatID int64, text string, st *dialog.Item) {
	p := st.Payload.Clone()

	next := func(key string, val any, to dialog.State) {
		p[key] = val
		b.setState(ctx, chatID, to, p)
		b.ask(chatID, sessionPrompt(to), true)
	}

	switch st.State {
	case dialog.StateSessName:
		name := text
		if name == "" || name == "-" {
			subject, _ := dialog.GetString(p, "subject_name")
			name = "Estudio: " + subject
		}
		next("name", name, dialog.StateSessTopic)

	case dialog.StateSessTopic:
		next("topic", text, dialog.StateSessDate)

	case dialog.StateSessDate:
		date, ok := parseDate(text, b.nowIn())
		if !ok {
			b.ask(chatID, "Fecha no válida. "+sessionPrompt(dialog.StateSessDate), true)
			return
		}
		next("date", date, dialog.StateSessTime)

	case dialog.StateSessTime:
		clock, ok := parseClock(text)
		if !ok {
			b.ask(chatID, "Hora no válida. "+sessionPrompt(dialog.StateSessTime), true)
			return
		}
		next("time", clock, dialog.StateSessMinutes)

	case dialog.StateSessMinutes:
		minutes, ok := parseMinutes(text)
		if !ok {
			b.ask(chatID, "Escribe un número de minutos mayor que cero.", true)
			return
		}
		b.createSession(ctx, chatID, p, minutes)
	}
}

func (b *Bot) createSession(ctx context.Context, chatID int64, p dialog.Payload, minutes int) {
	profileID, actx, err := b.profile(ctx, chatID)
	if err != nil {
		b.fail(ctx, chatID, err)
		return
	}
	subjectID, _ := dialog.GetInt64(p, "subject_id")
	name, _ := dialog.GetString(p, "name")
	topic, _ := dialog.GetString(p, "topic")
	date, _ := dialog.GetString(p, "date")
	clock, _ := dialog.GetString(p, "time")

	in := sessions.Create{
		UsuarioID: profileID,
		MateriaID: subjectID,
		Name:      name,
		Duration:  minutes,
		Date:      date,
		StartTime: clock,
	}
	if strings.TrimSpace(topic) != "" {
		in.Description = "Tema: " + topic
	}
	s, err := b.sessions.Create(actx, in)
	if err != nil {
		b.fail(ctx, chatID, err)
		return
	}
	_ = b.states.Reset(ctx, chatID)
	b.publishSessionChanged(chatID, s.ID)
	b.log.Info("session created", "chat_id", chatID, "session_id", s.ID)

	if s.SubjectID() == 0 {
		s.MateriaID = subjectID
	}
	subjectName, _ := dialog.GetString(p, "subject_name")
	byID := map[int64]subjects.Subject{subjectID: {ID: subjectID, Name: subjectName}}
	b.send(tgbotapi.NewMessage(chatID, "✅ Sesión creada\n\n"+formatSession(*s, byID)))
}
