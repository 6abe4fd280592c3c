package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Nelson200402/Educacion/internal/dialog"
	"github.com/Nelson200402/Educacion/internal/domain/subjects"
)

const skipNotes = "-"

func (b *Bot) openSubjects(ctx context.Context, chatID int64) {
	b.clearPrevStep(ctx, chatID)
	mid := b.showSubjects(ctx, chatID, nil)
	if mid != 0 {
		b.saveLastStep(ctx, chatID, dialog.StateSubjList, dialog.Payload{}, mid)
	}
}

func (b *Bot) showSubjects(ctx context.Context, chatID int64, editMsgID *int) int {
	_, actx, err := b.session(ctx, chatID)
	if err != nil {
		b.fail(ctx, chatID, err)
		return 0
	}
	items, err := b.subjects.List(actx)
	if err != nil {
		b.fail(ctx, chatID, err)
		return 0
	}
	return b.screen(chatID, editMsgID, formatSubjects(items), subjectListKeyboard(items))
}

func (b *Bot) showSubject(ctx context.Context, chatID int64, editMsgID int, id int64) {
	_, actx, err := b.session(ctx, chatID)
	if err != nil {
		b.fail(ctx, chatID, err)
		return
	}
	s, err := b.subjects.Get(actx, id)
	if err != nil {
		b.fail(ctx, chatID, err)
		return
	}
	b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, editMsgID, formatSubject(*s), subjectKeyboard(id)))
}

func (b *Bot) handleSubjectCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, action, arg string) {
	chatID := cb.Message.Chat.ID
	mid := cb.Message.MessageID

	switch action {
	case "list":
		b.showSubjects(ctx, chatID, &mid)
		b.saveLastStep(ctx, chatID, dialog.StateSubjList, dialog.Payload{}, mid)
		b.answerCallback(cb, "", false)

	case "open":
		if id, ok := parseID(arg); ok {
			b.showSubject(ctx, chatID, mid, id)
		}
		b.answerCallback(cb, "", false)

	case "add":
		b.setState(ctx, chatID, dialog.StateSubjName, dialog.Payload{})
		b.ask(chatID, "Escribe el nombre de la materia.", false)
		b.answerCallback(cb, "", false)

	case "diff":
		// difficulty picked while creating
		st, _ := b.states.Get(ctx, chatID)
		if st.State != dialog.StateSubjDifficulty {
			b.answerCallback(cb, "Este paso ya no está activo", false)
			return
		}
		p := st.Payload.Clone()
		p["difficulty"] = difficultyArg(arg)
		b.setState(ctx, chatID, dialog.StateSubjNotes, p)
		b.editTextAndClear(chatID, mid, "Dificultad: "+dash(difficultyArg(arg)))
		b.ask(chatID, fmt.Sprintf("Escribe notas para la materia o «%s» para omitir.", skipNotes), true)
		b.answerCallback(cb, "", false)

	case "edit":
		idStr, field, _ := strings.Cut(arg, ":")
		id, ok := parseID(idStr)
		if !ok {
			b.answerCallback(cb, "", false)
			return
		}
		if field == "diff" {
			kb := difficultyKeyboard(fmt.Sprintf("subj:setdiff:%d", id))
			b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, "Elige la nueva dificultad.", kb))
			b.answerCallback(cb, "", false)
			return
		}
		b.setState(ctx, chatID, dialog.StateSubjEdit, dialog.Payload{"subject_id": float64(id), "field": field})
		prompt := "Escribe el nuevo nombre."
		if field == "notes" {
			prompt = fmt.Sprintf("Escribe las nuevas notas o «%s» para borrarlas.", skipNotes)
		}
		b.ask(chatID, prompt, false)
		b.answerCallback(cb, "", false)

	case "setdiff":
		idStr, n, _ := strings.Cut(arg, ":")
		id, ok := parseID(idStr)
		if !ok {
			b.answerCallback(cb, "", false)
			return
		}
		if err := b.updateSubject(ctx, chatID, id, func(s *subjects.Subject) { s.Difficulty = difficultyArg(n) }); err != nil {
			b.fail(ctx, chatID, err)
			b.answerCallback(cb, "", false)
			return
		}
		b.showSubject(ctx, chatID, mid, id)
		b.answerCallback(cb, "Guardado", false)

	case "del":
		id, ok := parseID(arg)
		if !ok {
			b.answerCallback(cb, "", false)
			return
		}
		kb := confirmDeleteKeyboard(fmt.Sprintf("subj:delok:%d", id), fmt.Sprintf("subj:open:%d", id))
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, "¿Eliminar esta materia? Sus sesiones pueden quedar sin materia.", kb))
		b.answerCallback(cb, "", false)

	case "delok":
		id, ok := parseID(arg)
		if !ok {
			b.answerCallback(cb, "", false)
			return
		}
		_, actx, err := b.session(ctx, chatID)
		if err == nil {
			err = b.subjects.Delete(actx, id)
		}
		if err != nil {
			b.fail(ctx, chatID, err)
			b.answerCallback(cb, "", false)
			return
		}
		b.showSubjects(ctx, chatID, &mid)
		b.answerCallback(cb, "Materia eliminada", false)

	default:
		b.answerCallback(cb, "", false)
	}
}

func (b *Bot) handleSubjectText(ctx context.Context, chatID int64, text string, st *dialog.Item) {
	switch st.State {
	case dialog.StateSubjName:
		if text == "" {
			b.ask(chatID, "El nombre no puede estar vacío.", false)
			return
		}
		mid := b.sendID(withMarkup(tgbotapi.NewMessage(chatID, "Elige la dificultad (1 fácil, 5 difícil)."), difficultyKeyboard("subj:diff")))
		b.saveLastStep(ctx, chatID, dialog.StateSubjDifficulty, dialog.Payload{"name": text}, mid)

	case dialog.StateSubjNotes:
		_, actx, err := b.session(ctx, chatID)
		if err != nil {
			b.fail(ctx, chatID, err)
			return
		}
		name, _ := dialog.GetString(st.Payload, "name")
		diff, _ := dialog.GetString(st.Payload, "difficulty")
		in := subjects.Subject{Name: name, Difficulty: diff}
		if text != skipNotes {
			in.Notes = &text
		}
		created, err := b.subjects.Create(actx, in)
		if err != nil {
			b.fail(ctx, chatID, err)
			return
		}
		b.log.Info("subject created", "chat_id", chatID, "subject_id", created.ID)
		b.send(tgbotapi.NewMessage(chatID, "✅ Materia creada: "+created.Name))
		b.openSubjects(ctx, chatID)

	case dialog.StateSubjEdit:
		id, _ := dialog.GetInt64(st.Payload, "subject_id")
		field, _ := dialog.GetString(st.Payload, "field")
		err := b.updateSubject(ctx, chatID, id, func(s *subjects.Subject) {
			switch field {
			case "notes":
				notes := text
				if text == skipNotes {
					notes = ""
				}
				s.Notes = &notes
			default:
				s.Name = text
			}
		})
		if err != nil {
			b.fail(ctx, chatID, err)
			return
		}
		b.send(tgbotapi.NewMessage(chatID, "✅ Materia actualizada."))
		b.openSubjects(ctx, chatID)
	}
}

// updateSubject reads the subject, applies change and saves the full record.
func (b *Bot) updateSubject(ctx context.Context, chatID, id int64, change func(*subjects.Subject)) error {
	_, actx, err := b.session(ctx, chatID)
	if err != nil {
		return err
	}
	s, err := b.subjects.Get(actx, id)
	if err != nil {
		return err
	}
	change(s)
	_, err = b.subjects.Update(actx, *s)
	return err
}

// difficultyArg maps the keyboard value to the stored difficulty, "0" meaning none.
func difficultyArg(n string) string {
	if n == "0" {
		return ""
	}
	return n
}

func withMarkup(m tgbotapi.MessageConfig, kb tgbotapi.InlineKeyboardMarkup) tgbotapi.MessageConfig {
	m.ReplyMarkup = kb
	return m
}
