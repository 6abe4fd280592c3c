package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Nelson200402/Educacion/internal/calendar"
	"github.com/Nelson200402/Educacion/internal/domain/subjects"
	"github.com/Nelson200402/Educacion/internal/planner"
)

// Bottom panel buttons
const (
	btnSubjects   = "📚 Materias"
	btnCalendar   = "📅 Calendario"
	btnNewSession = "➕ Nueva sesión"
	btnGenerate   = "🤖 Generar calendario"
	btnProfile    = "👤 Perfil"
	btnAskAI      = "💬 Preguntar a la IA"
	btnLogout     = "🚪 Cerrar sesión"
)

func mainReplyKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.ReplyKeyboardMarkup{
		ResizeKeyboard: true,
		Keyboard: [][]tgbotapi.KeyboardButton{
			{tgbotapi.NewKeyboardButton(btnCalendar), tgbotapi.NewKeyboardButton(btnSubjects)},
			{tgbotapi.NewKeyboardButton(btnNewSession), tgbotapi.NewKeyboardButton(btnGenerate)},
			{tgbotapi.NewKeyboardButton(btnProfile), tgbotapi.NewKeyboardButton(btnAskAI)},
			{tgbotapi.NewKeyboardButton(btnLogout)},
		},
	}
}

func guestKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔑 Iniciar sesión", "auth:login"),
			tgbotapi.NewInlineKeyboardButtonData("📝 Crear cuenta", "auth:register"),
		),
	)
}

func navKeyboard(back bool, cancel bool) tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{}
	if back {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("⬅️ Atrás", "nav:back"))
	}
	if cancel {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("✖️ Cancelar", "nav:cancel"))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func incompleteProfileKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Volver a iniciar sesión", "auth:relogin"),
		),
	)
}

func difficultyKeyboard(prefix string) tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{}
	for n := 1; n <= 5; n++ {
		label := fmt.Sprintf("%s %d", subjects.DifficultyColor(fmt.Sprint(n)).Badge(), n)
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("%s:%d", prefix, n)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		row,
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Sin dificultad", prefix+":0")),
		navKeyboard(false, true).InlineKeyboard[0],
	)
}

// subjectPickKeyboard lists subjects as buttons "<prefix>:<id>".
func subjectPickKeyboard(items []subjects.Subject, prefix string) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, s := range items {
		label := fmt.Sprintf("%s %s", subjects.DifficultyColor(s.Difficulty).Badge(), s.Name)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("%s:%d", prefix, s.ID)),
		))
	}
	rows = append(rows, navKeyboard(false, true).InlineKeyboard[0])
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func preferenceKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	row := []tgbotapi.InlineKeyboardButton{}
	for i, p := range planner.Preferences {
		label := fmt.Sprintf("%s (%s)", p, planner.AnchorTime(p))
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, "gen:pref:"+string(p)))
		if i%2 == 1 {
			rows = append(rows, row)
			row = []tgbotapi.InlineKeyboardButton{}
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, navKeyboard(true, true).InlineKeyboard[0])
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func generateConfirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Generar aquí", "gen:run:local"),
			tgbotapi.NewInlineKeyboardButtonData("🌐 Generar en servidor", "gen:run:remote"),
		),
		navKeyboard(true, true).InlineKeyboard[0],
	)
}

// dayKeyboard is the calendar screen: one toggle row per session, the week strip,
// day navigation and export.
func dayKeyboard(date string, entries []calendar.Entry, today string) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, e := range entries {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s %s %s", checkbox(e.Done), e.Time, e.Name), fmt.Sprintf("cal:tg:%d", e.ID)),
			tgbotapi.NewInlineKeyboardButtonData("ℹ️", fmt.Sprintf("cal:open:%d", e.ID)),
		))
	}

	strip := []tgbotapi.InlineKeyboardButton{}
	for _, d := range weekOf(date) {
		label := weekdayLabel(d)
		if d == date {
			label = "•" + label
		}
		strip = append(strip, tgbotapi.NewInlineKeyboardButtonData(label, "cal:day:"+d))
	}
	rows = append(rows, strip)

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️", "cal:day:"+calendar.Shift(date, -1)),
		tgbotapi.NewInlineKeyboardButtonData("Hoy", "cal:day:"+today),
		tgbotapi.NewInlineKeyboardButtonData("▶️", "cal:day:"+calendar.Shift(date, 1)),
	))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔄 Actualizar", "cal:reload"),
		tgbotapi.NewInlineKeyboardButtonData("📥 Excel", "cal:xlsx"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func sessionKeyboard(id int64, done bool) tgbotapi.InlineKeyboardMarkup {
	toggle := "✅ Marcar completada"
	if done {
		toggle = "⬜ Marcar pendiente"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(toggle, fmt.Sprintf("cal:tgd:%d", id))),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🗑 Eliminar", fmt.Sprintf("cal:del:%d", id))),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⬅️ Volver al día", "cal:back")),
	)
}

func confirmDeleteKeyboard(yes, no string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Sí, eliminar", yes),
			tgbotapi.NewInlineKeyboardButtonData("Cancelar", no),
		),
	)
}

func profileKeyboard(availability bool) tgbotapi.InlineKeyboardMarkup {
	avail := "Disponible: no"
	if availability {
		avail = "Disponible: sí"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Nombre", "prof:edit:"+fieldNombre),
			tgbotapi.NewInlineKeyboardButtonData("✏️ Correo", "prof:edit:"+fieldCorreo),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Nivel de estudios", "prof:edit:"+fieldNivel),
			tgbotapi.NewInlineKeyboardButtonData("✏️ Días libres", "prof:edit:"+fieldDias),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Periodo preferido", "prof:edit:"+fieldPeriodo),
			tgbotapi.NewInlineKeyboardButtonData(avail, "prof:avail"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔒 Cambiar contraseña", "prof:pwd"),
		),
	)
}

func subjectKeyboard(id int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Nombre", fmt.Sprintf("subj:edit:%d:name", id)),
			tgbotapi.NewInlineKeyboardButtonData("✏️ Dificultad", fmt.Sprintf("subj:edit:%d:diff", id)),
			tgbotapi.NewInlineKeyboardButtonData("✏️ Notas", fmt.Sprintf("subj:edit:%d:notes", id)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Eliminar", fmt.Sprintf("subj:del:%d", id)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Lista", "subj:list"),
		),
	)
}

func subjectListKeyboard(items []subjects.Subject) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, s := range items {
		label := fmt.Sprintf("%s %s", subjects.DifficultyColor(s.Difficulty).Badge(), s.Name)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("subj:open:%d", s.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("➕ Nueva materia", "subj:add"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func checkbox(done bool) string {
	if done {
		return "✅"
	}
	return "⬜"
}
