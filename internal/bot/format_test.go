package bot

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nelson200402/Educacion/internal/api"
	"github.com/Nelson200402/Educacion/internal/calendar"
	"github.com/Nelson200402/Educacion/internal/dialog"
	"github.com/Nelson200402/Educacion/internal/domain/sessions"
	"github.com/Nelson200402/Educacion/internal/domain/subjects"
	"github.com/Nelson200402/Educacion/internal/planner"
	"github.com/Nelson200402/Educacion/internal/validation"
)

func TestParseCallback(t *testing.T) {
	tests := []struct {
		data                string
		prefix, action, arg string
	}{
		{"nav:cancel", "nav", "cancel", ""},
		{"cal:day:2025-12-15", "cal", "day", "2025-12-15"},
		{"subj:setdiff:5:3", "subj", "setdiff", "5:3"},
		{"gen:pref:Mañana", "gen", "pref", "Mañana"},
		{"odd", "odd", "", ""},
	}
	for _, tt := range tests {
		p, a, arg := parseCallback(tt.data)
		assert.Equal(t, tt.prefix, p, tt.data)
		assert.Equal(t, tt.action, a, tt.data)
		assert.Equal(t, tt.arg, arg, tt.data)
	}
}

func TestParseInputs(t *testing.T) {
	today := time.Date(2025, 12, 31, 10, 0, 0, 0, time.UTC)

	for in, want := range map[string]string{
		"2026-01-05": "2026-01-05",
		"05/01/2026": "2026-01-05",
		"5/1/2026":   "2026-01-05",
		"Hoy":        "2025-12-31",
		"mañana":     "2026-01-01",
	} {
		got, ok := parseDate(in, today)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := parseDate("31-12-2025", today)
	assert.False(t, ok)

	clock, ok := parseClock("8:05")
	assert.True(t, ok)
	assert.Equal(t, "08:05", clock)
	_, ok = parseClock("25:00")
	assert.False(t, ok)

	h, ok := parseHours("1,5")
	assert.True(t, ok)
	assert.Equal(t, 1.5, h)
	for _, bad := range []string{"0", "-1", "abc", "25", "NaN"} {
		_, ok = parseHours(bad)
		assert.False(t, ok, bad)
	}

	m, ok := parseMinutes(" 45 ")
	assert.True(t, ok)
	assert.Equal(t, 45, m)
	_, ok = parseMinutes("0")
	assert.False(t, ok)
}

func TestWeekdayLabel(t *testing.T) {
	assert.Equal(t, "Lu 15", weekdayLabel("2025-12-15"))
	assert.Equal(t, "Do 21", weekdayLabel("2025-12-21"))
	assert.Equal(t, "x", weekdayLabel("x"))
	assert.Len(t, weekOf("2025-12-17"), 7)
	assert.Nil(t, weekOf("x"))
}

func TestFormatDay(t *testing.T) {
	v := &calendar.View{}
	v.Replace([]sessions.Session{
		{ID: 1, MateriaID: 3, Name: "Estudio: Math", Duration: 60, Date: "2025-12-15", StartTime: "09:15:00"},
		{ID: 2, Materia: "9", Name: "Lectura", Duration: 30, Done: true, Date: "2025-12-15", StartTime: "08:00"},
	})
	text := formatDay("2025-12-15", v.Day("2025-12-15"), map[int64]subjects.Subject{3: {ID: 3, Name: "Math"}})

	assert.Contains(t, text, "Lu 15")
	assert.Less(t, strings.Index(text, "08:00"), strings.Index(text, "09:15"))
	assert.Contains(t, text, "Math")
	assert.Contains(t, text, "Sin materia")
	assert.Contains(t, text, "Completadas: 1/2")

	assert.Contains(t, formatDay("2025-12-16", nil, nil), "No hay sesiones")
}

func TestDayKeyboard(t *testing.T) {
	entries := []calendar.Entry{{Session: sessions.Session{ID: 7, Name: "A"}, Time: "08:00"}}
	kb := dayKeyboard("2025-12-15", entries, "2025-12-17")

	require.Len(t, kb.InlineKeyboard, 4)
	assert.Equal(t, "cal:tg:7", *kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "⬜ 08:00 A", kb.InlineKeyboard[0][0].Text)
	assert.Len(t, kb.InlineKeyboard[1], 7)
	assert.Equal(t, "•Lu 15", kb.InlineKeyboard[1][0].Text)
	assert.Equal(t, "cal:day:2025-12-14", *kb.InlineKeyboard[2][0].CallbackData)
	assert.Equal(t, "cal:day:2025-12-17", *kb.InlineKeyboard[2][1].CallbackData)
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			assert.LessOrEqual(t, len(*btn.CallbackData), 64)
		}
	}
}

func TestFormatOutcome(t *testing.T) {
	var results []planner.Result
	for i := 0; i < 9; i++ {
		r := planner.Result{Index: i, Payload: sessions.Create{Date: "2025-12-15", StartTime: fmt.Sprintf("%02d:00", i)}}
		if i >= 2 {
			r.Err = &api.Error{Status: 500, Message: "falló"}
		} else {
			r.Session = &sessions.Session{ID: int64(i + 1)}
		}
		results = append(results, r)
	}
	out := &planner.Outcome{Recommendation: "Repasa", Results: results, Summary: planner.Summarize(results)}
	text := formatOutcome(out)

	assert.Contains(t, text, "Repasa")
	assert.Contains(t, text, "Se crearon 2 de 9 sesiones")
	assert.Contains(t, text, "2025-12-15 02:00: Error: falló")
	assert.Contains(t, text, "… y 2 más")

	all := &planner.Outcome{Summary: planner.Summary{Total: 3, Created: 3}}
	assert.Contains(t, formatOutcome(all), "Se crearon 3 sesiones")
}

func TestUserMessage(t *testing.T) {
	verr := validation.New("datos inválidos", validation.FieldError{Field: "Nombre", Message: "Nombre no puede estar vacío"})
	assert.Equal(t, "Revisa los datos:\nNombre no puede estar vacío", userMessage(fmt.Errorf("save: %w", verr)))
	assert.Equal(t, "Error: Credenciales inválidas", userMessage(&api.Error{Status: 400, Message: "Credenciales inválidas"}))
	assert.Contains(t, userMessage(planner.ErrTargetInPast), "anterior a hoy")
	assert.Contains(t, userMessage(errors.New("x")), "Ocurrió un error")
}

func TestGenerateRequestFromPayload(t *testing.T) {
	p := dialog.Payload{
		"subject_id": float64(3), "subject_name": "Math", "topics": "Algebra, Calculus",
		"target": "2025-12-18", "hours": 2.0, "preference": "Mañana",
	}
	req := generateRequest(9, p)
	assert.Equal(t, planner.Request{
		ProfileID: 9, SubjectID: 3, SubjectName: "Math", Topics: "Algebra, Calculus",
		TargetDate: "2025-12-18", HoursPerDay: 2, Preference: planner.Morning,
	}, req)

	text := formatGenerateSummary(req.SubjectName, req.Topics, req.TargetDate, req.HoursPerDay, req.Preference)
	assert.Contains(t, text, "2 sesiones de 60 min")
	assert.Contains(t, text, "desde 08:00")
}

func TestClip(t *testing.T) {
	assert.Equal(t, "hola", clip("hola"))
	long := strings.Repeat("á", maxMessageRunes+10)
	assert.Len(t, []rune(clip(long)), maxMessageRunes)
}

func TestIsAuthState(t *testing.T) {
	assert.True(t, isAuthState(dialog.StateLoginPass))
	assert.False(t, isAuthState(dialog.StateCalendar))
}

func TestDifficultyArg(t *testing.T) {
	assert.Equal(t, "", difficultyArg("0"))
	assert.Equal(t, "4", difficultyArg("4"))
}
