package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Nelson200402/Educacion/internal/calendar"
	"github.com/Nelson200402/Educacion/internal/domain/profiles"
	"github.com/Nelson200402/Educacion/internal/domain/sessions"
	"github.com/Nelson200402/Educacion/internal/domain/subjects"
	"github.com/Nelson200402/Educacion/internal/planner"
)

const maxFailuresShown = 5

var weekdays = [...]string{"Do", "Lu", "Ma", "Mi", "Ju", "Vi", "Sá"}

// parseCallback splits "prefix:action:arg"; arg may itself contain colons.
func parseCallback(data string) (prefix, action, arg string) {
	parts := strings.SplitN(data, ":", 3)
	prefix = parts[0]
	if len(parts) > 1 {
		action = parts[1]
	}
	if len(parts) > 2 {
		arg = parts[2]
	}
	return prefix, action, arg
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil && id > 0
}

// parseDate accepts YYYY-MM-DD, DD/MM/YYYY, "hoy" and "mañana".
func parseDate(text string, today time.Time) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	switch t {
	case "hoy":
		return today.Format(calendar.DateLayout), true
	case "mañana", "manana":
		return today.AddDate(0, 0, 1).Format(calendar.DateLayout), true
	}
	for _, layout := range []string{calendar.DateLayout, "02/01/2006", "2/1/2006"} {
		if d, err := time.Parse(layout, t); err == nil {
			return d.Format(calendar.DateLayout), true
		}
	}
	return "", false
}

// parseClock accepts H:MM or HH:MM and returns HH:MM.
func parseClock(text string) (string, bool) {
	d, err := time.Parse("15:04", strings.TrimSpace(text))
	if err != nil {
		return "", false
	}
	return d.Format("15:04"), true
}

// parseHours reads a positive number, accepting a decimal comma.
func parseHours(text string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(text), ",", "."), 64)
	if err != nil || !(v > 0 && v <= 24) {
		return 0, false
	}
	return v, true
}

func parseMinutes(text string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || v <= 0 || v > 24*60 {
		return 0, false
	}
	return v, true
}

func weekOf(date string) []string {
	t, err := time.Parse(calendar.DateLayout, date)
	if err != nil {
		return nil
	}
	return calendar.Week(t)
}

// weekdayLabel renders "2025-12-15" as "Lu 15".
func weekdayLabel(date string) string {
	t, err := time.Parse(calendar.DateLayout, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s %d", weekdays[t.Weekday()], t.Day())
}

func subjectName(byID map[int64]subjects.Subject, id int64) string {
	if s, ok := byID[id]; ok && s.Name != "" {
		return s.Name
	}
	return "Sin materia"
}

func formatDay(date string, entries []calendar.Entry, byID map[int64]subjects.Subject) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 %s (%s)\n", weekdayLabel(date), date)
	if len(entries) == 0 {
		sb.WriteString("\nNo hay sesiones para este día.")
		return sb.String()
	}
	done := 0
	for _, e := range entries {
		if e.Done {
			done++
		}
		fmt.Fprintf(&sb, "\n%s %s · %s (%d min)\n   %s", checkbox(e.Done), e.Time, e.Name, e.Duration, subjectName(byID, e.SubjectID()))
	}
	fmt.Fprintf(&sb, "\n\nCompletadas: %d/%d", done, len(entries))
	return sb.String()
}

func formatSession(s sessions.Session, byID map[int64]subjects.Subject) string {
	status := "pendiente"
	if s.Done {
		status = "completada"
	}
	text := fmt.Sprintf("%s\n\nMateria: %s\nFecha: %s %s\nDuración: %d min\nEstado: %s",
		s.Name, subjectName(byID, s.SubjectID()), s.Date, s.Time(), s.Duration, status)
	if d := strings.TrimSpace(s.Description); d != "" {
		text += "\n\n" + d
	}
	return text
}

func formatSubjects(items []subjects.Subject) string {
	if len(items) == 0 {
		return "📚 Aún no tienes materias. Crea la primera."
	}
	return fmt.Sprintf("📚 Materias (%d)\n🟢 fácil · 🟡 media · 🔴 difícil", len(items))
}

func formatSubject(s subjects.Subject) string {
	diff := s.Difficulty
	if diff == "" {
		diff = "—"
	}
	text := fmt.Sprintf("%s %s\nDificultad: %s", subjects.DifficultyColor(s.Difficulty).Badge(), s.Name, diff)
	if n := strings.TrimSpace(s.NotesText()); n != "" {
		text += "\nNotas: " + n
	}
	return text
}

func formatOutcome(out *planner.Outcome) string {
	var sb strings.Builder
	if out.Recommendation != "" {
		sb.WriteString("🤖 Recomendación:\n")
		sb.WriteString(out.Recommendation)
		sb.WriteString("\n\n")
	}
	sum := out.Summary
	switch {
	case sum.Failed == 0:
		fmt.Fprintf(&sb, "✅ Se crearon %d sesiones.", sum.Created)
	case sum.Created == 0:
		fmt.Fprintf(&sb, "❌ No se pudo crear ninguna de las %d sesiones.", sum.Total)
	default:
		fmt.Fprintf(&sb, "⚠️ Se crearon %d de %d sesiones.", sum.Created, sum.Total)
	}
	shown := 0
	for _, r := range out.Results {
		if r.OK() {
			continue
		}
		if shown == maxFailuresShown {
			fmt.Fprintf(&sb, "\n… y %d más", sum.Failed-shown)
			break
		}
		fmt.Fprintf(&sb, "\n• %s %s: %s", r.Payload.Date, r.Payload.StartTime, userMessage(r.Err))
		shown++
	}
	return sb.String()
}

func formatProfile(p *profiles.Profile, st profiles.Stats) string {
	avail := "no"
	if p.Disponibilidad {
		avail = "sí"
	}
	return fmt.Sprintf(
		"👤 %s\n%s\n\nNivel de estudios: %s\nDías libres: %s\nPeriodo preferido: %s\nDisponible: %s\n\n"+
			"📊 Sesiones completadas: %d de %d\n⏱ Minutos estudiados: %d\n📚 Materias estudiadas: %d\n🗂 Planes: %d",
		p.Nombre, p.Correo,
		dash(p.NivelEstudios), dash(p.DiasLibres), dash(p.PeriodoPreferencia), avail,
		st.CompletedSessions, st.TotalSessions, st.MinutesStudied, st.SubjectsStudied, st.Plans,
	)
}

func formatGenerateSummary(subject, topics, target string, hours float64, pref planner.Preference) string {
	perDay := planner.SessionsPerDay(hours)
	return fmt.Sprintf(
		"Resumen\n\nMateria: %s\nTemas: %s\nFecha objetivo: %s\nHoras por día: %g (%d sesiones de %d min)\nPreferencia: %s, desde %s",
		subject, strings.Join(planner.SplitTopics(topics), ", "), target,
		hours, perDay, planner.SessionDuration(hours, perDay), pref, planner.AnchorTime(pref),
	)
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}
