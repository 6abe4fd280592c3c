package planner

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/Nelson200402/Educacion/internal/domain/sessions"
	"github.com/Nelson200402/Educacion/internal/validation"
)

const (
	DateLayout = "2006-01-02"

	MaxSessionsPerDay   = 3
	MaxHoursPerDay      = 24
	MinSessionMinutes   = 20
	DefaultBreakMinutes = 15
	DefaultBatchSize    = 10
	FillerTopic         = "Repaso"
)

var ErrTargetInPast = errors.New("planner: target date is before today")

type Preference string

const (
	Morning   Preference = "Mañana"
	Afternoon Preference = "Tarde"
	Evening   Preference = "Noche"
	Any       Preference = "Indiferente"
)

var Preferences = []Preference{Morning, Afternoon, Evening, Any}

// Request is the generator form. Topics is the raw text, one topic per line or comma.
type Request struct {
	ProfileID   int64      `label:"Perfil" validate:"gt=0"`
	SubjectID   int64      `label:"Materia" validate:"gt=0"`
	SubjectName string     `label:"Nombre de materia"`
	Topics      string     `label:"Temas" validate:"notblank"`
	TargetDate  string     `label:"Fecha objetivo" validate:"required,datetime=2006-01-02"`
	HoursPerDay float64    `label:"Horas por día" validate:"finite,gt=0,lte=24"`
	Preference  Preference `label:"Preferencia" validate:"omitempty,oneof=Mañana Tarde Noche Indiferente"`
}

type Options struct {
	BreakMinutes int
	BatchSize    int
}

func (o Options) withDefaults() Options {
	if o.BreakMinutes <= 0 {
		o.BreakMinutes = DefaultBreakMinutes
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	return o
}

var topicSep = regexp.MustCompile(`[\n,]+`)

func SplitTopics(raw string) []string {
	out := []string{}
	for _, t := range topicSep.Split(raw, -1) {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SessionsPerDay is ceil(hours) clamped to [1, 3]. The clamp happens before the
// int conversion so huge inputs cannot overflow.
func SessionsPerDay(hoursPerDay float64) int {
	return int(math.Min(math.Max(math.Ceil(hoursPerDay), 1), MaxSessionsPerDay))
}

// SessionDuration splits the daily minutes evenly, never below MinSessionMinutes.
// Hours above MaxHoursPerDay count as a full day.
func SessionDuration(hoursPerDay float64, perDay int) int {
	total := math.Round(math.Min(hoursPerDay, MaxHoursPerDay) * 60)
	return max(MinSessionMinutes, int(math.Round(total/float64(perDay))))
}

func AnchorTime(p Preference) string {
	switch p {
	case Morning:
		return "08:00"
	case Afternoon:
		return "15:00"
	case Evening:
		return "20:00"
	default:
		return "10:00"
	}
}

// AddMinutes adds mins to an "HH:MM" clock time. The hour wraps modulo 24 and the
// date is not advanced, so late slots can land on the early hours of the same date.
func AddMinutes(hhmm string, mins int) string {
	var h, m int
	_, _ = fmt.Sscanf(hhmm, "%d:%d", &h, &m)
	total := h*60 + m + mins
	return fmt.Sprintf("%02d:%02d", (total/60)%24, total%60)
}

func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Days lists every date from today to target inclusive as YYYY-MM-DD.
func Days(today, target time.Time) ([]string, error) {
	start, end := civil(today), civil(target)
	if end.Before(start) {
		return nil, ErrTargetInPast
	}
	var out []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(DateLayout))
	}
	return out, nil
}

func normalize(req Request) Request {
	req.SubjectName = strings.TrimSpace(req.SubjectName)
	if req.SubjectName == "" {
		req.SubjectName = "Materia"
	}
	if req.Preference == "" {
		req.Preference = Any
	}
	req.TargetDate = strings.TrimSpace(req.TargetDate)
	return req
}

// Validate checks the form and that the target date is not before today.
func Validate(req Request, today time.Time) ([]string, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	target, err := time.Parse(DateLayout, req.TargetDate)
	if err != nil {
		return nil, validation.New("Fecha objetivo inválida", validation.FieldError{Field: "Fecha objetivo", Message: err.Error()})
	}
	return Days(today, target)
}

// Build produces one creation payload per (day, slot). It does no I/O.
func Build(req Request, today time.Time, opts Options) ([]sessions.Create, error) {
	req = normalize(req)
	opts = opts.withDefaults()

	days, err := Validate(req, today)
	if err != nil {
		return nil, err
	}

	topics := SplitTopics(req.Topics)
	perDay := SessionsPerDay(req.HoursPerDay)
	duration := SessionDuration(req.HoursPerDay, perDay)
	anchor := AnchorTime(req.Preference)

	out := make([]sessions.Create, 0, len(days)*perDay)
	for dayIdx, date := range days {
		for slot := 0; slot < perDay; slot++ {
			topic := FillerTopic
			if len(topics) > 0 {
				topic = topics[(dayIdx*perDay+slot)%len(topics)]
			}
			out = append(out, sessions.Create{
				UsuarioID:   req.ProfileID,
				MateriaID:   req.SubjectID,
				Name:        "Estudio: " + req.SubjectName,
				Description: fmt.Sprintf("Tema: %s\nPreferencia: %s\nObjetivo: %s", topic, req.Preference, req.TargetDate),
				Duration:    duration,
				Done:        false,
				Date:        date,
				StartTime:   AddMinutes(anchor, slot*(duration+opts.BreakMinutes)),
			})
		}
	}
	return out, nil
}

// Question is the prompt sent to the assistant before sessions are created.
func Question(req Request) string {
	req = normalize(req)
	return strings.Join([]string{
		"Materia: " + req.SubjectName,
		"Temas: " + req.Topics,
		"Fecha objetivo: " + req.TargetDate,
		fmt.Sprintf("Disponibilidad de tiempo: %g horas por día", req.HoursPerDay),
		fmt.Sprintf("Preferencia de horario: %s (parte del día)", req.Preference),
		"",
		"Quiero un plan breve y accionable. Reparte los temas de forma equilibrada hasta la fecha objetivo.",
	}, "\n")
}
