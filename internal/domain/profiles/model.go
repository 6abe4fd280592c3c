package profiles

import (
	"github.com/Nelson200402/Educacion/internal/domain/plans"
	"github.com/Nelson200402/Educacion/internal/domain/sessions"
)

// Profile is the study profile (tabla Usuarios), separate from the login identity.
type Profile struct {
	ID                 int64  `json:"id,omitempty"`
	Nombre             string `json:"Nombre" label:"Nombre" validate:"notblank"`
	Correo             string `json:"Correo" label:"Correo" validate:"required,email"`
	NivelEstudios      string `json:"nivel_estudios"`
	Disponibilidad     bool   `json:"disponibilidad"`
	DiasLibres         string `json:"Dias_Libres"`
	PeriodoPreferencia string `json:"periodo_prefencia"`
	CreatedAt          string `json:"created_at,omitempty"`
	UpdatedAt          string `json:"updated_at,omitempty"`
}

type PasswordChange struct {
	Old     string `json:"old_password" label:"Contraseña actual" validate:"required"`
	New     string `json:"new_password" label:"Contraseña nueva" validate:"required,min=6"`
	Confirm string `json:"-" label:"Confirmación" validate:"eqfield=New"`
}

type Stats struct {
	CompletedSessions int
	TotalSessions     int
	SubjectsStudied   int
	Plans             int
	MinutesStudied    int
}

// Summarize builds profile stats: subjects studied are the distinct subjects referenced by sessions.
func Summarize(profileID int64, items []sessions.Session, planList []plans.Plan) Stats {
	seen := make(map[int64]struct{})
	st := Stats{TotalSessions: len(items)}
	for _, s := range items {
		if s.Done {
			st.CompletedSessions++
			st.MinutesStudied += s.Duration
		}
		if id := s.SubjectID(); id != 0 {
			seen[id] = struct{}{}
		}
	}
	st.SubjectsStudied = len(seen)
	st.Plans = plans.CountOwnedBy(planList, profileID)
	return st
}
