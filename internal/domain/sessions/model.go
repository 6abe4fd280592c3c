package sessions

import (
	"encoding/json"
	"strconv"
)

// DefaultTime is shown for sessions stored without a start time.
const DefaultTime = "08:00"

// Session is a study session as returned by /secciones/. The backend answers with
// string relations (usuario, materia, plan) and accepts *_id fields on write.
type Session struct {
	ID int64 `json:"id"`

	Usuario json.Number `json:"usuario,omitempty"`
	Materia json.Number `json:"materia,omitempty"`
	Plan    json.Number `json:"plan,omitempty"`

	UsuarioID int64  `json:"Usuarios_id,omitempty"`
	MateriaID int64  `json:"Materias_id,omitempty"`
	PlanID    *int64 `json:"Planes_id,omitempty"`

	Name        string `json:"Nombre"`
	Description string `json:"descripcion"`
	Duration    int    `json:"duracion"`
	Done        bool   `json:"estado"`
	Date        string `json:"fecha"`
	StartTime   string `json:"hora_inicio"`

	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Create is the write payload for POST/PUT /secciones/.
type Create struct {
	UsuarioID   int64  `json:"Usuarios_id" label:"Perfil" validate:"gt=0"`
	MateriaID   int64  `json:"Materias_id" label:"Materia" validate:"gt=0"`
	PlanID      *int64 `json:"Planes_id"`
	Name        string `json:"Nombre" label:"Nombre" validate:"notblank"`
	Description string `json:"descripcion"`
	Duration    int    `json:"duracion" label:"Duración" validate:"gt=0"`
	Done        bool   `json:"estado"`
	Date        string `json:"fecha" label:"Fecha" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"hora_inicio" label:"Hora" validate:"required,datetime=15:04"`
}

// NormalizeTime truncates backend times such as "10:55:56.207629" to "HH:MM".
func NormalizeTime(v string) string {
	if v == "" {
		return DefaultTime
	}
	if len(v) > 5 {
		return v[:5]
	}
	return v
}

func (s Session) Time() string { return NormalizeTime(s.StartTime) }

func (s Session) SubjectID() int64 {
	if s.MateriaID != 0 {
		return s.MateriaID
	}
	return number(s.Materia)
}

func (s Session) OwnerID() int64 {
	if s.UsuarioID != 0 {
		return s.UsuarioID
	}
	return number(s.Usuario)
}

func number(n json.Number) int64 {
	v, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// OwnedBy keeps sessions of profileID; sessions without an owner field are kept.
func OwnedBy(items []Session, profileID int64) []Session {
	out := make([]Session, 0, len(items))
	for _, s := range items {
		if owner := s.OwnerID(); owner != 0 && owner != profileID {
			continue
		}
		out = append(out, s)
	}
	return out
}

func CountDone(items []Session) int {
	n := 0
	for _, s := range items {
		if s.Done {
			n++
		}
	}
	return n
}
