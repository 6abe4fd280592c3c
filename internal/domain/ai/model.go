package ai

type RecommendRequest struct {
	UsuarioID int64  `json:"usuario_id" label:"Perfil" validate:"gt=0"`
	Question  string `json:"pregunta" label:"Pregunta" validate:"notblank"`
}

type Recommendation struct {
	UsuarioID int64  `json:"usuario_id"`
	Question  string `json:"pregunta"`
	Text      string `json:"recomendacion"`
}

type CalendarRequest struct {
	MateriaID   int64   `json:"materia_id"`
	Topics      string  `json:"temas"`
	TargetDate  string  `json:"fecha_objetivo"`
	HoursPerDay float64 `json:"horas_por_dia"`
	Preference  string  `json:"preferencia_horario"`
}

type GeneratedPlan struct {
	Name    string `json:"Nombre"`
	Content string `json:"contenido"`
	Source  string `json:"fuente"`
}

type GeneratedSession struct {
	Date        string `json:"fecha"`
	StartTime   string `json:"hora_inicio"`
	Duration    int    `json:"duracion"`
	Name        string `json:"Nombre"`
	Description string `json:"descripcion"`
	MateriaID   int64  `json:"Materias_id"`
}

type CalendarResponse struct {
	Plan     GeneratedPlan      `json:"plan"`
	Sessions []GeneratedSession `json:"sesiones"`
}
