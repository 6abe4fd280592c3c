package dialog

type State string

const (
	StateIdle State = "idle"

	// Acceso
	StateLoginUser State = "login_user"
	StateLoginPass State = "login_pass"
	StateRegUser   State = "reg_user"
	StateRegEmail  State = "reg_email"
	StateRegPass   State = "reg_pass"

	// Materias
	StateSubjList       State = "subj_list"
	StateSubjName       State = "subj_name"
	StateSubjDifficulty State = "subj_difficulty"
	StateSubjNotes      State = "subj_notes"
	StateSubjEdit       State = "subj_edit" // payload: subject_id, field

	// Calendario
	StateCalendar State = "calendar" // payload: date, last_mid

	// Nueva sesión
	StateSessSubject State = "sess_subject"
	StateSessName    State = "sess_name"
	StateSessTopic   State = "sess_topic"
	StateSessDate    State = "sess_date"
	StateSessTime    State = "sess_time"
	StateSessMinutes State = "sess_minutes"

	// Generar calendario
	StateGenSubject State = "gen_subject"
	StateGenTopics  State = "gen_topics"
	StateGenTarget  State = "gen_target"
	StateGenHours   State = "gen_hours"
	StateGenPref    State = "gen_pref"
	StateGenConfirm State = "gen_confirm"

	// Perfil
	StateProfile     State = "profile"
	StateProfileEdit State = "profile_edit" // payload: field
	StatePwdOld      State = "pwd_old"
	StatePwdNew      State = "pwd_new"
	StatePwdConfirm  State = "pwd_confirm"

	// IA
	StateAskAI State = "ask_ai"
)

type Payload map[string]any

type Item struct {
	ChatID  int64
	State   State
	Payload Payload
}
