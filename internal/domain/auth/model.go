package auth

// ProfileRef is the study profile nested in the login identity, absent until the profile exists.
type ProfileRef struct {
	ID            int64  `json:"id"`
	Nombre        string `json:"Nombre,omitempty"`
	Correo        string `json:"Correo,omitempty"`
	NivelEstudios string `json:"nivel_estudios,omitempty"`
}

type User struct {
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Usuario   *ProfileRef `json:"usuario,omitempty"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Credentials struct {
	Username string `json:"username" label:"Usuario" validate:"notblank"`
	Password string `json:"password" label:"Contraseña" validate:"required"`
}

type Registration struct {
	Username string `json:"username" label:"Usuario" validate:"notblank"`
	Email    string `json:"email" label:"Correo" validate:"required,email"`
	Password string `json:"password" label:"Contraseña" validate:"required,min=6"`
}

// DisplayName prefers the real name over the username.
func (u User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}
