package plans

import "encoding/json"

type Plan struct {
	ID        int64       `json:"id,omitempty"`
	UsuarioID int64       `json:"Usuarios_id"`
	Usuario   json.Number `json:"usuario,omitempty"`
	Name      string      `json:"Nombre"`
	Content   string      `json:"contenido"`
	Source    string      `json:"fuente"`
	Active    bool        `json:"estado"`
	CreatedAt string      `json:"created_at,omitempty"`
	UpdatedAt string      `json:"updated_at,omitempty"`
}

func (p Plan) OwnerID() int64 {
	if p.UsuarioID != 0 {
		return p.UsuarioID
	}
	v, err := p.Usuario.Int64()
	if err != nil {
		return 0
	}
	return v
}

// CountOwnedBy counts plans whose owner is profileID.
func CountOwnedBy(items []Plan, profileID int64) int {
	n := 0
	for _, p := range items {
		if p.OwnerID() == profileID {
			n++
		}
	}
	return n
}
