package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nelson200402/Educacion/internal/api"
	"github.com/Nelson200402/Educacion/internal/domain/plans"
	"github.com/Nelson200402/Educacion/internal/domain/sessions"
	"github.com/Nelson200402/Educacion/internal/validation"
)

func TestSummarize(t *testing.T) {
	items := []sessions.Session{
		{ID: 1, MateriaID: 3, Done: true, Duration: 60},
		{ID: 2, Materia: "3", Done: false, Duration: 30},
		{ID: 3, Materia: "5", Done: true, Duration: 45},
		{ID: 4, Done: false},
	}
	planList := []plans.Plan{{ID: 1, UsuarioID: 9}, {ID: 2, UsuarioID: 8}}

	st := Summarize(9, items, planList)
	assert.Equal(t, Stats{CompletedSessions: 2, TotalSessions: 4, SubjectsStudied: 2, Plans: 1, MinutesStudied: 105}, st)
}

func TestChangePassword(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/change-password/", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"message":"Contraseña actualizada"}`))
	}))
	defer srv.Close()

	repo := NewRepo(api.New(srv.URL))
	msg, err := repo.ChangePassword(context.Background(), PasswordChange{Old: "old", New: "newpass", Confirm: "newpass"})
	require.NoError(t, err)
	assert.Equal(t, "Contraseña actualizada", msg)
	assert.Equal(t, map[string]any{"old_password": "old", "new_password": "newpass"}, body)
}

func TestChangePasswordRules(t *testing.T) {
	repo := NewRepo(api.New("http://127.0.0.1:0"))
	tests := []struct {
		name string
		in   PasswordChange
	}{
		{name: "short", in: PasswordChange{Old: "a", New: "12345", Confirm: "12345"}},
		{name: "mismatch", in: PasswordChange{Old: "a", New: "123456", Confirm: "123457"}},
		{name: "no old", in: PasswordChange{New: "123456", Confirm: "123456"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.ChangePassword(context.Background(), tt.in)
			assert.True(t, errors.Is(err, validation.ErrInvalid))
		})
	}
}

func TestSaveRequiresNameAndEmail(t *testing.T) {
	var patched Profile
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/usuarios/9/", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&patched)
		_ = json.NewEncoder(w).Encode(patched)
	}))
	defer srv.Close()

	repo := NewRepo(api.New(srv.URL))
	_, err := repo.Save(context.Background(), Profile{ID: 9, Nombre: "", Correo: "x"})
	assert.True(t, errors.Is(err, validation.ErrInvalid))

	p, err := repo.Save(context.Background(), Profile{ID: 9, Nombre: "Ana", Correo: "ana@mail.com", NivelEstudios: "Universidad", Disponibilidad: true})
	require.NoError(t, err)
	assert.Equal(t, "Universidad", p.NivelEstudios)
}
