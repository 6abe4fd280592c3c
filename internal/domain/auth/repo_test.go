package auth

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
	"github.com/Nelson200402/Educacion/internal/validation"
)

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login/", r.URL.Path)
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "ana@mail.com", in["username"])
		assert.Equal(t, "secret", in["password"])
		_, _ = w.Write([]byte(`{"token":"t1","user":{"id":3,"username":"ana","email":"ana@mail.com","first_name":"Ana","last_name":"Paz","usuario":{"id":9,"Nombre":"Ana","nivel_estudios":"Universidad"}}}`))
	}))
	defer srv.Close()

	res, err := NewRepo(api.New(srv.URL+"/api")).Login(context.Background(), " ana@mail.com ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "t1", res.Token)
	require.NotNil(t, res.User.Usuario)
	assert.Equal(t, int64(9), res.User.Usuario.ID)
	assert.Equal(t, "Ana Paz", res.User.DisplayName())
}

func TestLoginRejectsBlank(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer srv.Close()

	_, err := NewRepo(api.New(srv.URL)).Login(context.Background(), "  ", "")
	assert.True(t, errors.Is(err, validation.ErrInvalid))
	assert.False(t, called)
}

func TestRegisterBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/register/", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"El usuario ya existe"}`))
	}))
	defer srv.Close()

	_, err := NewRepo(api.New(srv.URL)).Register(context.Background(), "ana", "ana@mail.com", "secret1")
	require.Error(t, err)
	assert.Equal(t, "El usuario ya existe", err.Error())
}

func TestDisplayNameFallback(t *testing.T) {
	assert.Equal(t, "ana", User{Username: "ana"}.DisplayName())
	assert.Equal(t, "Paz", User{Username: "ana", LastName: "Paz"}.DisplayName())
}
