package auth

import (
	"context"
	"strings"

	"github.com/Nelson200402/Educacion/internal/api"
	"github.com/Nelson200402/Educacion/internal/validation"
)

type Repo struct{ api *api.Client }

func NewRepo(c *api.Client) *Repo { return &Repo{api: c} }

func (r *Repo) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	in := Credentials{Username: strings.TrimSpace(username), Password: password}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	var out LoginResponse
	if err := r.api.Post(ctx, "/auth/login/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) Register(ctx context.Context, username, email, password string) (*LoginResponse, error) {
	in := Registration{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Password: password,
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	var out LoginResponse
	if err := r.api.Post(ctx, "/auth/register/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
