package profiles

import (
	"context"
	"fmt"

	"github.com/Nelson200402/Educacion/internal/api"
	"github.com/Nelson200402/Educacion/internal/validation"
)

type Repo struct{ api *api.Client }

func NewRepo(c *api.Client) *Repo { return &Repo{api: c} }

func (r *Repo) List(ctx context.Context) ([]Profile, error) {
	var out []Profile
	if err := r.api.Get(ctx, "/usuarios/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (*Profile, error) {
	var out Profile
	if err := r.api.Get(ctx, fmt.Sprintf("/usuarios/%d/", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Save validates the full profile and sends it as a partial update.
func (r *Repo) Save(ctx context.Context, p Profile) (*Profile, error) {
	if err := validation.Struct(p); err != nil {
		return nil, err
	}
	return r.Patch(ctx, p.ID, p)
}

func (r *Repo) Patch(ctx context.Context, id int64, fields any) (*Profile, error) {
	var out Profile
	if err := r.api.Patch(ctx, fmt.Sprintf("/usuarios/%d/", id), fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type passwordResponse struct {
	Message string `json:"message"`
}

func (r *Repo) ChangePassword(ctx context.Context, in PasswordChange) (string, error) {
	if err := validation.Struct(in); err != nil {
		return "", err
	}
	var out passwordResponse
	if err := r.api.Post(ctx, "/auth/change-password/", in, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
