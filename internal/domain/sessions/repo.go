package sessions

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Nelson200402/Educacion/internal/api"
	"github.com/Nelson200402/Educacion/internal/validation"
)

type Repo struct{ api *api.Client }

func NewRepo(c *api.Client) *Repo { return &Repo{api: c} }

// List returns the caller's sessions; the backend filters by token.
func (r *Repo) List(ctx context.Context) ([]Session, error) {
	var out []Session
	if err := r.api.Get(ctx, "/secciones/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) ListByDate(ctx context.Context, date string) ([]Session, error) {
	var out []Session
	if err := r.api.Get(ctx, "/secciones/?fecha="+url.QueryEscape(date), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (*Session, error) {
	var out Session
	if err := r.api.Get(ctx, fmt.Sprintf("/secciones/%d/", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) Create(ctx context.Context, in Create) (*Session, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	var out Session
	if err := r.api.Post(ctx, "/secciones/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) Update(ctx context.Context, id int64, in Create) (*Session, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	var out Session
	if err := r.api.Put(ctx, fmt.Sprintf("/secciones/%d/", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	return r.api.Delete(ctx, fmt.Sprintf("/secciones/%d/", id), nil)
}

// SetDone sends a partial update of the completion flag only.
func (r *Repo) SetDone(ctx context.Context, id int64, done bool) error {
	return r.api.Patch(ctx, fmt.Sprintf("/secciones/%d/", id), map[string]bool{"estado": done}, nil)
}
