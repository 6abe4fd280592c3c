package plans

import (
	"context"
	"fmt"

	"github.com/Nelson200402/Educacion/internal/api"
)

type Repo struct{ api *api.Client }

func NewRepo(c *api.Client) *Repo { return &Repo{api: c} }

func (r *Repo) List(ctx context.Context) ([]Plan, error) {
	var out []Plan
	if err := r.api.Get(ctx, "/planes/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (*Plan, error) {
	var out Plan
	if err := r.api.Get(ctx, fmt.Sprintf("/planes/%d/", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) Create(ctx context.Context, p Plan) (*Plan, error) {
	var out Plan
	if err := r.api.Post(ctx, "/planes/", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) Update(ctx context.Context, p Plan) (*Plan, error) {
	var out Plan
	if err := r.api.Put(ctx, fmt.Sprintf("/planes/%d/", p.ID), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) Patch(ctx context.Context, id int64, fields map[string]any) (*Plan, error) {
	var out Plan
	if err := r.api.Patch(ctx, fmt.Sprintf("/planes/%d/", id), fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	return r.api.Delete(ctx, fmt.Sprintf("/planes/%d/", id), nil)
}
