package subjects

import (
	"context"
	"fmt"
	"strings"

	"github.com/Nelson200402/Educacion/internal/api"
	"github.com/Nelson200402/Educacion/internal/validation"
)

type Repo struct{ api *api.Client }

func NewRepo(c *api.Client) *Repo { return &Repo{api: c} }

// List returns subjects sorted by name.
func (r *Repo) List(ctx context.Context) ([]Subject, error) {
	var out []Subject
	if err := r.api.Get(ctx, "/materias/", &out); err != nil {
		return nil, err
	}
	SortByName(out)
	return out, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (*Subject, error) {
	var out Subject
	if err := r.api.Get(ctx, fmt.Sprintf("/materias/%d/", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) Create(ctx context.Context, s Subject) (*Subject, error) {
	s = clean(s)
	if err := validation.Struct(s); err != nil {
		return nil, err
	}
	var out Subject
	if err := r.api.Post(ctx, "/materias/", s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) Update(ctx context.Context, s Subject) (*Subject, error) {
	s = clean(s)
	if err := validation.Struct(s); err != nil {
		return nil, err
	}
	var out Subject
	if err := r.api.Put(ctx, fmt.Sprintf("/materias/%d/", s.ID), s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Patch sends only the given fields.
func (r *Repo) Patch(ctx context.Context, id int64, fields map[string]any) (*Subject, error) {
	var out Subject
	if err := r.api.Patch(ctx, fmt.Sprintf("/materias/%d/", id), fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	return r.api.Delete(ctx, fmt.Sprintf("/materias/%d/", id), nil)
}

func clean(s Subject) Subject {
	s.Name = strings.TrimSpace(s.Name)
	s.Difficulty = strings.TrimSpace(s.Difficulty)
	if s.Notes != nil {
		n := strings.TrimSpace(*s.Notes)
		s.Notes = &n
	}
	return s
}
