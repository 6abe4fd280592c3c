package ai

import (
	"context"
	"strings"

	"github.com/Nelson200402/Educacion/internal/api"
	"github.com/Nelson200402/Educacion/internal/validation"
)

type Repo struct{ api *api.Client }

func NewRepo(c *api.Client) *Repo { return &Repo{api: c} }

// Recommend asks the backend assistant (/ia/) a free-form question on behalf of a profile.
func (r *Repo) Recommend(ctx context.Context, profileID int64, question string) (*Recommendation, error) {
	in := RecommendRequest{UsuarioID: profileID, Question: strings.TrimSpace(question)}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	var out Recommendation
	if err := r.api.Post(ctx, "/ia/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateCalendar lets the backend author a plan and its sessions.
func (r *Repo) GenerateCalendar(ctx context.Context, in CalendarRequest) (*CalendarResponse, error) {
	var out CalendarResponse
	if err := r.api.Post(ctx, "/inteligencia/generar_calendario/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
