package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nelson200402/Educacion/internal/calendar"
	"github.com/Nelson200402/Educacion/internal/domain/sessions"
)

type recordingSetter struct {
	log *[]string
	err error
}

func (r recordingSetter) SetDone(context.Context, int64, bool) error {
	*r.log = append(*r.log, "request")
	return r.err
}

func toggleFixture(log *[]string) (*calendar.View, func()) {
	v := &calendar.View{}
	v.Replace([]sessions.Session{{ID: 5, Name: "A", Date: "2025-12-15", StartTime: "08:00"}})
	render := func() {
		s, _ := v.Get(5)
		if s.Done {
			*log = append(*log, "render done")
		} else {
			*log = append(*log, "render pending")
		}
	}
	return v, render
}

func TestToggleRenderedDrawsBeforeRequest(t *testing.T) {
	var log []string
	v, render := toggleFixture(&log)

	done, err := toggleRendered(context.Background(), v, 5, recordingSetter{log: &log}, render)
	require.NoError(t, err)

	assert.True(t, done)
	assert.Equal(t, []string{"render done", "request"}, log)
}

func TestToggleRenderedRedrawsOnRollback(t *testing.T) {
	var log []string
	v, render := toggleFixture(&log)
	boom := errors.New("backend down")

	done, err := toggleRendered(context.Background(), v, 5, recordingSetter{log: &log, err: boom}, render)
	require.ErrorIs(t, err, boom)

	assert.False(t, done)
	assert.Equal(t, []string{"render done", "request", "render pending"}, log)
}

func TestToggleRenderedUnknownSession(t *testing.T) {
	var log []string
	v, render := toggleFixture(&log)

	_, err := toggleRendered(context.Background(), v, 99, recordingSetter{log: &log}, render)
	assert.ErrorIs(t, err, calendar.ErrSessionNotFound)
	assert.Empty(t, log)
}
