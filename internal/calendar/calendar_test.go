package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nelson200402/Educacion/internal/domain/sessions"
)

type fakeRemote struct {
	err      error
	seenDone *bool
	view     *View
	calls    int
}

func (f *fakeRemote) SetDone(_ context.Context, id int64, done bool) error {
	f.calls++
	if f.view != nil {
		s, _ := f.view.Get(id)
		f.seenDone = &s.Done
	}
	return f.err
}

func loaded() *View {
	v := &View{}
	v.Replace([]sessions.Session{
		{ID: 1, Date: "2025-12-15", StartTime: "15:00:00.123"},
		{ID: 2, Date: "2025-12-15", StartTime: "08:00"},
		{ID: 3, Date: "2025-12-16", StartTime: "09:00"},
		{ID: 4, Date: "2025-12-15"},
		{ID: 5, Date: "2025-12-15 ", StartTime: "07:00"},
	})
	return v
}

func TestDayFiltersAndSorts(t *testing.T) {
	day := loaded().Day("2025-12-15")

	require.Len(t, day, 3)
	assert.Equal(t, int64(2), day[0].ID)
	assert.Equal(t, "08:00", day[0].Time)
	assert.Equal(t, int64(4), day[1].ID)
	assert.Equal(t, sessions.DefaultTime, day[1].Time)
	assert.Equal(t, int64(1), day[2].ID)
	assert.Equal(t, "15:00", day[2].Time)
}

func TestDates(t *testing.T) {
	assert.Equal(t, []string{"2025-12-15", "2025-12-15 ", "2025-12-16"}, loaded().Dates())
}

func TestToggleConfirmed(t *testing.T) {
	v := loaded()
	remote := &fakeRemote{view: v}

	done, err := v.Toggle(context.Background(), 2, remote)
	require.NoError(t, err)
	assert.True(t, done)
	require.NotNil(t, remote.seenDone)
	assert.True(t, *remote.seenDone, "local state flips before the request")

	s, _ := v.Get(2)
	assert.True(t, s.Done)
}

func TestToggleRollsBack(t *testing.T) {
	v := loaded()
	remote := &fakeRemote{view: v, err: errors.New("500")}

	done, err := v.Toggle(context.Background(), 2, remote)
	assert.Error(t, err)
	assert.False(t, done)
	assert.True(t, *remote.seenDone)

	s, _ := v.Get(2)
	assert.False(t, s.Done)
}

func TestToggleUnknownSession(t *testing.T) {
	remote := &fakeRemote{}
	_, err := loaded().Toggle(context.Background(), 99, remote)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Zero(t, remote.calls)
}

func TestPutAndRemove(t *testing.T) {
	v := loaded()
	v.Put(sessions.Session{ID: 2, Date: "2025-12-20", StartTime: "10:00"})
	v.Put(sessions.Session{ID: 9, Date: "2025-12-20", StartTime: "11:00"})

	assert.Len(t, v.Day("2025-12-20"), 2)
	assert.True(t, v.Remove(9))
	assert.False(t, v.Remove(9))
	assert.Equal(t, 5, v.Len())
}

func TestViewsPerChat(t *testing.T) {
	vs := NewViews()
	assert.False(t, vs.For(1).Loaded())
	vs.For(1).Replace(nil)
	assert.True(t, vs.For(1).Loaded())
	vs.For(1).Put(sessions.Session{ID: 1})
	assert.Equal(t, 1, vs.For(1).Len())
	assert.Equal(t, 0, vs.For(2).Len())

	all := vs.For(1).All()
	all[0].Name = "changed"
	got, _ := vs.For(1).Get(1)
	assert.Empty(t, got.Name)

	vs.Drop(1)
	assert.Equal(t, 0, vs.For(1).Len())
	assert.False(t, vs.For(1).Loaded())
}

func TestWeek(t *testing.T) {
	// Wednesday
	w := Week(time.Date(2025, 12, 17, 22, 0, 0, 0, time.UTC))
	assert.Equal(t, []string{
		"2025-12-15", "2025-12-16", "2025-12-17", "2025-12-18",
		"2025-12-19", "2025-12-20", "2025-12-21",
	}, w)

	// Sunday stays in the week that started on Monday
	assert.Equal(t, "2025-12-15", Week(time.Date(2025, 12, 21, 0, 0, 0, 0, time.UTC))[0])
}

func TestShiftAndToday(t *testing.T) {
	assert.Equal(t, "2026-01-01", Shift("2025-12-31", 1))
	assert.Equal(t, "2025-02-28", Shift("2025-03-01", -1))
	assert.Equal(t, "bad", Shift("bad", 1))

	now := time.Date(2025, 12, 16, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-12-15", Today(now, time.FixedZone("COT", -5*3600)))
	assert.Equal(t, "2025-12-16", Today(now, nil))
}
