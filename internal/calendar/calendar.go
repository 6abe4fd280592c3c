// Package calendar keeps the loaded sessions of each chat and derives the per-day view.
package calendar

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Nelson200402/Educacion/internal/domain/sessions"
	"github.com/Nelson200402/Educacion/internal/optimistic"
)

const DateLayout = "2006-01-02"

var ErrSessionNotFound = errors.New("calendar: session not loaded")

type DoneSetter interface {
	SetDone(ctx context.Context, id int64, done bool) error
}

// Entry is one row of the day view.
type Entry struct {
	sessions.Session
	Time string
}

// View is the loaded session set of one chat.
type View struct {
	mu     sync.Mutex
	items  []sessions.Session
	loaded bool
}

// Replace swaps the whole set; the last load wins.
func (v *View) Replace(items []sessions.Session) {
	cp := make([]sessions.Session, len(items))
	copy(cp, items)

	v.mu.Lock()
	v.items = cp
	v.loaded = true
	v.mu.Unlock()
}

// Loaded reports whether Replace was called since the view was created.
func (v *View) Loaded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loaded
}

// All returns a copy of the loaded sessions.
func (v *View) All() []sessions.Session {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]sessions.Session, len(v.items))
	copy(out, v.items)
	return out
}

// Put inserts s or replaces the loaded session with the same id.
func (v *View) Put(s sessions.Session) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if i := v.index(s.ID); i >= 0 {
		v.items[i] = s
		return
	}
	v.items = append(v.items, s)
}

func (v *View) Remove(id int64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	i := v.index(id)
	if i < 0 {
		return false
	}
	v.items = append(v.items[:i], v.items[i+1:]...)
	return true
}

func (v *View) Get(id int64) (sessions.Session, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if i := v.index(id); i >= 0 {
		return v.items[i], true
	}
	return sessions.Session{}, false
}

func (v *View) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.items)
}

// Day returns the sessions dated exactly date, ordered by HH:MM start time.
func (v *View) Day(date string) []Entry {
	v.mu.Lock()
	var out []Entry
	for _, s := range v.items {
		if s.Date == date {
			out = append(out, Entry{Session: s, Time: s.Time()})
		}
	}
	v.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// Dates lists the distinct dates that have sessions, ascending.
func (v *View) Dates() []string {
	v.mu.Lock()
	seen := make(map[string]struct{}, len(v.items))
	for _, s := range v.items {
		seen[s.Date] = struct{}{}
	}
	v.mu.Unlock()

	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Toggle flips the done flag locally, then confirms it remotely. On failure the
// previous value is restored. Concurrent toggles of one session are last-write-wins.
func (v *View) Toggle(ctx context.Context, id int64, remote DoneSetter) (bool, error) {
	s, ok := v.Get(id)
	if !ok {
		return false, ErrSessionNotFound
	}
	prev, next := s.Done, !s.Done

	cmd := optimistic.Command{
		Apply: func() { v.setDone(id, next) },
		Undo:  func() { v.setDone(id, prev) },
	}
	if err := optimistic.Run(ctx, cmd, func(ctx context.Context) error {
		return remote.SetDone(ctx, id, next)
	}); err != nil {
		return prev, err
	}
	return next, nil
}

func (v *View) setDone(id int64, done bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if i := v.index(id); i >= 0 {
		v.items[i].Done = done
	}
}

func (v *View) index(id int64) int {
	for i := range v.items {
		if v.items[i].ID == id {
			return i
		}
	}
	return -1
}

// Views holds one View per chat.
type Views struct {
	mu    sync.Mutex
	chats map[int64]*View
}

func NewViews() *Views {
	return &Views{chats: make(map[int64]*View)}
}

func (vs *Views) For(chatID int64) *View {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	v, ok := vs.chats[chatID]
	if !ok {
		v = &View{}
		vs.chats[chatID] = v
	}
	return v
}

func (vs *Views) Drop(chatID int64) {
	vs.mu.Lock()
	delete(vs.chats, chatID)
	vs.mu.Unlock()
}

// Week returns the seven dates of the Monday-started week containing anchor.
func Week(anchor time.Time) []string {
	y, m, d := anchor.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -offset)

	out := make([]string, 7)
	for i := range out {
		out[i] = monday.AddDate(0, 0, i).Format(DateLayout)
	}
	return out
}

// Shift moves a YYYY-MM-DD date by days; an unparsable date is returned unchanged.
func Shift(date string, days int) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, days).Format(DateLayout)
}

// Today formats now as a civil date in loc.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(DateLayout)
}
