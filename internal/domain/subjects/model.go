package subjects

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Subject struct {
	ID         int64   `json:"id,omitempty"`
	Name       string  `json:"Nombre" label:"Nombre" validate:"notblank"`
	Difficulty string  `json:"Dificultad" label:"Dificultad" validate:"omitempty,numeric"`
	Notes      *string `json:"Notas,omitempty"`
}

type Color string

const (
	ColorGreen Color = "green"
	ColorAmber Color = "amber"
	ColorRed   Color = "red"
	ColorGrey  Color = "grey"
)

// DifficultyColor maps an ordinal difficulty: ≤2 green, 3 amber, ≥4 red, anything unparsable grey.
func DifficultyColor(difficulty string) Color {
	n, err := strconv.ParseFloat(strings.TrimSpace(difficulty), 64)
	if err != nil {
		return ColorGrey
	}
	switch {
	case n <= 2:
		return ColorGreen
	case n == 3:
		return ColorAmber
	case n >= 4:
		return ColorRed
	}
	return ColorGrey
}

// Badge is the emoji shown next to a subject in lists.
func (c Color) Badge() string {
	switch c {
	case ColorGreen:
		return "🟢"
	case ColorAmber:
		return "🟡"
	case ColorRed:
		return "🔴"
	}
	return "⚪"
}

func (s Subject) NotesText() string {
	if s.Notes == nil {
		return ""
	}
	return *s.Notes
}

// SortByName orders subjects the way a Spanish reader expects ("Álgebra" before "Biología").
func SortByName(items []Subject) {
	c := collate.New(language.Spanish, collate.IgnoreCase)
	sort.SliceStable(items, func(i, j int) bool {
		return c.CompareString(items[i].Name, items[j].Name) < 0
	})
}

func ByID(items []Subject) map[int64]Subject {
	out := make(map[int64]Subject, len(items))
	for _, s := range items {
		out[s.ID] = s
	}
	return out
}
