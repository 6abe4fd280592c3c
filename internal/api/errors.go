package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnauthorized = errors.New("api: unauthorized")
	ErrNotFound     = errors.New("api: not found")
)

// Error is a non-2xx answer from the backend. Message is already user-facing.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// errorMessage picks "error", then "detail", then the raw text, then "HTTP <status>".
func errorMessage(status int, body []byte) string {
	text := strings.TrimSpace(string(body))
	if text != "" {
		var data map[string]any
		if err := json.Unmarshal(body, &data); err == nil {
			for _, key := range []string{"error", "detail"} {
				if s := stringField(data[key]); s != "" {
					return s
				}
			}
		}
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}

func stringField(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}
