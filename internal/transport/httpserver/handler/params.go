package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	directorydomain "directory-app-go/internal/domain/directory"
	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

func parseDateParam(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// parseIntDefault never fails: missing or non-numeric input yields fallback.
func parseIntDefault(value string, fallback int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

func parseMemberID(r *http.Request) (uint, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid member id %q", raw)
	}
	return uint(id), nil
}

func parseDirectoryQuery(r *http.Request) (directorydomain.Query, error) {
	values := r.URL.Query()

	query := directorydomain.Query{
		State:    values.Get("state"),
		Branch:   values.Get("branch"),
		Position: values.Get("position"),
		Gender:   values.Get("gender"),
		Text:     firstNonEmpty(values.Get("q"), values.Get("search")),
		Page:     parseIntDefault(values.Get("page"), 1),
		PageSize: parseIntDefault(values.Get("pageSize"), directorydomain.DefaultPageSize),
	}

	if raw := strings.TrimSpace(values.Get("status")); raw != "" {
		status, ok := directorydomain.ParseStatus(raw)
		if !ok {
			return directorydomain.Query{}, fmt.Errorf("invalid status %q", raw)
		}
		query.Status = status
	}

	return query, nil
}

// optionalDate tells "absent" apart from "null" in PATCH bodies.
type optionalDate struct {
	Set   bool
	Value *time.Time
}

type dateError struct {
	value string
}

func (e *dateError) Error() string {
	return fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", e.value)
}

func (d *optionalDate) UnmarshalJSON(data []byte) error {
	d.Set = true
	if string(data) == "null" {
		d.Value = nil
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return &dateError{value: string(data)}
	}
	parsed, err := parseDateParam(raw)
	if err != nil {
		return &dateError{value: raw}
	}
	d.Value = parsed
	return nil
}

func (d optionalDate) change() directorydomain.DateChange {
	return directorydomain.DateChange{Set: d.Set, Value: d.Value}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
