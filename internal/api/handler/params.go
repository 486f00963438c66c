package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/howstheair/dashboard/internal/airquality"
	"github.com/howstheair/dashboard/internal/api/models"
)

// stationID parses the {id} URL parameter.
func stationID(r *http.Request) (int, *models.FieldError) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, &models.FieldError{Field: "id", Message: "must be a positive integer", Code: "INVALID"}
	}
	return id, nil
}

// dateParam parses an optional YYYY-MM-DD query parameter. An empty value
// yields the zero time.
func dateParam(r *http.Request, name string) (time.Time, *models.FieldError) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(airquality.DayKeyLayout, raw)
	if err != nil {
		return time.Time{}, &models.FieldError{Field: name, Message: "must be a date in YYYY-MM-DD format", Code: "INVALID_FORMAT"}
	}
	return t, nil
}

// intParam parses an optional integer query parameter within [lo, hi].
func intParam(r *http.Request, name string, def, lo, hi int) (int, *models.FieldError) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		return 0, &models.FieldError{
			Field:   name,
			Message: fmt.Sprintf("must be an integer between %d and %d", lo, hi),
			Code:    "OUT_OF_RANGE",
		}
	}
	return n, nil
}

// collect drops nil field errors.
func collect(errs ...*models.FieldError) []models.FieldError {
	var out []models.FieldError
	for _, e := range errs {
		if e != nil {
			out = append(out, *e)
		}
	}
	return out
}
