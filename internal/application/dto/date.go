package dto

import (
	"fmt"
	"time"
)

// DateLayout formato de fechas sin hora en la API.
const DateLayout = "2006-01-02"

// ParseDate convierte "YYYY-MM-DD" en fecha UTC. Cadena vacía devuelve nil.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("fecha %q: %w", s, err)
	}
	return &t, nil
}

// Today devuelve la fecha (sin hora) de t en UTC.
func Today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
