package services

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// check validates request struct tags. Any failure is an invalid body.
func check(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return ErrInvalidRequest
	}
	return nil
}

// parseDate accepts the formats the frontend produces ("July 1, 2021",
// RFC3339, "2021-07-01"). Empty means now.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now().UTC(), nil
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, ErrInvalidRequest
	}
	return t.UTC(), nil
}
