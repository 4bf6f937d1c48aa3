package application

import (
	"net/mail"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// validDate reports whether value is a calendar date in YYYY-MM-DD form.
func validDate(value string) bool {
	_, err := time.Parse(dateLayout, value)
	return err == nil
}

// validClock accepts HH:MM and HH:MM:SS.
func validClock(value string) bool {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}

func validEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	return err == nil && addr.Address == value && strings.Contains(value, "@")
}

func normalizeOptionalString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

// checkOptionalDate validates a nullable date column.
func checkOptionalDate(vErr *ValidationError, field string, value *string) {
	if value != nil && !validDate(*value) {
		vErr.add(field, field+" deve estar no formato AAAA-MM-DD")
	}
}

// Age returns the completed years between birth (YYYY-MM-DD) and now, or nil
// when birth is missing, malformed or in the future.
func Age(birth *string, now time.Time) *int {
	if birth == nil {
		return nil
	}
	born, err := time.Parse(dateLayout, *birth)
	if err != nil {
		return nil
	}
	years := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		years--
	}
	if years < 0 {
		return nil
	}
	return &years
}
