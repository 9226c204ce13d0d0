package todo

import (
	"strings"
	"time"
)

const (
	// DateLayout is the storage form for task dates.
	DateLayout = "2006-01-02"
	// DisplayDateLayout is the form shown to and accepted from users.
	DisplayDateLayout = "01/02/2006"
	// TimeLayout is the storage form for task times (24-hour clock).
	TimeLayout = "15:04"
	// DisplayTimeLayout is the 12-hour rendering of a task time.
	DisplayTimeLayout = "3:04 PM"
)

// CanonicalDate converts a date in either storage (YYYY-MM-DD) or display
// (MM/DD/YYYY) form to storage form. Out-of-range dates such as 02/30/2024
// are rejected with a ValidationError.
func CanonicalDate(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", validationError("Please enter a date.")
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.Format(DateLayout), nil
	}
	if t, err := time.Parse(DisplayDateLayout, s); err == nil {
		return t.Format(DateLayout), nil
	}
	return "", validationError("Invalid date, use MM/DD/YYYY.")
}

// DisplayDate renders a storage-form date as MM/DD/YYYY. Values that are
// not in storage form are returned unchanged.
func DisplayDate(canonical string) string {
	t, err := time.Parse(DateLayout, canonical)
	if err != nil {
		return canonical
	}
	return t.Format(DisplayDateLayout)
}

// CanonicalTime normalizes a 24-hour HH:MM time to storage form.
func CanonicalTime(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", validationError("Please enter a time.")
	}
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return "", validationError("Invalid time, use HH:MM (24-hour).")
	}
	return t.Format(TimeLayout), nil
}

// DisplayTime renders a storage-form time on a 12-hour clock, e.g. "4:00 PM".
func DisplayTime(canonical string) string {
	t, err := time.Parse(TimeLayout, canonical)
	if err != nil {
		return canonical
	}
	return t.Format(DisplayTimeLayout)
}
