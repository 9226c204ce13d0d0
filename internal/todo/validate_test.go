package todo

import (
	"errors"
	"testing"
)

func TestCanonicalDateRoundTrip(t *testing.T) {
	// Display form -> storage form -> display form must be lossless.
	dates := []string{"10/16/2022", "01/01/2000", "02/29/2024", "12/31/1999"}
	for _, d := range dates {
		canonical, err := CanonicalDate(d)
		if err != nil {
			t.Fatalf("CanonicalDate(%q) returned error: %v", d, err)
		}
		if got := DisplayDate(canonical); got != d {
			t.Errorf("round trip of %q: got %q via %q", d, got, canonical)
		}
	}
}

func TestCanonicalDateAcceptsStorageForm(t *testing.T) {
	canonical, err := CanonicalDate("2024-03-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if canonical != "2024-03-01" {
		t.Errorf("expected 2024-03-01, got %q", canonical)
	}
}

func TestCanonicalDateRejectsInvalid(t *testing.T) {
	invalid := []string{"02/30/2024", "13/01/2024", "2024-13-01", "2024-02-30", "yesterday", ""}
	for _, d := range invalid {
		_, err := CanonicalDate(d)
		if err == nil {
			t.Errorf("CanonicalDate(%q) should have failed", d)
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("CanonicalDate(%q) returned %T, want *ValidationError", d, err)
		}
	}
}

func TestCanonicalTime(t *testing.T) {
	canonical, err := CanonicalTime("9:05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if canonical != "09:05" {
		t.Errorf("expected 09:05, got %q", canonical)
	}

	for _, bad := range []string{"25:00", "12:60", "noon", ""} {
		if _, err := CanonicalTime(bad); err == nil {
			t.Errorf("CanonicalTime(%q) should have failed", bad)
		}
	}
}

func TestDisplayTime(t *testing.T) {
	if got := DisplayTime("16:00"); got != "4:00 PM" {
		t.Errorf("expected 4:00 PM, got %q", got)
	}
	if got := DisplayTime("00:30"); got != "12:30 AM" {
		t.Errorf("expected 12:30 AM, got %q", got)
	}
}
