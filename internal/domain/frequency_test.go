package domain

import (
	"testing"
	"time"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestFrequencyMonths(t *testing.T) {
	tests := []struct {
		frequency Frequency
		want      int
	}{
		{FrequencyMonthly, 1},
		{FrequencyBimonthly, 2},
		{FrequencyQuarterly, 3},
		{FrequencySemiannually, 6},
		{FrequencyAnnually, 12},
		{Frequency("weekly"), 0},
		{Frequency(""), 0},
	}

	for _, tt := range tests {
		if got := tt.frequency.Months(); got != tt.want {
			t.Errorf("Months(%q): expected %d, got %d", tt.frequency, tt.want, got)
		}
	}
}

func TestNextDueDate_ReferenceBeforeStart(t *testing.T) {
	start := date(2025, 3, 15)
	got := NextDueDate(start, FrequencyMonthly, date(2025, 1, 1))
	if !got.Equal(start) {
		t.Errorf("Expected start date %v, got %v", start, got)
	}
}

func TestNextDueDate_ReferenceOnOccurrence(t *testing.T) {
	start := date(2025, 1, 10)
	got := NextDueDate(start, FrequencyMonthly, date(2025, 4, 10))
	if !got.Equal(date(2025, 4, 10)) {
		t.Errorf("Expected 2025-04-10, got %v", got)
	}
}

func TestNextDueDate_Monthly(t *testing.T) {
	start := date(2025, 1, 10)
	got := NextDueDate(start, FrequencyMonthly, date(2025, 3, 11))
	if !got.Equal(date(2025, 4, 10)) {
		t.Errorf("Expected 2025-04-10, got %v", got)
	}
}

func TestNextDueDate_Day31ClampsInFebruary(t *testing.T) {
	start := date(2025, 1, 31)

	got := NextDueDate(start, FrequencyMonthly, date(2025, 2, 1))
	if !got.Equal(date(2025, 2, 28)) {
		t.Errorf("Expected 2025-02-28, got %v", got)
	}

	// Leap year clamps to the 29th
	got = NextDueDate(date(2024, 1, 31), FrequencyMonthly, date(2024, 2, 1))
	if !got.Equal(date(2024, 2, 29)) {
		t.Errorf("Expected 2024-02-29, got %v", got)
	}
}

func TestNextDueDate_ClampDoesNotDriftFollowingMonth(t *testing.T) {
	// After clamping to Feb 28, the March occurrence returns to the 31st.
	start := date(2025, 1, 31)
	got := NextDueDate(start, FrequencyMonthly, date(2025, 3, 1))
	if !got.Equal(date(2025, 3, 31)) {
		t.Errorf("Expected 2025-03-31, got %v", got)
	}
}

func TestNextDueDate_Quarterly(t *testing.T) {
	start := date(2025, 1, 15)

	tests := []struct {
		name      string
		reference time.Time
		want      time.Time
	}{
		{"within first period", date(2025, 2, 1), date(2025, 4, 15)},
		{"just after occurrence", date(2025, 4, 16), date(2025, 7, 15)},
		{"year later", date(2026, 1, 1), date(2026, 1, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextDueDate(start, FrequencyQuarterly, tt.reference)
			if !got.Equal(tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNextDueDate_Annually(t *testing.T) {
	start := date(2020, 6, 1)
	got := NextDueDate(start, FrequencyAnnually, date(2025, 6, 2))
	if !got.Equal(date(2026, 6, 1)) {
		t.Errorf("Expected 2026-06-01, got %v", got)
	}
}

func TestNextDueDate_SemiannualLongRange(t *testing.T) {
	// A reference many years out must not walk one month at a time.
	start := date(2000, 8, 31)
	got := NextDueDate(start, FrequencySemiannually, date(2030, 3, 1))
	if !got.Equal(date(2030, 8, 31)) {
		t.Errorf("Expected 2030-08-31, got %v", got)
	}
}

func TestNextDueDate_IgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2025, 1, 10, 17, 45, 0, 0, time.UTC)
	reference := time.Date(2025, 1, 10, 23, 59, 59, 0, time.UTC)
	got := NextDueDate(start, FrequencyMonthly, reference)
	if !got.Equal(date(2025, 1, 10)) {
		t.Errorf("Expected 2025-01-10, got %v", got)
	}
}
