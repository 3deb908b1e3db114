package domain

import "time"

// Frequency is the cadence at which a fixed expense recurs.
type Frequency string

const (
	FrequencyMonthly      Frequency = "monthly"
	FrequencyBimonthly    Frequency = "bimonthly"
	FrequencyQuarterly    Frequency = "quarterly"
	FrequencySemiannually Frequency = "semiannually"
	FrequencyAnnually     Frequency = "annually"
)

// Months returns the number of months in one period of the frequency.
// Returns 0 for unknown frequencies.
func (f Frequency) Months() int {
	switch f {
	case FrequencyMonthly:
		return 1
	case FrequencyBimonthly:
		return 2
	case FrequencyQuarterly:
		return 3
	case FrequencySemiannually:
		return 6
	case FrequencyAnnually:
		return 12
	default:
		return 0
	}
}

// IsValid reports whether f is a known frequency.
func (f Frequency) IsValid() bool {
	return f.Months() != 0
}

// NextDueDate returns the first occurrence of the recurrence pattern on or
// after reference. Occurrences are startDate + k*period months for k >= 0,
// preserving the start date's day of month and clamping to the last valid day
// when the target month is shorter (a start on the 31st falls due on Feb 28/29).
//
// The function is pure: it never reads the wall clock, so callers control
// "today" through reference.
func NextDueDate(startDate time.Time, f Frequency, reference time.Time) time.Time {
	period := f.Months()
	if period == 0 {
		period = 1
	}

	start := truncateToDay(startDate)
	ref := truncateToDay(reference)

	// Skip ahead in whole periods instead of walking month by month, so a
	// reference years past an annual start stays O(1).
	k := 0
	elapsed := (ref.Year()-start.Year())*12 + int(ref.Month()) - int(start.Month())
	if elapsed > 0 {
		k = elapsed / period
	}

	occ := occurrenceAt(start, k*period)
	for occ.Before(ref) {
		k++
		occ = occurrenceAt(start, k*period)
	}
	return occ
}

// occurrenceAt returns the occurrence `months` months after start, clamping
// the day of month to the target month's length.
func occurrenceAt(start time.Time, months int) time.Time {
	totalMonths := int(start.Month()) - 1 + months
	year := start.Year() + totalMonths/12
	month := time.Month(totalMonths%12 + 1)

	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	day := start.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
