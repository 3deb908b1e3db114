package util

import "time"

// PeriodKey normalizes a date to the first day of its calendar month at
// midnight UTC. Period keys identify which month a ledger record belongs to.
func PeriodKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// PreviousPeriod returns the period key of the month before the given period.
func PreviousPeriod(period time.Time) time.Time {
	return PeriodKey(period.AddDate(0, -1, 0))
}

// LastDayOfMonth returns the last calendar day of the month containing t.
func LastDayOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}

// IsHistoricalMonth returns true if the given year/month is before the month
// containing now.
func IsHistoricalMonth(year, month int, now time.Time) bool {
	if year < now.Year() {
		return true
	}
	return year == now.Year() && month < int(now.Month())
}

// CalculateActualDate returns the actual date for a target day in a given month,
// handling months with fewer days (e.g., day 31 in February returns Feb 28/29)
func CalculateActualDate(year int, month time.Month, targetDay int) time.Time {
	// Get last day of month by going to day 0 of next month
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	actualDay := targetDay
	if actualDay < 1 {
		actualDay = 1
	}
	if actualDay > lastDay {
		actualDay = lastDay
	}

	return time.Date(year, month, actualDay, 0, 0, 0, 0, time.UTC)
}
