package booking

import (
	"math"
	"time"
)

// avgDaysPerMonth is a fixed constant, not calendar-accurate: a rental
// month is always 30.44 days regardless of which months the range spans.
const avgDaysPerMonth = 30.44

// DayCount returns the number of calendar days in [start, end],
// inclusive of both endpoints. Dates must be midnight-normalized.
func DayCount(start, end time.Time) int {
	return int(end.Sub(start)/(24*time.Hour)) + 1
}

// ComputeTotal prices a rental as monthlyRate pro-rated over the
// inclusive day count, rounded half-up to cents. There is no minimum
// charge: a one-day booking yields a small nonzero amount.
func ComputeTotal(monthlyRate float64, start, end time.Time) float64 {
	months := float64(DayCount(start, end)) / avgDaysPerMonth
	return roundCents(monthlyRate * months)
}

func roundCents(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
