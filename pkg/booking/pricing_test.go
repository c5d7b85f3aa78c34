package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDayCountInclusive(t *testing.T) {
	assert.Equal(t, 1, DayCount(date(2024, 1, 1), date(2024, 1, 1)))
	assert.Equal(t, 10, DayCount(date(2024, 1, 1), date(2024, 1, 10)))
	assert.Equal(t, 30, DayCount(date(2024, 1, 1), date(2024, 1, 30)))
	assert.Equal(t, 32, DayCount(date(2024, 1, 31), date(2024, 3, 2)))
}

func TestComputeTotalRegressionExample(t *testing.T) {
	// 30 days at 3000/month: 30 / 30.44 months = 2956.64 after
	// rounding half-up to cents.
	total := ComputeTotal(3000, date(2024, 1, 1), date(2024, 1, 30))
	assert.InDelta(t, 2956.64, total, 0.001)
}

func TestComputeTotalOneDayIsSmallButNonzero(t *testing.T) {
	total := ComputeTotal(3000, date(2024, 6, 1), date(2024, 6, 1))
	assert.Greater(t, total, 0.0)
	assert.InDelta(t, 98.55, total, 0.001)
}

func TestComputeTotalDeterministic(t *testing.T) {
	a := ComputeTotal(1234.56, date(2024, 3, 5), date(2024, 5, 20))
	b := ComputeTotal(1234.56, date(2024, 3, 5), date(2024, 5, 20))
	assert.Equal(t, a, b)
}

func TestComputeTotalRoundsToCents(t *testing.T) {
	total := ComputeTotal(999.99, date(2024, 1, 1), date(2024, 1, 7))
	assert.Equal(t, total, roundCents(total))
}
