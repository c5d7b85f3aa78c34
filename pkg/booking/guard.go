package booking

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"warehub/pkg/models"
)

const dateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD value into a midnight UTC date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidRange, s)
	}
	return t.UTC(), nil
}

// Today truncates a moment to its UTC calendar date.
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidateRange checks the input constraints of a proposed rental
// period: end must not precede start, and start must not lie strictly
// in the past relative to the booking moment.
func ValidateRange(start, end, today time.Time) error {
	if end.Before(start) {
		return fmt.Errorf("%w: end date before start date", ErrInvalidRange)
	}
	if start.Before(today) {
		return fmt.Errorf("%w: start date is in the past", ErrInvalidRange)
	}
	return nil
}

// CanBook reports whether a warehouse is free over [start, end]. It is
// a pure read used for fast user feedback; the write-time locked check
// inside Create is the actual arbiter of the no-overlap invariant.
func CanBook(db *gorm.DB, warehouseUid string, start, end, today time.Time) error {
	if err := ValidateRange(start, end, today); err != nil {
		return err
	}
	return overlapCheck(db, warehouseUid, start, end, false)
}

// overlapCheck rejects with ErrOverlap when any pending or confirmed
// booking for the warehouse shares at least one calendar day with
// [start, end]. Two intervals overlap iff a.start <= b.end and
// b.start <= a.end (inclusive on both bounds).
//
// With forUpdate set the candidate rows are locked for the duration of
// the surrounding transaction, serializing concurrent attempts on the
// same warehouse. SQLite (the test dialect) has no row locks; its
// transactions are serialized by the single writer.
func overlapCheck(db *gorm.DB, warehouseUid string, start, end time.Time, forUpdate bool) error {
	q := db.Model(&models.Booking{}).
		Where("warehouse_uid = ? AND status IN ?", warehouseUid,
			[]string{models.BookingStatusPending, models.BookingStatusConfirmed}).
		Where("start_date <= ? AND end_date >= ?", end, start)
	if forUpdate && db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var conflict models.Booking
	err := q.Take(&conflict).Error
	if err == nil {
		return ErrOverlap
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}
