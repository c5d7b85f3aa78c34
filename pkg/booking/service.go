package booking

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"warehub/pkg/events"
	"warehub/pkg/models"
	"warehub/pkg/payment"
)

// Actor identifies who is performing a lifecycle operation. It is
// always passed in explicitly; the core never reads session state.
type Actor struct {
	Uid  string
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// Service orchestrates booking state transitions. Every transition's
// writes run inside a single transaction so a failure leaves prior
// state untouched.
type Service struct {
	db      *gorm.DB
	gateway payment.Gateway
	queue   *events.Queue
	now     func() time.Time
}

func NewService(db *gorm.DB, gateway payment.Gateway, queue *events.Queue) *Service {
	return &Service{db: db, gateway: gateway, queue: queue, now: time.Now}
}

type CreateInput struct {
	WarehouseUid string
	StartDate    string
	EndDate      string
	Notes        string
}

// Create books a warehouse for [start, end]. The insert transaction
// holds the warehouse row lock while the overlap check runs, and on
// Postgres the bookings_no_overlap exclusion constraint backs the
// check at insert time, so a lost race still comes back as ErrOverlap
// rather than a double booking. The warehouse availability flag is
// recomputed in the same transaction.
func (s *Service) Create(actor Actor, in CreateInput) (*models.Booking, error) {
	start, err := ParseDate(in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(in.EndDate)
	if err != nil {
		return nil, err
	}
	today := Today(s.now())
	if err := ValidateRange(start, end, today); err != nil {
		return nil, err
	}

	b := &models.Booking{
		BookingUid:    uuid.New().String(),
		WarehouseUid:  in.WarehouseUid,
		UserUid:       actor.Uid,
		StartDate:     start,
		EndDate:       end,
		Status:        models.BookingStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		Notes:         in.Notes,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Locking the warehouse row serializes concurrent Creates for
		// the same warehouse even when no candidate booking exists yet
		// for the overlap check below to lock.
		whq := tx.Where("warehouse_uid = ?", in.WarehouseUid)
		if tx.Dialector.Name() == "postgres" {
			whq = whq.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var wh models.Warehouse
		if err := whq.Take(&wh).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: warehouse %s", ErrNotFound, in.WarehouseUid)
			}
			return err
		}

		if err := overlapCheck(tx, in.WarehouseUid, start, end, true); err != nil {
			return err
		}

		b.TotalAmount = ComputeTotal(wh.PricePerMonth, start, end)

		if err := tx.Create(b).Error; err != nil {
			if isOverlapConstraint(err) {
				return ErrOverlap
			}
			return err
		}
		return s.recomputeAvailability(tx, in.WarehouseUid, today)
	})
	if err != nil {
		return nil, err
	}

	s.publish(events.BookingCreated, b, actor)
	return b, nil
}

// ConfirmPayment charges the booking's total through the gateway and,
// on success, confirms the booking and records exactly one Payment.
// A declined charge mutates nothing; the caller may retry.
func (s *Service) ConfirmPayment(actor Actor, bookingUid string, card payment.Card) (*models.Booking, *models.Payment, error) {
	b, err := s.GetBooking(actor, bookingUid)
	if err != nil {
		return nil, nil, err
	}
	if b.PaymentStatus != models.PaymentStatusPending {
		return nil, nil, fmt.Errorf("%w: booking is already %s", ErrForbidden, b.PaymentStatus)
	}
	if b.Status != models.BookingStatusPending && b.Status != models.BookingStatusConfirmed {
		return nil, nil, fmt.Errorf("%w: cannot pay a %s booking", ErrForbidden, b.Status)
	}

	// The gateway call cannot run inside the transaction, so a racing
	// confirmation that wins the guarded update below leaves this
	// charge uncompensated. The guard still admits exactly one Payment
	// row per booking.
	charge, err := s.gateway.Charge(b.TotalAmount, card)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrPaymentDeclined, err)
	}

	// The charged amount must equal the booking total. A mismatch is a
	// fatal integrity error: abort loudly, never silently correct it.
	if charge.Amount != b.TotalAmount {
		log.Printf("ALERT: payment amount mismatch for booking %s: charged %.2f, booked %.2f",
			b.BookingUid, charge.Amount, b.TotalAmount)
		return nil, nil, fmt.Errorf("%w: payment amount mismatch", ErrIntegrityViolation)
	}

	p := &models.Payment{
		PaymentUid:    uuid.New().String(),
		BookingUid:    b.BookingUid,
		Amount:        b.TotalAmount,
		PaymentMethod: "credit_card",
		TransactionID: charge.TransactionID,
		Status:        charge.Status,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Booking{}).
			Where("booking_uid = ? AND payment_status = ?", b.BookingUid, models.PaymentStatusPending).
			Updates(map[string]interface{}{
				"status":         models.BookingStatusConfirmed,
				"payment_status": models.PaymentStatusPaid,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: booking is already paid", ErrForbidden)
		}
		return tx.Create(p).Error
	})
	if err != nil {
		return nil, nil, err
	}

	b.Status = models.BookingStatusConfirmed
	b.PaymentStatus = models.PaymentStatusPaid
	s.publish(events.PaymentPaid, b, actor)
	return b, p, nil
}

// Cancel moves a booking to cancelled and recomputes the warehouse
// availability flag from the bookings that remain active. The owning
// customer may cancel only while the booking is still pending; an
// administrator may cancel anything not yet completed.
func (s *Service) Cancel(actor Actor, bookingUid string) (*models.Booking, error) {
	var b models.Booking
	if err := s.db.Where("booking_uid = ?", bookingUid).Take(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingUid)
		}
		return nil, err
	}

	switch {
	case actor.IsAdmin():
		if b.Status == models.BookingStatusCompleted || b.Status == models.BookingStatusCancelled {
			return nil, fmt.Errorf("%w: booking is %s", ErrForbidden, b.Status)
		}
	case actor.Uid == b.UserUid:
		if b.Status != models.BookingStatusPending {
			return nil, fmt.Errorf("%w: only pending bookings can be cancelled by the customer", ErrForbidden)
		}
	default:
		return nil, fmt.Errorf("%w: not your booking", ErrForbidden)
	}

	allowed := []string{models.BookingStatusPending}
	if actor.IsAdmin() {
		allowed = append(allowed, models.BookingStatusConfirmed)
	}

	today := Today(s.now())
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := transition(tx, b.BookingUid, allowed, map[string]interface{}{
			"status": models.BookingStatusCancelled,
		}); err != nil {
			return err
		}
		return s.recomputeAvailability(tx, b.WarehouseUid, today)
	})
	if err != nil {
		return nil, err
	}

	b.Status = models.BookingStatusCancelled
	s.publish(events.BookingCancelled, &b, actor)
	return &b, nil
}

// Approve confirms a pending booking without touching its payment
// state. Admin only.
func (s *Service) Approve(actor Actor, bookingUid string) (*models.Booking, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	var b models.Booking
	if err := s.db.Where("booking_uid = ?", bookingUid).Take(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingUid)
		}
		return nil, err
	}
	if b.Status != models.BookingStatusPending {
		return nil, fmt.Errorf("%w: booking is %s", ErrForbidden, b.Status)
	}

	if err := transition(s.db, b.BookingUid, []string{models.BookingStatusPending},
		map[string]interface{}{"status": models.BookingStatusConfirmed}); err != nil {
		return nil, err
	}

	b.Status = models.BookingStatusConfirmed
	s.publish(events.BookingConfirmed, &b, actor)
	return &b, nil
}

// GetBooking loads a booking visible to the actor: owners see their
// own, admins see everything. Anything else reads as not found.
func (s *Service) GetBooking(actor Actor, bookingUid string) (*models.Booking, error) {
	var b models.Booking
	if err := s.db.Where("booking_uid = ?", bookingUid).Take(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingUid)
		}
		return nil, err
	}
	if !actor.IsAdmin() && b.UserUid != actor.Uid {
		return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingUid)
	}
	return &b, nil
}

// ListBookings returns the actor's bookings, or all of them for an
// admin, newest first.
func (s *Service) ListBookings(actor Actor) ([]models.Booking, error) {
	q := s.db.Model(&models.Booking{}).Order("created_at DESC")
	if !actor.IsAdmin() {
		q = q.Where("user_uid = ?", actor.Uid)
	}
	var out []models.Booking
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// transition applies a status update only while the booking is still
// in one of the expected states. The status predicate travels with the
// UPDATE itself, so a transition that raced in between the caller's
// read and this write matches zero rows instead of being overwritten.
func transition(tx *gorm.DB, bookingUid string, from []string, updates map[string]interface{}) error {
	res := tx.Model(&models.Booking{}).
		Where("booking_uid = ? AND status IN ?", bookingUid, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: booking is no longer in an eligible state", ErrForbidden)
	}
	return nil
}

// recomputeAvailability derives the cached is_available flag from the
// set of pending/confirmed bookings that still cover today or a future
// date. The original system flipped the flag unconditionally, which
// could mark a warehouse free while another active booking remained;
// recomputing inside the transition transaction closes that gap.
func (s *Service) recomputeAvailability(tx *gorm.DB, warehouseUid string, today time.Time) error {
	var active int64
	err := tx.Model(&models.Booking{}).
		Where("warehouse_uid = ? AND status IN ?", warehouseUid,
			[]string{models.BookingStatusPending, models.BookingStatusConfirmed}).
		Where("end_date >= ?", today).
		Count(&active).Error
	if err != nil {
		return err
	}
	return tx.Model(&models.Warehouse{}).
		Where("warehouse_uid = ?", warehouseUid).
		Update("is_available", active == 0).Error
}

func (s *Service) publish(eventType string, b *models.Booking, actor Actor) {
	if s.queue == nil {
		return
	}
	s.queue.Publish(events.Event{
		Type:         eventType,
		BookingUid:   b.BookingUid,
		WarehouseUid: b.WarehouseUid,
		ActorUid:     actor.Uid,
	})
}

// isOverlapConstraint recognizes the datastore's own last line of
// defense: a range-exclusion or uniqueness violation raised at insert
// time when the locked pre-check lost a race anyway.
func isOverlapConstraint(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23P01" || pgErr.Code == "23505"
	}
	return false
}
