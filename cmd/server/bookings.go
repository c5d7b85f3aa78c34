package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"warehub/pkg/booking"
	"warehub/pkg/models"
	"warehub/pkg/payment"
)

func bookingJSON(b models.Booking) gin.H {
	return gin.H{
		"bookingUid":    b.BookingUid,
		"warehouseUid":  b.WarehouseUid,
		"userUid":       b.UserUid,
		"startDate":     b.StartDate.Format("2006-01-02"),
		"endDate":       b.EndDate.Format("2006-01-02"),
		"totalAmount":   b.TotalAmount,
		"status":        b.Status,
		"paymentStatus": b.PaymentStatus,
		"notes":         b.Notes,
		"createdAt":     b.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// renderError maps the core's typed rejections onto HTTP statuses.
// Integrity violations deliberately get a generic body: the detail goes
// to the log, not the client.
func renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrOverlap):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrPaymentDeclined):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrIntegrityViolation):
		log.Printf("integrity violation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func createBooking(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req struct {
		WarehouseUid string `json:"warehouseUid" binding:"required"`
		StartDate    string `json:"startDate" binding:"required"`
		EndDate      string `json:"endDate" binding:"required"`
		Notes        string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	b, err := svc.Create(actor, booking.CreateInput{
		WarehouseUid: req.WarehouseUid,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Notes:        req.Notes,
	})
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bookingJSON(*b))
}

func getBookings(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	bookings, err := svc.ListBookings(actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	items := make([]gin.H, len(bookings))
	for i, b := range bookings {
		items[i] = bookingJSON(b)
	}
	c.JSON(http.StatusOK, items)
}

func getBooking(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	b, err := svc.GetBooking(actor, c.Param("bookingUid"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookingJSON(*b))
}

func payBooking(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var card payment.Card
	if err := c.ShouldBindJSON(&card); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	b, p, err := svc.ConfirmPayment(actor, c.Param("bookingUid"), card)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"booking": bookingJSON(*b),
		"payment": gin.H{
			"paymentUid":    p.PaymentUid,
			"bookingUid":    p.BookingUid,
			"amount":        p.Amount,
			"paymentMethod": p.PaymentMethod,
			"transactionId": p.TransactionID,
			"status":        p.Status,
		},
	})
}

func cancelBooking(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	b, err := svc.Cancel(actor, c.Param("bookingUid"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookingJSON(*b))
}

func approveBooking(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	b, err := svc.Approve(actor, c.Param("bookingUid"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookingJSON(*b))
}
