package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

type User struct {
	ID        uint   `gorm:"primaryKey"`
	UserUid   string `gorm:"type:uuid;uniqueIndex;not null"`
	Email     string `gorm:"size:120;not null;uniqueIndex"`
	FullName  string `gorm:"size:120"`
	Role      string `gorm:"size:20;not null;default:'customer'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Warehouse struct {
	ID            uint    `gorm:"primaryKey"`
	WarehouseUid  string  `gorm:"type:uuid;uniqueIndex;not null"`
	Name          string  `gorm:"size:120;not null"`
	Description   string
	Address       string  `gorm:"not null"`
	City          string  `gorm:"size:80;not null"`
	State         string  `gorm:"size:80"`
	ZipCode       string  `gorm:"size:20"`
	SizeSqft      int     `gorm:"not null;check:size_sqft > 0"`
	PricePerMonth float64 `gorm:"not null;check:price_per_month > 0"`
	Features      datatypes.JSON
	Images        datatypes.JSON
	IsAvailable   bool `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Booking struct {
	ID            uint      `gorm:"primaryKey"`
	BookingUid    string    `gorm:"type:uuid;uniqueIndex;not null"`
	WarehouseUid  string    `gorm:"type:uuid;index;not null"`
	UserUid       string    `gorm:"type:uuid;index;not null"`
	StartDate     time.Time `gorm:"not null"`
	EndDate       time.Time `gorm:"not null"`
	TotalAmount   float64   `gorm:"not null"`
	Status        string    `gorm:"size:20;not null;index"`
	PaymentStatus string    `gorm:"size:20;not null"`
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Payment is written exactly once, on a successful charge. Failed
// attempts are never persisted.
type Payment struct {
	ID            uint    `gorm:"primaryKey"`
	PaymentUid    string  `gorm:"type:uuid;uniqueIndex;not null"`
	BookingUid    string  `gorm:"type:uuid;index;not null"`
	Amount        float64 `gorm:"not null"`
	PaymentMethod string  `gorm:"size:40;not null"`
	TransactionID string  `gorm:"size:80;not null"`
	Status        string  `gorm:"size:20;not null"`
	CreatedAt     time.Time
}

// StringList marshals a slice into a JSON column value.
func StringList(items []string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items)
	return datatypes.JSON(b)
}

// StringsFrom decodes a JSON column back into a slice. Malformed or
// empty column values come back as an empty slice.
func StringsFrom(j datatypes.JSON) []string {
	var items []string
	if err := json.Unmarshal(j, &items); err != nil || items == nil {
		return []string{}
	}
	return items
}
