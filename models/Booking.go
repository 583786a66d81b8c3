package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Booking statuses. Pending and confirmed bookings occupy capacity;
// cancelled ones do not. Completed and cancelled are terminal.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// OptionQuantities maps a bookable option key to the reserved quantity.
// Entries with quantity zero are omitted, not stored. Persisted as JSONB.
type OptionQuantities map[string]int

func (q OptionQuantities) Value() (driver.Value, error) {
	if q == nil {
		q = OptionQuantities{}
	}
	return json.Marshal(q)
}

func (q *OptionQuantities) Scan(value interface{}) error {
	if value == nil {
		*q = OptionQuantities{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("unsupported type for OptionQuantities")
	}
	return json.Unmarshal(raw, q)
}

// Total returns the summed quantity across all option keys.
func (q OptionQuantities) Total() int {
	total := 0
	for _, n := range q {
		total += n
	}
	return total
}

// Booking is a date-ranged reservation of option quantities against a
// listing. The range is half-open [StartDate, EndDate): the checkout day
// does not collide with a check-in on the same day. Bookings are append-only
// for auditability; they are status-transitioned, never deleted.
type Booking struct {
	gorm.Model
	Reference   string           `json:"reference" gorm:"type:varchar(40);uniqueIndex"`
	ListingID   uint             `json:"listingID" gorm:"not null;index"`
	CustomerID  uint             `json:"customerID" gorm:"not null;index"`
	ServiceType string           `json:"serviceType" gorm:"type:varchar(20);not null"`
	StartDate   time.Time        `json:"startDate" gorm:"type:date;not null;index"`
	EndDate     time.Time        `json:"endDate" gorm:"type:date;not null;index"`
	Quantities  OptionQuantities `json:"quantities" gorm:"type:jsonb"`
	Status      string           `json:"status" gorm:"type:varchar(20);not null;index"`
	TotalPrice  float64          `json:"totalPrice"`
	Note        string           `json:"note"`

	// Cancellation record, populated only when Status is cancelled.
	CancelReason string     `json:"cancelReason,omitempty"`
	CancelledBy  string     `json:"cancelledBy,omitempty"` // customer, vendor, admin
	CancelledAt  *time.Time `json:"cancelledAt,omitempty"`

	Listing  *Listing `json:"listing,omitempty" gorm:"foreignKey:ListingID"`
	Customer *User    `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
}

// Nights returns the number of nights (or rental days) the booking spans.
func (b *Booking) Nights() int {
	n := int(b.EndDate.Sub(b.StartDate).Hours() / 24)
	if n < 1 {
		n = 1
	}
	return n
}
