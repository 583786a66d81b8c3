package models

import (
	"strconv"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service types a listing can be booked as.
const (
	ServiceTypeStay      = "stay"
	ServiceTypeVehicle   = "vehicle"
	ServiceTypeAdventure = "adventure"
)

// Listing is a vendor-owned bookable entity: a stay, a vehicle rental or an
// adventure/tour. Bookable sub-items (room types, vehicle options, tour
// packages) live in Options. Listings are soft-deactivated, never deleted,
// while bookings still reference them.
type Listing struct {
	gorm.Model
	VendorID    uint             `json:"vendorID" gorm:"not null;index"`
	ServiceType string           `json:"serviceType" gorm:"type:varchar(20);not null;index"` // stay, vehicle, adventure
	Title       string           `json:"title" gorm:"not null"`
	Description string           `json:"description" gorm:"type:text"`
	City        string           `json:"city"`
	Country     string           `json:"country"`
	Currency    string           `json:"currency" gorm:"default:'USD'"`
	Amenities   datatypes.JSON   `json:"amenities"`
	Images      datatypes.JSON   `json:"images"`
	BookingMode string           `json:"bookingMode" gorm:"type:varchar(20);default:'instant'"` // instant, request
	IsActive    *bool            `json:"isActive" gorm:"default:true"`
	Options     []BookableOption `json:"options" gorm:"foreignKey:ListingID"`
	Vendor      *User            `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
}

// BookableOption is one bookable sub-item of a listing. Available is the
// maximum quantity that may be reserved concurrently at any instant; it is
// not a running counter that gets decremented permanently.
type BookableOption struct {
	gorm.Model
	ListingID    uint    `json:"listingID" gorm:"not null;index"`
	Name         string  `json:"name" gorm:"not null"` // unique within a listing; key fallback for legacy options
	Available    int     `json:"available" gorm:"not null;default:0"`
	NightlyPrice float64 `json:"nightlyPrice" gorm:"not null"`
	Taxes        float64 `json:"taxes"`
}

// Key returns the stable option key: the record id when present, the name
// for options that have not been persisted yet.
func (o *BookableOption) Key() string {
	if o.ID != 0 {
		return strconv.FormatUint(uint64(o.ID), 10)
	}
	return o.Name
}

// Active reports whether the listing accepts new bookings.
func (l *Listing) Active() bool {
	return l.IsActive == nil || *l.IsActive
}
