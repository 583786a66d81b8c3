package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abhijitkayal/safar-hub-sub001/models"
	"github.com/abhijitkayal/safar-hub-sub001/services"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func optionFixture(id uint, name string, available int) models.BookableOption {
	opt := models.BookableOption{Name: name, Available: available, NightlyPrice: 100}
	opt.ID = id
	return opt
}

func listingFixture(options ...models.BookableOption) *models.Listing {
	listing := &models.Listing{
		ServiceType: models.ServiceTypeStay,
		Title:       "Lakeview Cottage",
		Options:     options,
	}
	listing.ID = 1
	listing.VendorID = 10
	return listing
}

func TestRangesOverlapHalfOpen(t *testing.T) {
	jun1 := date(2026, time.June, 1)
	jun5 := date(2026, time.June, 5)
	jun10 := date(2026, time.June, 10)

	// Checkout day equals check-in day: no collision.
	assert.False(t, services.RangesOverlap(jun1, jun5, jun5, jun10))
	assert.False(t, services.RangesOverlap(jun5, jun10, jun1, jun5))

	// One shared night collides.
	assert.True(t, services.RangesOverlap(jun1, jun5, date(2026, time.June, 4), jun10))
	// Containment collides.
	assert.True(t, services.RangesOverlap(jun1, jun10, jun5, date(2026, time.June, 6)))
	// Disjoint does not.
	assert.False(t, services.RangesOverlap(jun1, jun5, date(2026, time.June, 6), jun10))
}

func TestComputeAvailabilitySubtractsOverlappingBookings(t *testing.T) {
	listing := listingFixture(optionFixture(7, "Deluxe", 5))

	bookings := []models.Booking{
		{StartDate: date(2026, time.June, 2), EndDate: date(2026, time.June, 6),
			Quantities: models.OptionQuantities{"7": 2}, Status: models.BookingStatusConfirmed},
		// Ends exactly on the query start: half-open, does not count.
		{StartDate: date(2026, time.May, 28), EndDate: date(2026, time.June, 1),
			Quantities: models.OptionQuantities{"7": 3}, Status: models.BookingStatusConfirmed},
	}

	avail := services.ComputeAvailability(listing, bookings, date(2026, time.June, 1), date(2026, time.June, 8))

	assert.Equal(t, 3, avail.PerOptionRemaining["7"])
	assert.Equal(t, []string{"7"}, avail.AvailableOptionKeys)
	assert.False(t, avail.IsFullyBooked)
	assert.Len(t, avail.BookedRanges, 1)
}

func TestComputeAvailabilityWholeRangeWorstCase(t *testing.T) {
	// Two bookings on disjoint sub-ranges of the query both subtract from
	// the same option: the whole-range check is deliberately conservative.
	listing := listingFixture(optionFixture(7, "Deluxe", 3))

	bookings := []models.Booking{
		{StartDate: date(2026, time.June, 1), EndDate: date(2026, time.June, 3),
			Quantities: models.OptionQuantities{"7": 2}, Status: models.BookingStatusConfirmed},
		{StartDate: date(2026, time.June, 5), EndDate: date(2026, time.June, 8),
			Quantities: models.OptionQuantities{"7": 2}, Status: models.BookingStatusPending},
	}

	avail := services.ComputeAvailability(listing, bookings, date(2026, time.June, 1), date(2026, time.June, 8))

	assert.Equal(t, 0, avail.PerOptionRemaining["7"])
	assert.True(t, avail.IsFullyBooked)
	assert.Empty(t, avail.AvailableOptionKeys)
}

func TestComputeAvailabilityClampsAtZero(t *testing.T) {
	listing := listingFixture(optionFixture(7, "Deluxe", 1))

	bookings := []models.Booking{
		{StartDate: date(2026, time.June, 1), EndDate: date(2026, time.June, 5),
			Quantities: models.OptionQuantities{"7": 4}, Status: models.BookingStatusConfirmed},
	}

	avail := services.ComputeAvailability(listing, bookings, date(2026, time.June, 1), date(2026, time.June, 5))
	assert.Equal(t, 0, avail.PerOptionRemaining["7"])
}

func TestComputeAvailabilityIgnoresCancelled(t *testing.T) {
	listing := listingFixture(optionFixture(7, "Deluxe", 2))

	bookings := []models.Booking{
		{StartDate: date(2026, time.June, 1), EndDate: date(2026, time.June, 5),
			Quantities: models.OptionQuantities{"7": 2}, Status: models.BookingStatusCancelled},
	}

	avail := services.ComputeAvailability(listing, bookings, date(2026, time.June, 1), date(2026, time.June, 5))
	assert.Equal(t, 2, avail.PerOptionRemaining["7"])
	assert.False(t, avail.IsFullyBooked)
	assert.Empty(t, avail.BookedRanges)
}

func TestComputeAvailabilityNoOptions(t *testing.T) {
	listing := listingFixture()
	avail := services.ComputeAvailability(listing, nil, date(2026, time.June, 1), date(2026, time.June, 5))
	// A listing with nothing bookable is not reported as fully booked; it
	// simply has no option keys.
	assert.False(t, avail.IsFullyBooked)
	assert.Empty(t, avail.AvailableOptionKeys)
}

func TestResolveOption(t *testing.T) {
	deluxe := optionFixture(7, "Deluxe", 2)
	named := models.BookableOption{Name: "7", Available: 1}
	listing := listingFixture(deluxe, named)

	// A numeric key matching a stored id wins over a name collision.
	got := services.ResolveOption(listing, "7")
	assert.NotNil(t, got)
	assert.Equal(t, "Deluxe", got.Name)

	// Legacy name fallback.
	got = services.ResolveOption(listing, "Deluxe")
	assert.NotNil(t, got)
	assert.Equal(t, uint(7), got.ID)

	assert.Nil(t, services.ResolveOption(listing, "Penthouse"))
}

func TestDayTruncates(t *testing.T) {
	ts := time.Date(2026, time.June, 3, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, date(2026, time.June, 3), services.Day(ts))
}
