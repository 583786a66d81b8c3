package services

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhijitkayal/safar-hub-sub001/models"
)

// BookingStore is the persistence contract the booking core depends on.
// Store methods return (nil, nil) for records that do not exist.
type BookingStore interface {
	GetListing(id uint) (*models.Listing, error)
	GetBooking(id uint) (*models.Booking, error)
	// ListOverlapping returns every non-cancelled booking on the listing
	// whose [start, end) range intersects the query range (half-open).
	ListOverlapping(listingID uint, start, end time.Time) ([]models.Booking, error)
	CreateBooking(b *models.Booking) error
	SaveBooking(b *models.Booking) error
	// WithListingLock runs fn as a critical section serialized per listing
	// id, with the listing loaded under the lock. Reads and the booking
	// write inside fn are atomic with respect to other admissions on the
	// same listing; admissions on different listings proceed in parallel.
	WithListingLock(listingID uint, fn func(tx BookingStore, listing *models.Listing) error) error
}

// BookingService implements availability reads, reservation admission and
// the booking status machine.
type BookingService struct {
	store BookingStore
	log   *zap.SugaredLogger
}

func NewBookingService(store BookingStore, log *zap.SugaredLogger) *BookingService {
	return &BookingService{store: store, log: log}
}

// ReserveInput is a reservation request as validated at the route boundary.
// Quantity keys may be option ids or legacy option names.
type ReserveInput struct {
	ListingID   uint
	ServiceType string
	Start       time.Time
	End         time.Time
	Quantities  map[string]int
	Note        string
	Actor       Actor
}

// Availability runs the read-path capacity check for a listing over
// [start, end). The admission path runs the exact same computation under
// the listing lock, so a client told "available" only loses to a booking
// that raced it in between.
func (s *BookingService) Availability(listingID uint, start, end time.Time) (*Availability, error) {
	if !Day(start).Before(Day(end)) {
		return nil, NewValidationError("end date must be after start date")
	}
	listing, err := s.store.GetListing(listingID)
	if err != nil {
		s.log.Errorw("availability: load listing failed", "listingID", listingID, "err", err)
		return nil, NewInternalError()
	}
	if listing == nil {
		return nil, NewNotFoundError("listing")
	}
	existing, err := s.store.ListOverlapping(listingID, Day(start), Day(end))
	if err != nil {
		s.log.Errorw("availability: load bookings failed", "listingID", listingID, "err", err)
		return nil, NewInternalError()
	}
	avail := ComputeAvailability(listing, existing, start, end)
	return &avail, nil
}

// Reserve validates the request against current availability and atomically
// admits it, or rejects it. The availability re-check and the booking write
// run inside one per-listing critical section: two concurrent admissions can
// never both observe the same free capacity.
func (s *BookingService) Reserve(in ReserveInput) (*models.Booking, error) {
	start, end := Day(in.Start), Day(in.End)
	if !start.Before(end) {
		return nil, NewValidationError("end date must be after start date")
	}

	var booking *models.Booking
	err := s.store.WithListingLock(in.ListingID, func(tx BookingStore, listing *models.Listing) error {
		if listing == nil {
			return NewNotFoundError("listing")
		}
		if !listing.Active() {
			return NewListingUnavailableError()
		}
		if in.ServiceType != "" && in.ServiceType != listing.ServiceType {
			return NewValidationError("service type does not match this listing")
		}

		quantities, err := s.normalizeQuantities(listing, in.Quantities)
		if err != nil {
			return err
		}

		existing, err := tx.ListOverlapping(listing.ID, start, end)
		if err != nil {
			s.log.Errorw("reserve: load bookings failed", "listingID", listing.ID, "err", err)
			return NewInternalError()
		}

		avail := ComputeAvailability(listing, existing, start, end)
		var short []string
		for key, qty := range quantities {
			if qty > avail.PerOptionRemaining[key] {
				short = append(short, key)
			}
		}
		if len(short) > 0 {
			sort.Strings(short)
			return NewInsufficientAvailabilityError(short)
		}

		status := models.BookingStatusConfirmed
		if listing.BookingMode == "request" {
			status = models.BookingStatusPending
		}

		booking = &models.Booking{
			Reference:   uuid.NewString(),
			ListingID:   listing.ID,
			CustomerID:  in.Actor.ID,
			ServiceType: listing.ServiceType,
			StartDate:   start,
			EndDate:     end,
			Quantities:  quantities,
			Status:      status,
			TotalPrice:  s.totalPrice(listing, quantities, start, end),
			Note:        in.Note,
		}
		if err := tx.CreateBooking(booking); err != nil {
			s.log.Errorw("reserve: create booking failed", "listingID", listing.ID, "err", err)
			return NewInternalError()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("booking admitted",
		"reference", booking.Reference,
		"listingID", booking.ListingID,
		"status", booking.Status,
		"nights", booking.Nights())
	return booking, nil
}

// normalizeQuantities resolves raw keys (id or legacy name) to canonical
// option keys, dropping zero-quantity entries. A key that resolves to no
// option is a validation failure; an all-zero selection is rejected.
func (s *BookingService) normalizeQuantities(listing *models.Listing, raw map[string]int) (models.OptionQuantities, error) {
	quantities := models.OptionQuantities{}
	for key, qty := range raw {
		if qty < 0 {
			return nil, NewValidationError("quantities must not be negative")
		}
		if qty == 0 {
			continue
		}
		opt := ResolveOption(listing, key)
		if opt == nil {
			return nil, NewInvalidOptionError(key)
		}
		quantities[opt.Key()] += qty
	}
	if quantities.Total() == 0 {
		return nil, NewEmptySelectionError()
	}
	return quantities, nil
}

func (s *BookingService) totalPrice(listing *models.Listing, quantities models.OptionQuantities, start, end time.Time) float64 {
	nights := int(end.Sub(start).Hours() / 24)
	if nights < 1 {
		nights = 1
	}
	total := 0.0
	for key, qty := range quantities {
		if opt := ResolveOption(listing, key); opt != nil {
			total += (opt.NightlyPrice*float64(nights) + opt.Taxes) * float64(qty)
		}
	}
	return total
}

// UpdateStatus transitions a booking on behalf of a vendor or admin.
// Cancellation through this path captures its own reason, analogous to
// customer cancellation.
func (s *BookingService) UpdateStatus(bookingID uint, target string, actor Actor, reason string) (*models.Booking, error) {
	if !actor.Staff() {
		return nil, NewForbiddenError("only vendors or admins may update booking status")
	}
	booking, err := s.store.GetBooking(bookingID)
	if err != nil {
		s.log.Errorw("update status: load booking failed", "bookingID", bookingID, "err", err)
		return nil, NewInternalError()
	}
	if booking == nil {
		return nil, NewNotFoundError("booking")
	}
	if actor.Role == RoleVendor && (booking.Listing == nil || booking.Listing.VendorID != actor.ID) {
		return nil, NewForbiddenError("this booking belongs to another vendor")
	}
	if !CanTransitionBooking(booking.Status, target) {
		return nil, NewInvalidTransitionError(booking.Status, target)
	}
	if target == models.BookingStatusCancelled {
		if reason == "" {
			return nil, NewValidationError("a cancellation reason is required")
		}
		now := time.Now()
		booking.CancelReason = reason
		booking.CancelledBy = actor.Role
		booking.CancelledAt = &now
	}
	booking.Status = target
	if err := s.store.SaveBooking(booking); err != nil {
		s.log.Errorw("update status: save failed", "bookingID", bookingID, "err", err)
		return nil, NewInternalError()
	}
	return booking, nil
}

// Cancel is customer self-service cancellation. Only the owning customer
// may cancel, a non-empty reason is required, and completed or
// already-cancelled bookings are rejected. No stock restoration happens
// here: capacity is recomputed from non-cancelled bookings, so cancelling
// simply removes the booking from future overlap checks.
func (s *BookingService) Cancel(bookingID uint, actor Actor, reason string) (*models.Booking, error) {
	booking, err := s.store.GetBooking(bookingID)
	if err != nil {
		s.log.Errorw("cancel: load booking failed", "bookingID", bookingID, "err", err)
		return nil, NewInternalError()
	}
	if booking == nil {
		return nil, NewNotFoundError("booking")
	}
	if booking.CustomerID != actor.ID {
		return nil, NewForbiddenError("you may only cancel your own bookings")
	}
	if reason == "" {
		return nil, NewValidationError("a cancellation reason is required")
	}
	if booking.Status == models.BookingStatusCancelled {
		return nil, NewInvalidTransitionError(booking.Status, models.BookingStatusCancelled)
	}
	if booking.Status == models.BookingStatusCompleted {
		return nil, NewInvalidTransitionError(booking.Status, models.BookingStatusCancelled)
	}

	now := time.Now()
	booking.Status = models.BookingStatusCancelled
	booking.CancelReason = reason
	booking.CancelledBy = RoleCustomer
	booking.CancelledAt = &now
	if err := s.store.SaveBooking(booking); err != nil {
		s.log.Errorw("cancel: save failed", "bookingID", bookingID, "err", err)
		return nil, NewInternalError()
	}
	s.log.Infow("booking cancelled", "reference", booking.Reference, "by", RoleCustomer)
	return booking, nil
}
