package services

import "github.com/abhijitkayal/safar-hub-sub001/models"

// Order item statuses. Pending is initial; Delivered and Cancelled are
// terminal.
const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)

// legacyPlaced is the historical name for Pending still present on old
// records.
const legacyPlaced = "Placed"

// NormalizeItemStatus maps a raw stored status to the closed status set.
// "Placed" reads as Pending, and so does anything unrecognized: an unknown
// status must never propagate downstream.
func NormalizeItemStatus(raw string) string {
	switch raw {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return raw
	case legacyPlaced:
		return StatusPending
	default:
		return StatusPending
	}
}

// itemTransitions is the forward lifecycle; Cancelled is reachable from
// every non-terminal state and handled separately by CanCancelItem.
var itemForwardStatuses = map[string]bool{
	StatusPending:    true,
	StatusProcessing: true,
	StatusShipped:    true,
	StatusDelivered:  true,
}

// CanSetItemStatus reports whether a vendor/admin may move an item from its
// current status to the target. Any of the four forward statuses may be set
// on a live item; Cancelled items are terminal and Cancelled itself is never
// reachable through this path (vendor cancellation is a separate,
// reason-bearing action).
func CanSetItemStatus(current, target string) bool {
	current = NormalizeItemStatus(current)
	if current == StatusCancelled {
		return false
	}
	return itemForwardStatuses[target]
}

// CanCancelItem reports whether an item may transition to Cancelled.
// Delivered items are terminal and cannot be cancelled; cancelling an
// already-cancelled item is invalid.
func CanCancelItem(current string) bool {
	current = NormalizeItemStatus(current)
	return current != StatusDelivered && current != StatusCancelled
}

// DeriveOrderStatus computes the aggregate order status from its items'
// statuses. The precedence is load-bearing: all-cancelled and all-delivered
// must be checked before the "any" rules, otherwise an all-cancelled order
// containing a shipped-then-cancelled history would read as Shipped.
func DeriveOrderStatus(items []models.OrderItem) string {
	if len(items) == 0 {
		return StatusPending
	}

	allCancelled, allDelivered := true, true
	anyShipped, anyProcessing := false, false
	for i := range items {
		switch NormalizeItemStatus(items[i].Status) {
		case StatusCancelled:
			allDelivered = false
		case StatusDelivered:
			allCancelled = false
		case StatusShipped:
			allCancelled, allDelivered = false, false
			anyShipped = true
		case StatusProcessing:
			allCancelled, allDelivered = false, false
			anyProcessing = true
		default:
			allCancelled, allDelivered = false, false
		}
	}

	switch {
	case allCancelled:
		return StatusCancelled
	case allDelivered:
		return StatusDelivered
	case anyShipped:
		return StatusShipped
	case anyProcessing:
		return StatusProcessing
	default:
		return StatusPending
	}
}

// bookingTransitions is the booking-level state machine. Pending and
// confirmed bookings occupy capacity; completed and cancelled are terminal.
var bookingTransitions = map[string][]string{
	models.BookingStatusPending:   {models.BookingStatusConfirmed, models.BookingStatusCancelled},
	models.BookingStatusConfirmed: {models.BookingStatusCompleted, models.BookingStatusCancelled},
}

// CanTransitionBooking reports whether a booking may move from one status to
// another.
func CanTransitionBooking(from, to string) bool {
	for _, allowed := range bookingTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
