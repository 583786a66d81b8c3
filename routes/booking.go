package routes

import (
	"time"

	"github.com/kataras/iris/v12"

	"github.com/abhijitkayal/safar-hub-sub001/models"
	"github.com/abhijitkayal/safar-hub-sub001/services"
	"github.com/abhijitkayal/safar-hub-sub001/storage"
	"github.com/abhijitkayal/safar-hub-sub001/utils"
)

type BookingItemInput struct {
	OptionKey string `json:"optionKey" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=0"`
}

type CreateBookingInput struct {
	ServiceType string             `json:"serviceType" validate:"required,oneof=stay vehicle adventure tour"`
	ListingID   uint               `json:"listingID" validate:"required"`
	CheckIn     time.Time          `json:"checkIn"`
	CheckOut    time.Time          `json:"checkOut"`
	PickupDate  time.Time          `json:"pickupDate"`
	DropoffDate time.Time          `json:"dropoffDate"`
	Items       []BookingItemInput `json:"items" validate:"omitempty,dive"`
	Rooms       []BookingItemInput `json:"rooms" validate:"omitempty,dive"` // stay-flavored alias for items
	Note        string             `json:"note"`
	CouponCode  string             `json:"couponCode"`
}

// dates returns the requested range regardless of whether the client sent
// stay-style checkIn/checkOut or vehicle-style pickupDate/dropoffDate.
func (in *CreateBookingInput) dates() (time.Time, time.Time) {
	start, end := in.CheckIn, in.CheckOut
	if start.IsZero() {
		start = in.PickupDate
	}
	if end.IsZero() {
		end = in.DropoffDate
	}
	return start, end
}

func (in *CreateBookingInput) quantities() map[string]int {
	quantities := make(map[string]int, len(in.Items)+len(in.Rooms))
	for _, item := range in.Items {
		quantities[item.OptionKey] += item.Quantity
	}
	for _, room := range in.Rooms {
		quantities[room.OptionKey] += room.Quantity
	}
	return quantities
}

// CreateBooking validates a reservation request and admits it atomically
// against concurrent bookers.
//
// POST /api/bookings
func CreateBooking(ctx iris.Context) {
	var input CreateBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	start, end := input.dates()
	if start.IsZero() || end.IsZero() {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "check-in and check-out dates are required", ctx)
		return
	}

	booking, err := bookingService.Reserve(services.ReserveInput{
		ListingID:   input.ListingID,
		ServiceType: serviceTypes[input.ServiceType],
		Start:       start,
		End:         end,
		Quantities:  input.quantities(),
		Note:        input.Note,
		Actor:       actorFromContext(ctx),
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "booking": booking})
}

type PatchBookingInput struct {
	Action string `json:"action"` // "cancel" for customer self-cancellation
	Status string `json:"status" validate:"omitempty,oneof=pending confirmed completed cancelled"`
	Reason string `json:"reason"`
}

// PatchBooking handles both sub-protocols on one endpoint: customer
// self-cancellation ({action: "cancel", reason}) and vendor/admin status
// updates ({status, reason?}).
//
// PATCH /api/bookings/{id}
func PatchBooking(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid booking id", ctx)
		return
	}

	var input PatchBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	actor := actorFromContext(ctx)

	var booking *models.Booking
	var svcErr error
	switch {
	case input.Action == "cancel":
		booking, svcErr = bookingService.Cancel(id, actor, input.Reason)
	case input.Status != "":
		booking, svcErr = bookingService.UpdateStatus(id, input.Status, actor, input.Reason)
		if svcErr == nil && actor.Staff() {
			utils.Audit(ctx, "booking.status."+input.Status, "booking", id, iris.Map{"reason": input.Reason})
		}
	default:
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "either action or status is required", ctx)
		return
	}
	if svcErr != nil {
		writeServiceError(ctx, svcErr)
		return
	}

	ctx.JSON(iris.Map{"success": true, "booking": booking})
}

// GetUserBookings returns the authenticated customer's bookings.
//
// GET /api/bookings/mine
func GetUserBookings(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var bookings []models.Booking
	res := storage.DB.Preload("Listing").
		Where("customer_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "bookings": bookings})
}

// GetVendorBookings returns bookings for all listings owned by the
// authenticated vendor.
//
// GET /api/bookings/vendor
func GetVendorBookings(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var bookings []models.Booking
	res := storage.DB.
		Joins("JOIN listings l ON l.id = bookings.listing_id").
		Where("l.vendor_id = ?", userID).
		Preload("Listing").
		Preload("Customer").
		Order("bookings.created_at DESC").
		Find(&bookings)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "bookings": bookings})
}
