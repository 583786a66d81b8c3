package routes

import (
	"time"

	"github.com/kataras/iris/v12"

	"github.com/abhijitkayal/safar-hub-sub001/services"
	"github.com/abhijitkayal/safar-hub-sub001/utils"
)

// maxBookedRanges caps the booked-date ranges returned to clients; the
// engine itself computes all of them.
const maxBookedRanges = 3

var serviceTypes = map[string]string{
	"stay":      "stay",
	"vehicle":   "vehicle",
	"adventure": "adventure",
	"tour":      "adventure", // accepted alias
}

// GetAvailability is the read path: remaining capacity for a listing over a
// date range. It runs the exact check the booking admission re-runs at
// submit time, so "available" here only fails on submit if another booking
// raced in between.
//
// GET /api/availability?serviceType={stay|vehicle|adventure|tour}&id={listingID}&start={ISO}&end={ISO}
func GetAvailability(ctx iris.Context) {
	serviceType := ctx.URLParam("serviceType")
	if _, ok := serviceTypes[serviceType]; !ok {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "unknown service type", ctx)
		return
	}

	listingID, err := ctx.URLParamInt("id")
	if err != nil || listingID <= 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "a valid listing id is required", ctx)
		return
	}

	start, err := time.Parse("2006-01-02", ctx.URLParam("start"))
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid start date format", ctx)
		return
	}
	end, err := time.Parse("2006-01-02", ctx.URLParam("end"))
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid end date format", ctx)
		return
	}

	avail, availErr := bookingService.Availability(uint(listingID), start, end)
	if availErr != nil {
		writeServiceError(ctx, availErr)
		return
	}

	bookedRanges := avail.BookedRanges
	if len(bookedRanges) > maxBookedRanges {
		bookedRanges = bookedRanges[:maxBookedRanges]
	}
	if bookedRanges == nil {
		bookedRanges = []services.DateRange{}
	}

	ctx.JSON(iris.Map{
		"success":             true,
		"isAvailable":         !avail.IsFullyBooked,
		"bookedRanges":        bookedRanges,
		"availableOptionKeys": avail.AvailableOptionKeys,
		"perOptionRemaining":  avail.PerOptionRemaining,
	})
}
