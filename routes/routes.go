package routes

import (
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/abhijitkayal/safar-hub-sub001/services"
	"github.com/abhijitkayal/safar-hub-sub001/utils"
)

// Package-level services, wired once at startup. Handlers stay thin; the
// booking/order core lives behind these and is tested without HTTP.
var (
	bookingService *services.BookingService
	orderService   *services.OrderService
)

// Initialize injects the domain services the handlers delegate to.
func Initialize(b *services.BookingService, o *services.OrderService) {
	bookingService = b
	orderService = o
}

func actorFromContext(ctx iris.Context) services.Actor {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	return services.Actor{ID: claims.ID, Role: claims.Role}
}

// writeServiceError translates a core error into the JSON rejection
// envelope. Every rejection carries a specific message; only true internal
// errors fall back to a generic one.
func writeServiceError(ctx iris.Context, err error) {
	se := services.AsServiceError(err)
	utils.JSONError(ctx, se.StatusCode, se.Code, se.Message)
}
