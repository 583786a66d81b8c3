package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/abhijitkayal/safar-hub-sub001/routes"
	"github.com/abhijitkayal/safar-hub-sub001/services"
	"github.com/abhijitkayal/safar-hub-sub001/storage"
	"github.com/abhijitkayal/safar-hub-sub001/utils"
)

func main() {
	godotenv.Load()
	db := storage.InitializeDB()
	storage.InitializeRedis()
	logger := utils.InitializeLogger()
	defer logger.Sync()

	bookingService := services.NewBookingService(storage.NewGormBookingStore(db), logger)
	orderService := services.NewOrderService(storage.NewGormOrderStore(db), logger)
	routes.Initialize(bookingService, orderService)

	app := iris.New()
	app.Validator = validator.New()

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}

		return tokenInput.RefreshToken
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
	}

	availability := app.Party("/api/availability")
	{
		availability.Get("/", routes.GetAvailability)
	}

	listing := app.Party("/api/listings")
	{
		listing.Get("/{id:uint}", routes.GetListing)
		listing.Post("/", accessTokenVerifierMiddleware, utils.VendorOnlyMiddleware, routes.CreateListing)
		listing.Patch("/{id:uint}", accessTokenVerifierMiddleware, utils.VendorOnlyMiddleware, routes.UpdateListing)
		listing.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.VendorOnlyMiddleware, routes.DeactivateListing)
	}

	booking := app.Party("/api/bookings", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		booking.Post("/", routes.CreateBooking)
		booking.Patch("/{id:uint}", routes.PatchBooking)
		booking.Get("/mine", routes.GetUserBookings)
		booking.Get("/vendor", routes.GetVendorBookings)
	}

	order := app.Party("/api/orders", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		order.Patch("/{id:uint}", routes.PatchOrder)
		order.Get("/mine", routes.GetUserOrders)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Get("/audit", routes.AdminListAuditLogs)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	log.Println("Starting server on port " + port)
	app.Listen(":" + port)
}
