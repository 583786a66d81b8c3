package routes

import (
	"github.com/kataras/iris/v12"
	"gorm.io/gorm"

	"github.com/abhijitkayal/safar-hub-sub001/models"
	"github.com/abhijitkayal/safar-hub-sub001/storage"
	"github.com/abhijitkayal/safar-hub-sub001/utils"
)

type OptionInput struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name" validate:"required"`
	Available    int     `json:"available" validate:"min=0"`
	NightlyPrice float64 `json:"nightlyPrice" validate:"min=0"`
	Taxes        float64 `json:"taxes" validate:"min=0"`
}

type CreateListingInput struct {
	ServiceType string        `json:"serviceType" validate:"required,oneof=stay vehicle adventure"`
	Title       string        `json:"title" validate:"required"`
	Description string        `json:"description"`
	City        string        `json:"city"`
	Country     string        `json:"country"`
	Currency    string        `json:"currency"`
	BookingMode string        `json:"bookingMode" validate:"omitempty,oneof=instant request"`
	Options     []OptionInput `json:"options" validate:"required,min=1,dive"`
}

// CreateListing registers a new listing with its bookable options for the
// authenticated vendor.
//
// POST /api/listings
func CreateListing(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input CreateListingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// Option names are the key fallback for unkeyed callers, so they must
	// be unique within the listing.
	seen := make(map[string]bool, len(input.Options))
	for _, opt := range input.Options {
		if seen[opt.Name] {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "option names must be unique within a listing", ctx)
			return
		}
		seen[opt.Name] = true
	}

	listing := models.Listing{
		VendorID:    userID,
		ServiceType: input.ServiceType,
		Title:       input.Title,
		Description: input.Description,
		City:        input.City,
		Country:     input.Country,
		Currency:    input.Currency,
		BookingMode: input.BookingMode,
	}
	if listing.BookingMode == "" {
		listing.BookingMode = "instant"
	}
	for _, opt := range input.Options {
		listing.Options = append(listing.Options, models.BookableOption{
			Name:         opt.Name,
			Available:    opt.Available,
			NightlyPrice: opt.NightlyPrice,
			Taxes:        opt.Taxes,
		})
	}

	if err := storage.DB.Create(&listing).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "listing": listing})
}

type UpdateListingInput struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	BookingMode string        `json:"bookingMode" validate:"omitempty,oneof=instant request"`
	Options     []OptionInput `json:"options" validate:"omitempty,dive"`
}

// UpdateListing edits a listing the vendor owns. Options are matched by id;
// new options (id 0) are appended. Options are never physically removed
// while bookings may reference them; set available to 0 to retire one.
//
// PATCH /api/listings/{id}
func UpdateListing(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid listing id", ctx)
		return
	}

	var input UpdateListingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var listing models.Listing
	if err := storage.DB.Preload("Options").Where("id = ? AND vendor_id = ?", id, userID).First(&listing).Error; err != nil {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"message": "Listing not found or access denied"})
		return
	}

	if input.Title != "" {
		listing.Title = input.Title
	}
	if input.Description != "" {
		listing.Description = input.Description
	}
	if input.BookingMode != "" {
		listing.BookingMode = input.BookingMode
	}

	for _, opt := range input.Options {
		updated := false
		for i := range listing.Options {
			if opt.ID != 0 && listing.Options[i].ID == opt.ID {
				listing.Options[i].Name = opt.Name
				listing.Options[i].Available = opt.Available
				listing.Options[i].NightlyPrice = opt.NightlyPrice
				listing.Options[i].Taxes = opt.Taxes
				updated = true
				break
			}
		}
		if !updated {
			listing.Options = append(listing.Options, models.BookableOption{
				ListingID:    listing.ID,
				Name:         opt.Name,
				Available:    opt.Available,
				NightlyPrice: opt.NightlyPrice,
				Taxes:        opt.Taxes,
			})
		}
	}

	if err := storage.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(&listing).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "listing": listing})
}

// DeactivateListing soft-deactivates a listing: it stops accepting new
// bookings but is never physically removed while bookings reference it.
//
// DELETE /api/listings/{id}
func DeactivateListing(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid listing id", ctx)
		return
	}

	var listing models.Listing
	if err := storage.DB.Where("id = ? AND vendor_id = ?", id, userID).First(&listing).Error; err != nil {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"message": "Listing not found or access denied"})
		return
	}

	inactive := false
	listing.IsActive = &inactive
	if err := storage.DB.Save(&listing).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "message": "Listing deactivated"})
}

// GetListing returns one listing with its options.
//
// GET /api/listings/{id}
func GetListing(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid listing id", ctx)
		return
	}

	var listing models.Listing
	if err := storage.DB.Preload("Options").First(&listing, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "listing": listing})
}
