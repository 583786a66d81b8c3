package routes

import (
	"time"

	"github.com/kataras/iris/v12"

	"github.com/abhijitkayal/safar-hub-sub001/models"
	"github.com/abhijitkayal/safar-hub-sub001/services"
	"github.com/abhijitkayal/safar-hub-sub001/storage"
	"github.com/abhijitkayal/safar-hub-sub001/utils"
)

type PatchOrderInput struct {
	// Customer sub-protocol
	Action string `json:"action"` // "cancel"
	Reason string `json:"reason"`

	// Vendor/admin line-item sub-protocol
	ItemID       uint       `json:"itemID"`
	VariantID    *uint      `json:"variantID"`
	ItemType     string     `json:"itemType"`
	Status       string     `json:"status" validate:"omitempty,oneof=Pending Processing Shipped Delivered"`
	DeliveryDate *time.Time `json:"deliveryDate"`
}

// PatchOrder handles both sub-protocols on one endpoint: customer
// self-cancellation of the whole order, and vendor/admin single-line-item
// updates after which the aggregate status is recomputed and written back.
//
// PATCH /api/orders/{id}
func PatchOrder(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid order id", ctx)
		return
	}

	var input PatchOrderInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	actor := actorFromContext(ctx)

	var order *models.Order
	var svcErr error
	switch {
	case input.Action == "cancel":
		order, svcErr = orderService.CancelOrder(id, actor, input.Reason)
	case input.ItemID != 0:
		order, svcErr = orderService.UpdateItem(services.UpdateItemInput{
			OrderID:      id,
			ItemID:       input.ItemID,
			VariantID:    input.VariantID,
			ItemType:     input.ItemType,
			Status:       input.Status,
			DeliveryDate: input.DeliveryDate,
			Actor:        actor,
		})
		if svcErr == nil {
			utils.Audit(ctx, "order.item.status."+input.Status, "order", id, iris.Map{"itemID": input.ItemID})
		}
	default:
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "either action or itemID is required", ctx)
		return
	}
	if svcErr != nil {
		writeServiceError(ctx, svcErr)
		return
	}

	ctx.JSON(iris.Map{"success": true, "order": order})
}

// GetUserOrders returns the authenticated customer's orders. Item statuses
// are normalized on read and the aggregate recomputed, so legacy records
// never leak unnormalized statuses; the stored aggregate is only a cache.
//
// GET /api/orders/mine
func GetUserOrders(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var orders []models.Order
	res := storage.DB.Preload("Items").
		Where("customer_id = ?", userID).
		Order("created_at DESC").
		Find(&orders)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	for i := range orders {
		for j := range orders[i].Items {
			orders[i].Items[j].Status = services.NormalizeItemStatus(orders[i].Items[j].Status)
		}
		orders[i].Status = services.DeriveOrderStatus(orders[i].Items)
	}

	ctx.JSON(iris.Map{"success": true, "orders": orders})
}
