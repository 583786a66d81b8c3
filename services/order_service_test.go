package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhijitkayal/safar-hub-sub001/models"
	"github.com/abhijitkayal/safar-hub-sub001/services"
	"github.com/abhijitkayal/safar-hub-sub001/storage"
)

func newOrderService() (*services.OrderService, *storage.MemoryOrderStore) {
	store := storage.NewMemoryOrderStore()
	return services.NewOrderService(store, zap.NewNop().Sugar()), store
}

func productFixture(id uint, stock int) *models.Product {
	p := &models.Product{Name: "Trekking Poles", Stock: stock}
	p.ID = id
	p.RecomputeOutOfStock()
	return p
}

func orderItem(id, productID uint, qty int, status string) models.OrderItem {
	item := models.OrderItem{ProductID: productID, Quantity: qty, Status: status}
	item.ID = id
	return item
}

func orderFixture(id, customerID uint, items ...models.OrderItem) *models.Order {
	o := &models.Order{CustomerID: customerID, Items: items}
	o.ID = id
	o.Status = services.DeriveOrderStatus(items)
	return o
}

func TestCancelOrderRestoresStock(t *testing.T) {
	svc, store := newOrderService()
	store.AddProduct(productFixture(3, 5))
	store.AddOrder(orderFixture(1, 42, orderItem(10, 3, 2, "Pending")))

	order, err := svc.CancelOrder(1, customer, "ordered by mistake")
	require.NoError(t, err)

	assert.Equal(t, services.StatusCancelled, order.Status)
	assert.Equal(t, services.StatusCancelled, order.Items[0].Status)
	assert.Equal(t, "ordered by mistake", order.Items[0].CancelReason)
	assert.NotNil(t, order.Items[0].CancelledAt)

	product, err := store.GetProduct(3)
	require.NoError(t, err)
	assert.Equal(t, 7, product.Stock)
	assert.False(t, product.OutOfStock)
}

func TestCancelOrderRestoresVariantStockAndClearsOutOfStock(t *testing.T) {
	svc, store := newOrderService()

	variant := models.ProductVariant{ProductID: 3, Name: "Blue", Stock: 0}
	variant.ID = 8
	product := &models.Product{Name: "Trekking Poles", Variants: []models.ProductVariant{variant}}
	product.ID = 3
	product.RecomputeOutOfStock()
	require.True(t, product.OutOfStock)
	store.AddProduct(product)

	variantID := uint(8)
	item := orderItem(10, 3, 3, "Processing")
	item.VariantID = &variantID
	store.AddOrder(orderFixture(1, 42, item))

	_, err := svc.CancelOrder(1, customer, "no longer needed")
	require.NoError(t, err)

	got, err := store.GetProduct(3)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Variants[0].Stock)
	assert.False(t, got.OutOfStock)
}

func TestCancelOrderSkipsAlreadyCancelledItems(t *testing.T) {
	svc, store := newOrderService()
	store.AddProduct(productFixture(3, 5))
	store.AddOrder(orderFixture(1, 42,
		orderItem(10, 3, 2, "Cancelled"), // restored by an earlier cancellation
		orderItem(11, 3, 1, "Pending"),
	))

	order, err := svc.CancelOrder(1, customer, "cancel the rest")
	require.NoError(t, err)
	assert.Equal(t, services.StatusCancelled, order.Status)

	// Only the pending item's quantity comes back.
	product, err := store.GetProduct(3)
	require.NoError(t, err)
	assert.Equal(t, 6, product.Stock)
}

func TestCancelOrderRejectsWhenAlreadyCancelled(t *testing.T) {
	svc, store := newOrderService()
	store.AddProduct(productFixture(3, 5))
	store.AddOrder(orderFixture(1, 42, orderItem(10, 3, 2, "Cancelled")))

	_, err := svc.CancelOrder(1, customer, "again")
	assert.Equal(t, services.CodeInvalidTransition, errCode(t, err))

	// Stock untouched: cancellation restores at most once.
	product, err := store.GetProduct(3)
	require.NoError(t, err)
	assert.Equal(t, 5, product.Stock)
}

func TestCancelOrderRejectsDeliveredItems(t *testing.T) {
	svc, store := newOrderService()
	store.AddProduct(productFixture(3, 5))
	store.AddOrder(orderFixture(1, 42,
		orderItem(10, 3, 1, "Delivered"),
		orderItem(11, 3, 1, "Pending"),
	))

	_, err := svc.CancelOrder(1, customer, "too late")
	assert.Equal(t, services.CodeInvalidTransition, errCode(t, err))

	product, err := store.GetProduct(3)
	require.NoError(t, err)
	assert.Equal(t, 5, product.Stock)
}

func TestCancelOrderRequiresReasonAndOwnership(t *testing.T) {
	svc, store := newOrderService()
	store.AddProduct(productFixture(3, 5))
	store.AddOrder(orderFixture(1, 42, orderItem(10, 3, 1, "Pending")))

	_, err := svc.CancelOrder(1, customer, "")
	assert.Equal(t, services.CodeValidation, errCode(t, err))

	_, err = svc.CancelOrder(1, services.Actor{ID: 99, Role: services.RoleCustomer}, "not mine")
	assert.Equal(t, services.CodeForbidden, errCode(t, err))

	// Admins may cancel on a customer's behalf.
	_, err = svc.CancelOrder(1, services.Actor{ID: 500, Role: services.RoleAdmin}, "fraud hold")
	assert.NoError(t, err)
}

func TestCancelOrderUnknownOrder(t *testing.T) {
	svc, _ := newOrderService()
	_, err := svc.CancelOrder(77, customer, "whatever")
	assert.Equal(t, services.CodeNotFound, errCode(t, err))
}

func TestUpdateItemSetsStatusAndDerivesAggregate(t *testing.T) {
	svc, store := newOrderService()
	store.AddOrder(orderFixture(1, 42,
		orderItem(10, 3, 1, "Pending"),
		orderItem(11, 4, 1, "Pending"),
	))

	vendor := services.Actor{ID: 7, Role: services.RoleVendor}
	order, err := svc.UpdateItem(services.UpdateItemInput{
		OrderID: 1, ItemID: 10, Status: services.StatusShipped, Actor: vendor,
	})
	require.NoError(t, err)

	assert.Equal(t, services.StatusShipped, order.Items[0].Status)
	assert.Equal(t, services.StatusShipped, order.Status)

	delivery := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)
	order, err = svc.UpdateItem(services.UpdateItemInput{
		OrderID: 1, ItemID: 10, Status: services.StatusDelivered, DeliveryDate: &delivery, Actor: vendor,
	})
	require.NoError(t, err)
	assert.Equal(t, services.StatusDelivered, order.Items[0].Status)
	require.NotNil(t, order.Items[0].DeliveryDate)
	assert.True(t, delivery.Equal(*order.Items[0].DeliveryDate))
	// One delivered, one pending: aggregate stays pending.
	assert.Equal(t, services.StatusPending, order.Status)
}

func TestUpdateItemRejectsCancelledTarget(t *testing.T) {
	svc, store := newOrderService()
	store.AddOrder(orderFixture(1, 42, orderItem(10, 3, 1, "Pending")))

	vendor := services.Actor{ID: 7, Role: services.RoleVendor}
	_, err := svc.UpdateItem(services.UpdateItemInput{
		OrderID: 1, ItemID: 10, Status: services.StatusCancelled, Actor: vendor,
	})
	assert.Equal(t, services.CodeValidation, errCode(t, err))
}

func TestUpdateItemRejectsCancelledItem(t *testing.T) {
	svc, store := newOrderService()
	store.AddOrder(orderFixture(1, 42, orderItem(10, 3, 1, "Cancelled")))

	vendor := services.Actor{ID: 7, Role: services.RoleVendor}
	_, err := svc.UpdateItem(services.UpdateItemInput{
		OrderID: 1, ItemID: 10, Status: services.StatusShipped, Actor: vendor,
	})
	assert.Equal(t, services.CodeInvalidTransition, errCode(t, err))
}

func TestUpdateItemForbiddenForCustomers(t *testing.T) {
	svc, store := newOrderService()
	store.AddOrder(orderFixture(1, 42, orderItem(10, 3, 1, "Pending")))

	_, err := svc.UpdateItem(services.UpdateItemInput{
		OrderID: 1, ItemID: 10, Status: services.StatusShipped, Actor: customer,
	})
	assert.Equal(t, services.CodeForbidden, errCode(t, err))
}

func TestUpdateItemUnknownItem(t *testing.T) {
	svc, store := newOrderService()
	store.AddOrder(orderFixture(1, 42, orderItem(10, 3, 1, "Pending")))

	vendor := services.Actor{ID: 7, Role: services.RoleVendor}
	_, err := svc.UpdateItem(services.UpdateItemInput{
		OrderID: 1, ItemID: 99, Status: services.StatusShipped, Actor: vendor,
	})
	assert.Equal(t, services.CodeNotFound, errCode(t, err))
}

func TestUpdateItemVariantMismatch(t *testing.T) {
	svc, store := newOrderService()
	variantID := uint(8)
	item := orderItem(10, 3, 1, "Pending")
	item.VariantID = &variantID
	store.AddOrder(orderFixture(1, 42, item))

	other := uint(9)
	vendor := services.Actor{ID: 7, Role: services.RoleVendor}
	_, err := svc.UpdateItem(services.UpdateItemInput{
		OrderID: 1, ItemID: 10, VariantID: &other, Status: services.StatusShipped, Actor: vendor,
	})
	assert.Equal(t, services.CodeNotFound, errCode(t, err))
}

func TestUpdateItemNormalizesLegacyPlaced(t *testing.T) {
	svc, store := newOrderService()
	store.AddOrder(orderFixture(1, 42, orderItem(10, 3, 1, "Placed")))

	vendor := services.Actor{ID: 7, Role: services.RoleVendor}
	order, err := svc.UpdateItem(services.UpdateItemInput{
		OrderID: 1, ItemID: 10, Status: services.StatusProcessing, Actor: vendor,
	})
	require.NoError(t, err)
	assert.Equal(t, services.StatusProcessing, order.Status)
}
