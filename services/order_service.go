package services

import (
	"time"

	"go.uber.org/zap"

	"github.com/abhijitkayal/safar-hub-sub001/models"
)

// OrderStore is the persistence contract for orders and product stock.
// GetOrder returns the order with its items; GetProduct returns the product
// with its variants. Transaction runs fn atomically: either every write in
// fn lands or none do.
type OrderStore interface {
	GetOrder(id uint) (*models.Order, error)
	SaveOrder(o *models.Order) error
	GetProduct(id uint) (*models.Product, error)
	SaveProduct(p *models.Product) error
	Transaction(fn func(tx OrderStore) error) error
}

// OrderService manages order item status transitions, the derived aggregate
// status and the stock-restoring compensation on cancellation.
type OrderService struct {
	store OrderStore
	log   *zap.SugaredLogger
}

func NewOrderService(store OrderStore, log *zap.SugaredLogger) *OrderService {
	return &OrderService{store: store, log: log}
}

// CancelOrder is customer self-service cancellation of an entire order.
// Every item whose prior status was not already Cancelled flips to
// Cancelled and has its product (or variant) stock restored; the status
// writes and the restocks commit in one transaction. Gating restoration on
// the prior status makes retried cancellations restore at most once.
func (s *OrderService) CancelOrder(orderID uint, actor Actor, reason string) (*models.Order, error) {
	if reason == "" {
		return nil, NewValidationError("a cancellation reason is required")
	}

	var out *models.Order
	err := s.store.Transaction(func(tx OrderStore) error {
		order, err := tx.GetOrder(orderID)
		if err != nil {
			s.log.Errorw("cancel order: load failed", "orderID", orderID, "err", err)
			return NewInternalError()
		}
		if order == nil {
			return NewNotFoundError("order")
		}
		if actor.Role == RoleCustomer && order.CustomerID != actor.ID {
			return NewForbiddenError("you may only cancel your own orders")
		}

		if DeriveOrderStatus(order.Items) == StatusCancelled {
			return NewInvalidTransitionError(StatusCancelled, StatusCancelled)
		}
		for i := range order.Items {
			if NormalizeItemStatus(order.Items[i].Status) == StatusDelivered {
				return NewInvalidTransitionError(StatusDelivered, StatusCancelled)
			}
		}

		now := time.Now()
		for i := range order.Items {
			item := &order.Items[i]
			prior := NormalizeItemStatus(item.Status)
			if prior == StatusCancelled {
				continue
			}
			item.Status = StatusCancelled
			item.CancelReason = reason
			item.CancelledAt = &now
			if err := s.restock(tx, item); err != nil {
				return err
			}
		}

		order.Status = DeriveOrderStatus(order.Items)
		if err := tx.SaveOrder(order); err != nil {
			s.log.Errorw("cancel order: save failed", "orderID", orderID, "err", err)
			return NewInternalError()
		}
		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Infow("order cancelled", "orderID", orderID, "by", actor.Role)
	return out, nil
}

// restock returns an item's quantity to its product or variant stock and
// recomputes the out-of-stock flag. Callers gate on the item's prior status
// not having been Cancelled already.
func (s *OrderService) restock(tx OrderStore, item *models.OrderItem) error {
	if item.ItemType != "" && item.ItemType != "product" {
		return nil
	}
	product, err := tx.GetProduct(item.ProductID)
	if err != nil {
		s.log.Errorw("restock: load product failed", "productID", item.ProductID, "err", err)
		return NewInternalError()
	}
	if product == nil {
		return NewNotFoundError("product")
	}

	if item.VariantID != nil {
		found := false
		for i := range product.Variants {
			if product.Variants[i].ID == *item.VariantID {
				product.Variants[i].Stock += item.Quantity
				found = true
				break
			}
		}
		if !found {
			return NewNotFoundError("product variant")
		}
	} else {
		product.Stock += item.Quantity
	}

	product.RecomputeOutOfStock()
	if err := tx.SaveProduct(product); err != nil {
		s.log.Errorw("restock: save product failed", "productID", product.ID, "err", err)
		return NewInternalError()
	}
	return nil
}

// UpdateItemInput is a vendor/admin single-line-item update.
type UpdateItemInput struct {
	OrderID      uint
	ItemID       uint
	VariantID    *uint
	ItemType     string
	Status       string
	DeliveryDate *time.Time
	Actor        Actor
}

// UpdateItem sets one item's status and/or delivery date, then recomputes
// and persists the aggregate order status. Cancelled is never reachable
// through this path; vendor-initiated cancellation is a separate
// reason-bearing action.
func (s *OrderService) UpdateItem(in UpdateItemInput) (*models.Order, error) {
	if !in.Actor.Staff() {
		return nil, NewForbiddenError("only vendors or admins may update order items")
	}

	var out *models.Order
	err := s.store.Transaction(func(tx OrderStore) error {
		order, err := tx.GetOrder(in.OrderID)
		if err != nil {
			s.log.Errorw("update item: load failed", "orderID", in.OrderID, "err", err)
			return NewInternalError()
		}
		if order == nil {
			return NewNotFoundError("order")
		}

		var item *models.OrderItem
		for i := range order.Items {
			it := &order.Items[i]
			if it.ID != in.ItemID {
				continue
			}
			if in.VariantID != nil && (it.VariantID == nil || *it.VariantID != *in.VariantID) {
				continue
			}
			item = it
			break
		}
		if item == nil {
			return NewNotFoundError("order item")
		}

		if in.Status != "" {
			if in.Status == StatusCancelled {
				return NewValidationError("items cannot be cancelled through a status update")
			}
			current := NormalizeItemStatus(item.Status)
			if !CanSetItemStatus(current, in.Status) {
				return NewInvalidTransitionError(current, in.Status)
			}
			item.Status = in.Status
		}
		if in.DeliveryDate != nil {
			item.DeliveryDate = in.DeliveryDate
		}

		order.Status = DeriveOrderStatus(order.Items)
		if err := tx.SaveOrder(order); err != nil {
			s.log.Errorw("update item: save failed", "orderID", in.OrderID, "err", err)
			return NewInternalError()
		}
		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
