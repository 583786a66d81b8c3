package models

import (
	"time"

	"gorm.io/gorm"
)

// Order is a non-date-ranged purchase of one or more product line items.
// Status is the derived aggregate of the item statuses, written back as a
// denormalized convenience field; it is a cache, never a source of truth.
type Order struct {
	gorm.Model
	CustomerID uint        `json:"customerID" gorm:"not null;index"`
	Status     string      `json:"status" gorm:"type:varchar(20);not null;default:'Pending'"`
	Items      []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	Customer   *User       `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
}

// OrderItem is a single product line in an order with its own lifecycle
// status (Pending, Processing, Shipped, Delivered, Cancelled).
type OrderItem struct {
	gorm.Model
	OrderID      uint       `json:"orderID" gorm:"not null;index"`
	ProductID    uint       `json:"productID" gorm:"not null;index"`
	VariantID    *uint      `json:"variantID,omitempty"`
	ItemType     string     `json:"itemType" gorm:"type:varchar(20);default:'product'"`
	Quantity     int        `json:"quantity" gorm:"not null"`
	Status       string     `json:"status" gorm:"type:varchar(20);not null;default:'Pending'"`
	DeliveryDate *time.Time `json:"deliveryDate,omitempty"`

	CancelReason string     `json:"cancelReason,omitempty"`
	CancelledAt  *time.Time `json:"cancelledAt,omitempty"`

	Product *Product        `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Variant *ProductVariant `json:"variant,omitempty" gorm:"foreignKey:VariantID"`
}
