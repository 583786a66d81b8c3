package models

import "gorm.io/gorm"

// Product is a physical good sold through orders. Stock is a mutable count
// of sellable units, decremented at order placement and restored by the
// cancellation compensating action. For variant-bearing products the
// per-variant stocks are authoritative and OutOfStock derives from them.
type Product struct {
	gorm.Model
	VendorID   uint             `json:"vendorID" gorm:"not null;index"`
	Name       string           `json:"name" gorm:"not null"`
	Price      float64          `json:"price"`
	Stock      int              `json:"stock" gorm:"not null;default:0"`
	OutOfStock bool             `json:"outOfStock" gorm:"not null;default:false"`
	Variants   []ProductVariant `json:"variants" gorm:"foreignKey:ProductID"`
}

type ProductVariant struct {
	gorm.Model
	ProductID uint    `json:"productID" gorm:"not null;index"`
	Name      string  `json:"name" gorm:"not null"`
	Price     float64 `json:"price"`
	Stock     int     `json:"stock" gorm:"not null;default:0"`
}

// RecomputeOutOfStock refreshes the derived flag: true iff stock <= 0, or
// for variant-bearing products iff every variant's stock <= 0.
func (p *Product) RecomputeOutOfStock() {
	if len(p.Variants) > 0 {
		for _, v := range p.Variants {
			if v.Stock > 0 {
				p.OutOfStock = false
				return
			}
		}
		p.OutOfStock = true
		return
	}
	p.OutOfStock = p.Stock <= 0
}
