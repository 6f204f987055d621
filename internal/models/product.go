package models

import (
	"time"
)

// LowStockThreshold is the fixed unit count at or below which a product
// is flagged as low stock in the inventory report.
const LowStockThreshold = 5

// Product represents a catalog item (phone or accessory)
type Product struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CategoryID uint      `gorm:"not null;index" json:"category_id"`
	SupplierID *uint     `gorm:"index" json:"supplier_id"`
	Name       string    `gorm:"not null" json:"name"`
	Brand      string    `json:"brand"`
	Model      string    `json:"model"`
	CostPrice  float64   `gorm:"type:decimal(12,2);not null" json:"cost_price"`
	SalePrice  float64   `gorm:"type:decimal(12,2);not null" json:"sale_price"`
	TrackIMEI  bool      `gorm:"default:false" json:"track_imei"`
	Quantity   int       `gorm:"default:0" json:"quantity"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Associations
	Category Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	IMEIs    []IMEI    `gorm:"foreignKey:ProductID" json:"imeis,omitempty"`
}

// TableName specifies the table name for Product
func (Product) TableName() string {
	return "products"
}

// InStockUnits returns the available unit count. For IMEI-tracked products
// it counts loaded IMEIs with status in_stock; otherwise the quantity column.
func (p *Product) InStockUnits() int {
	if !p.TrackIMEI {
		return p.Quantity
	}
	count := 0
	for _, unit := range p.IMEIs {
		if unit.Status == IMEIStatusInStock {
			count++
		}
	}
	return count
}

// IsLowStock returns true when available units are at or below the threshold
func (p *Product) IsLowStock() bool {
	return p.InStockUnits() <= LowStockThreshold
}
