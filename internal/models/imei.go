package models

import (
	"time"
)

// IMEI represents a serialized stock unit of a product
type IMEI struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	IMEI      string    `gorm:"column:imei;uniqueIndex;not null" json:"imei"`
	Status    string    `gorm:"default:in_stock;not null;index" json:"status"`
	Note      *string   `json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName specifies the table name for IMEI
func (IMEI) TableName() string {
	return "imeis"
}

// IMEI status constants
const (
	IMEIStatusInStock     = "in_stock"
	IMEIStatusSold        = "sold"
	IMEIStatusReserved    = "reserved"
	IMEIStatusDefective   = "defective"
	IMEIStatusTradedIn    = "traded_in"
	IMEIStatusTransferred = "transferred"
)

// IMEIStatuses lists every valid IMEI status. No transition table is
// enforced: admins may set any status from any other.
var IMEIStatuses = []string{
	IMEIStatusInStock,
	IMEIStatusSold,
	IMEIStatusReserved,
	IMEIStatusDefective,
	IMEIStatusTradedIn,
	IMEIStatusTransferred,
}

// ValidIMEIStatus returns true if s is a member of the IMEI status enum
func ValidIMEIStatus(s string) bool {
	for _, v := range IMEIStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// MayDelete returns true if the unit can be removed from stock.
// Sold units are kept for sale history.
func (i *IMEI) MayDelete() bool {
	return i.Status != IMEIStatusSold
}
