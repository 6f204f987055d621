package models

import (
	"time"
)

// Warranty represents warranty coverage for a sold product
type Warranty struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProductID  uint      `gorm:"not null;index" json:"product_id"`
	IMEIID     *uint     `gorm:"index" json:"imei_id"`
	CustomerID *uint     `gorm:"index" json:"customer_id"`
	Type       string    `gorm:"not null" json:"type"`
	Status     string    `gorm:"default:active;not null;index" json:"status"`
	StartDate  time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate    time.Time `gorm:"type:date;not null" json:"end_date"`
	Note       *string   `gorm:"type:text" json:"note"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Associations
	Product  Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	IMEI     *IMEI     `gorm:"foreignKey:IMEIID" json:"imei,omitempty"`
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

// TableName specifies the table name for Warranty
func (Warranty) TableName() string {
	return "warranties"
}

// Warranty type constants
const (
	WarrantyTypeManufacturer = "manufacturer"
	WarrantyTypeShop         = "shop"
	WarrantyTypeExtended     = "extended"
)

// Warranty status constants. Status is admin-settable directly; there is
// no automatic expiry sweep.
const (
	WarrantyStatusActive  = "active"
	WarrantyStatusExpired = "expired"
	WarrantyStatusClaimed = "claimed"
	WarrantyStatusVoided  = "voided"
)

// WarrantyTypes lists every valid warranty type
var WarrantyTypes = []string{
	WarrantyTypeManufacturer,
	WarrantyTypeShop,
	WarrantyTypeExtended,
}

// WarrantyStatuses lists every valid warranty status
var WarrantyStatuses = []string{
	WarrantyStatusActive,
	WarrantyStatusExpired,
	WarrantyStatusClaimed,
	WarrantyStatusVoided,
}

// ValidWarrantyType returns true if s is a member of the warranty type enum
func ValidWarrantyType(s string) bool {
	for _, v := range WarrantyTypes {
		if v == s {
			return true
		}
	}
	return false
}

// ValidWarrantyStatus returns true if s is a member of the warranty status enum
func ValidWarrantyStatus(s string) bool {
	for _, v := range WarrantyStatuses {
		if v == s {
			return true
		}
	}
	return false
}
