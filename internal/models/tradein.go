package models

import (
	"time"
)

// TradeIn represents a device a customer offers in part exchange
type TradeIn struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CustomerID  *uint     `gorm:"index" json:"customer_id"`
	IMEIID      *uint     `gorm:"index" json:"imei_id"`
	ProductID   *uint     `gorm:"index" json:"product_id"`
	DeviceDesc  string    `json:"device_desc"`
	OfferAmount float64   `gorm:"type:decimal(12,2);not null" json:"offer_amount"`
	Status      string    `gorm:"default:pending;not null;index" json:"status"`
	Note        *string   `gorm:"type:text" json:"note"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	IMEI     *IMEI     `gorm:"foreignKey:IMEIID" json:"imei,omitempty"`
	Product  *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName specifies the table name for TradeIn
func (TradeIn) TableName() string {
	return "trade_ins"
}

// Trade-in status constants
const (
	TradeInStatusPending  = "pending"
	TradeInStatusAccepted = "accepted"
	TradeInStatusRejected = "rejected"
	TradeInStatusResold   = "resold"
)

// TradeInStatuses lists every valid trade-in status
var TradeInStatuses = []string{
	TradeInStatusPending,
	TradeInStatusAccepted,
	TradeInStatusRejected,
	TradeInStatusResold,
}

// ValidTradeInStatus returns true if s is a member of the trade-in status enum
func ValidTradeInStatus(s string) bool {
	for _, v := range TradeInStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// MayAccept returns true if the trade-in can be accepted
func (t *TradeIn) MayAccept() bool {
	return t.Status == TradeInStatusPending
}

// MayReject returns true if the trade-in can be rejected
func (t *TradeIn) MayReject() bool {
	return t.Status == TradeInStatusPending
}

// MayResell returns true if the accepted device can be marked resold
func (t *TradeIn) MayResell() bool {
	return t.Status == TradeInStatusAccepted
}
