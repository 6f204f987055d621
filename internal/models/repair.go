package models

import (
	"time"
)

// RepairOrder represents a workshop repair ticket
type RepairOrder struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	TicketNo    string     `gorm:"uniqueIndex;not null" json:"ticket_no"`
	CustomerID  uint       `gorm:"not null;index" json:"customer_id"`
	IMEIID      *uint      `gorm:"index" json:"imei_id"`
	DeviceDesc  string     `json:"device_desc"`
	Issue       string     `gorm:"type:text" json:"issue"`
	Diagnosis   *string    `gorm:"type:text" json:"diagnosis"`
	RepairCost  *float64   `gorm:"type:decimal(12,2)" json:"repair_cost"`
	Status      string     `gorm:"default:received;not null;index" json:"status"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Associations
	Customer Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	IMEI     *IMEI    `gorm:"foreignKey:IMEIID" json:"imei,omitempty"`
}

// TableName specifies the table name for RepairOrder
func (RepairOrder) TableName() string {
	return "repair_orders"
}

// Repair order status constants
const (
	RepairStatusReceived     = "received"
	RepairStatusDiagnosing   = "diagnosing"
	RepairStatusWaitingParts = "waiting_parts"
	RepairStatusRepairing    = "repairing"
	RepairStatusCompleted    = "completed"
	RepairStatusDelivered    = "delivered"
	RepairStatusCancelled    = "cancelled"
)

// RepairStatuses lists every valid repair order status
var RepairStatuses = []string{
	RepairStatusReceived,
	RepairStatusDiagnosing,
	RepairStatusWaitingParts,
	RepairStatusRepairing,
	RepairStatusCompleted,
	RepairStatusDelivered,
	RepairStatusCancelled,
}

// ValidRepairStatus returns true if s is a member of the repair status enum
func ValidRepairStatus(s string) bool {
	for _, v := range RepairStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsClosed returns true once the order reached a terminal status
func (r *RepairOrder) IsClosed() bool {
	return r.Status == RepairStatusDelivered || r.Status == RepairStatusCancelled
}
