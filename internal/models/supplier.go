package models

import (
	"time"
)

// Supplier represents a product supplier
type Supplier struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"not null" json:"name"`
	Phone       string     `gorm:"uniqueIndex;not null" json:"phone"`
	Email       *string    `json:"email"`
	Address     *string    `json:"address"`
	ContactName *string    `json:"contact_name"`
	Note        *string    `gorm:"type:text" json:"note"`
	DiscardedAt *time.Time `gorm:"index" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Associations
	Products []Product `gorm:"foreignKey:SupplierID" json:"products,omitempty"`
}

// TableName specifies the table name for Supplier
func (Supplier) TableName() string {
	return "suppliers"
}

// IsDiscarded returns true if supplier is soft-deleted
func (s *Supplier) IsDiscarded() bool {
	return s.DiscardedAt != nil
}
