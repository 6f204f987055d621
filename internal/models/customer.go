package models

import (
	"time"
)

// Customer represents a shop customer
type Customer struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	FullName    string     `gorm:"not null" json:"full_name"`
	Phone       string     `gorm:"uniqueIndex;not null" json:"phone"`
	Email       *string    `json:"email"`
	Address     *string    `json:"address"`
	Note        *string    `gorm:"type:text" json:"note"`
	DiscardedAt *time.Time `gorm:"index" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Associations
	Sales        []Sale        `gorm:"foreignKey:CustomerID" json:"sales,omitempty"`
	Installments []Installment `gorm:"foreignKey:CustomerID" json:"installments,omitempty"`
}

// TableName specifies the table name for Customer
func (Customer) TableName() string {
	return "customers"
}

// IsDiscarded returns true if customer is soft-deleted
func (c *Customer) IsDiscarded() bool {
	return c.DiscardedAt != nil
}
