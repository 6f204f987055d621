package models

import (
	"time"
)

// ExpenseCategory groups expenses for reporting
type ExpenseCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Expenses []Expense `gorm:"foreignKey:CategoryID" json:"expenses,omitempty"`
}

// TableName specifies the table name for ExpenseCategory
func (ExpenseCategory) TableName() string {
	return "expense_categories"
}

// Expense represents an operating expense
type Expense struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CategoryID   uint      `gorm:"not null;index" json:"category_id"`
	Amount       float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Date         time.Time `gorm:"type:date;not null;index" json:"date"`
	Description  *string   `gorm:"type:text" json:"description"`
	RecordedByID *uint     `json:"recorded_by_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Associations
	Category   ExpenseCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	RecordedBy *User           `gorm:"foreignKey:RecordedByID" json:"recorded_by,omitempty"`
}

// TableName specifies the table name for Expense
func (Expense) TableName() string {
	return "expenses"
}
