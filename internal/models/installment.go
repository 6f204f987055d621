package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Installment represents the amortization ledger opened for a sale paid in
// monthly installments. Exactly one per sale; mutated only by payment
// application.
type Installment struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	SaleID         uint            `gorm:"uniqueIndex;not null" json:"sale_id"`
	CustomerID     uint            `gorm:"not null;index" json:"customer_id"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	DownPayment    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"down_payment"`
	Remaining      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"remaining"`
	MonthlyAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"monthly_amount"`
	TotalMonths    int             `gorm:"not null" json:"total_months"`
	Status         string          `gorm:"default:active;not null;index" json:"status"`
	StartDate      time.Time       `gorm:"type:date" json:"start_date"`
	CompletedAt    *time.Time      `json:"completed_at"`
	ReminderSentAt *time.Time      `json:"-"`
	CreatedAt      time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Associations
	Sale     Sale                 `gorm:"foreignKey:SaleID" json:"sale,omitempty"`
	Customer Customer             `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Payments []InstallmentPayment `gorm:"foreignKey:InstallmentID" json:"payments,omitempty"`
}

// TableName specifies the table name for Installment
func (Installment) TableName() string {
	return "installments"
}

// Installment status constants
const (
	InstallmentStatusActive    = "active"
	InstallmentStatusCompleted = "completed"
)

// MayAddPayment returns true if payments can still be applied
func (i *Installment) MayAddPayment() bool {
	return i.Status == InstallmentStatusActive
}

// ApplyPayment reduces the remaining balance by amount, clamping at zero,
// and marks the installment completed when the balance reaches zero.
// Completed is final: callers must check MayAddPayment first.
func (i *Installment) ApplyPayment(amount decimal.Decimal) {
	i.Remaining = i.Remaining.Sub(amount)
	if i.Remaining.Sign() <= 0 {
		i.Remaining = decimal.Zero
		i.Status = InstallmentStatusCompleted
		now := time.Now()
		i.CompletedAt = &now
	}
}

// PaidSoFar sums the loaded payment records
func (i *Installment) PaidSoFar() decimal.Decimal {
	total := decimal.Zero
	for _, p := range i.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// InstallmentPayment is an append-only ledger entry against an installment
type InstallmentPayment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	InstallmentID uint            `gorm:"not null;index" json:"installment_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Note          *string         `gorm:"type:text" json:"note"`
	ReceiptPath   *string         `json:"-"`
	ReceivedByID  *uint           `json:"received_by_id"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`

	// Associations
	Installment Installment `gorm:"foreignKey:InstallmentID" json:"-"`
	ReceivedBy  *User       `gorm:"foreignKey:ReceivedByID" json:"received_by,omitempty"`
}

// TableName specifies the table name for InstallmentPayment
func (InstallmentPayment) TableName() string {
	return "installment_payments"
}

// InstallmentResponse is the JSON response format for installments
type InstallmentResponse struct {
	ID            uint                 `json:"id"`
	SaleID        uint                 `json:"sale_id"`
	CustomerID    uint                 `json:"customer_id"`
	CustomerName  string               `json:"customer_name,omitempty"`
	TotalAmount   decimal.Decimal      `json:"total_amount"`
	DownPayment   decimal.Decimal      `json:"down_payment"`
	Remaining     decimal.Decimal      `json:"remaining"`
	MonthlyAmount decimal.Decimal      `json:"monthly_amount"`
	TotalMonths   int                  `json:"total_months"`
	Status        string               `json:"status"`
	StartDate     time.Time            `json:"start_date"`
	CompletedAt   *time.Time           `json:"completed_at"`
	Payments      []InstallmentPayment `json:"payments,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

// ToResponse converts Installment to InstallmentResponse
func (i *Installment) ToResponse() InstallmentResponse {
	resp := InstallmentResponse{
		ID:            i.ID,
		SaleID:        i.SaleID,
		CustomerID:    i.CustomerID,
		TotalAmount:   i.TotalAmount,
		DownPayment:   i.DownPayment,
		Remaining:     i.Remaining,
		MonthlyAmount: i.MonthlyAmount,
		TotalMonths:   i.TotalMonths,
		Status:        i.Status,
		StartDate:     i.StartDate,
		CompletedAt:   i.CompletedAt,
		Payments:      i.Payments,
		CreatedAt:     i.CreatedAt,
	}
	if i.Customer.ID != 0 {
		resp.CustomerName = i.Customer.FullName
	}
	return resp
}
