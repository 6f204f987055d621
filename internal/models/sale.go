package models

import (
	"time"
)

// Sale represents a completed point-of-sale transaction
type Sale struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	GUID          string    `gorm:"uniqueIndex" json:"guid"`
	CustomerID    *uint     `gorm:"index" json:"customer_id"`
	SellerID      uint      `gorm:"not null;index" json:"seller_id"`
	Subtotal      float64   `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Discount      float64   `gorm:"type:decimal(12,2);default:0" json:"discount"`
	Tax           float64   `gorm:"type:decimal(12,2);default:0" json:"tax"`
	Total         float64   `gorm:"type:decimal(12,2);not null" json:"total"`
	PaymentMethod string    `gorm:"default:cash;not null" json:"payment_method"`
	Note          *string   `gorm:"type:text" json:"note"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Associations
	Customer    *Customer    `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Seller      User         `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	Items       []SaleItem   `gorm:"foreignKey:SaleID" json:"items,omitempty"`
	Installment *Installment `gorm:"foreignKey:SaleID" json:"installment,omitempty"`
}

// TableName specifies the table name for Sale
func (Sale) TableName() string {
	return "sales"
}

// Payment method constants
const (
	PaymentMethodCash        = "cash"
	PaymentMethodCard        = "card"
	PaymentMethodTransfer    = "transfer"
	PaymentMethodInstallment = "installment"
)

// Net returns the sale total after discount, before tax
func (s *Sale) Net() float64 {
	return s.Subtotal - s.Discount
}

// COGS returns the cost of goods sold from the unit cost snapshots
func (s *Sale) COGS() float64 {
	var total float64
	for _, item := range s.Items {
		total += item.UnitCost * float64(item.Quantity)
	}
	return total
}

// SaleItem represents a line item within a sale. UnitPrice and UnitCost are
// snapshots taken at sale time so later catalog edits do not rewrite history.
type SaleItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	SaleID    uint    `gorm:"not null;index" json:"sale_id"`
	ProductID uint    `gorm:"not null;index" json:"product_id"`
	IMEIID    *uint   `gorm:"index" json:"imei_id"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	UnitPrice float64 `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	UnitCost  float64 `gorm:"type:decimal(12,2);not null" json:"unit_cost"`

	// Associations
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	IMEI    *IMEI   `gorm:"foreignKey:IMEIID" json:"imei,omitempty"`
}

// TableName specifies the table name for SaleItem
func (SaleItem) TableName() string {
	return "sale_items"
}

// SaleResponse is the JSON response format for sales
type SaleResponse struct {
	ID            uint       `json:"id"`
	GUID          string     `json:"guid"`
	CustomerID    *uint      `json:"customer_id"`
	CustomerName  string     `json:"customer_name,omitempty"`
	SellerName    string     `json:"seller_name,omitempty"`
	Subtotal      float64    `json:"subtotal"`
	Discount      float64    `json:"discount"`
	Tax           float64    `json:"tax"`
	Total         float64    `json:"total"`
	PaymentMethod string     `json:"payment_method"`
	Note          *string    `json:"note"`
	Items         []SaleItem `json:"items"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToResponse converts Sale to SaleResponse
func (s *Sale) ToResponse() SaleResponse {
	resp := SaleResponse{
		ID:            s.ID,
		GUID:          s.GUID,
		CustomerID:    s.CustomerID,
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		Tax:           s.Tax,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		Note:          s.Note,
		Items:         s.Items,
		CreatedAt:     s.CreatedAt,
	}
	if s.Customer != nil {
		resp.CustomerName = s.Customer.FullName
	}
	if s.Seller.ID != 0 {
		resp.SellerName = s.Seller.FullName
	}
	return resp
}
