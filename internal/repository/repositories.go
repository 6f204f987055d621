package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User            UserRepository
	Customer        CustomerRepository
	Supplier        SupplierRepository
	Category        CategoryRepository
	Product         ProductRepository
	IMEI            IMEIRepository
	Sale            SaleRepository
	Installment     InstallmentRepository
	ExpenseCategory ExpenseCategoryRepository
	Expense         ExpenseRepository
	Repair          RepairRepository
	TradeIn         TradeInRepository
	Warranty        WarrantyRepository
	Notification    NotificationRepository
	RefreshToken    RefreshTokenRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:            NewUserRepository(db),
		Customer:        NewCustomerRepository(db),
		Supplier:        NewSupplierRepository(db),
		Category:        NewCategoryRepository(db),
		Product:         NewProductRepository(db),
		IMEI:            NewIMEIRepository(db),
		Sale:            NewSaleRepository(db),
		Installment:     NewInstallmentRepository(db),
		ExpenseCategory: NewExpenseCategoryRepository(db),
		Expense:         NewExpenseRepository(db),
		Repair:          NewRepairRepository(db),
		TradeIn:         NewTradeInRepository(db),
		Warranty:        NewWarrantyRepository(db),
		Notification:    NewNotificationRepository(db),
		RefreshToken:    NewRefreshTokenRepository(db),
	}
}
