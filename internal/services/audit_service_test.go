package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/celtec/pos-api/internal/models"
	"github.com/celtec/pos-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	gormtests "gorm.io/gorm/utils/tests"
)

var errAuditStorage = errors.New("audit storage unavailable")

// brokenConnPool fails every statement, standing in for an audit table that
// cannot be written to.
type brokenConnPool struct{}

func (brokenConnPool) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return nil, errAuditStorage
}

func (brokenConnPool) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, errAuditStorage
}

func (brokenConnPool) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, errAuditStorage
}

func (brokenConnPool) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func brokenAuditService(t *testing.T) *AuditService {
	t.Helper()
	db, err := gorm.Open(gormtests.DummyDialector{}, &gorm.Config{
		ConnPool:               brokenConnPool{},
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	assert.NoError(t, err)
	return NewAuditService(db)
}

func TestAuditService_LogSurfacesStorageError(t *testing.T) {
	service := brokenAuditService(t)

	err := service.Log(context.Background(), 1, "CREATE", "Category", 2, "Categoría creada", "", "")
	assert.Error(t, err)
}

func TestAuditService_RecordSwallowsStorageFailure(t *testing.T) {
	service := brokenAuditService(t)

	service.Record(context.Background(), 1, "CREATE", "Category", 2, "Categoría creada", "", "")
}

func TestAuditService_NilServiceIsNoOp(t *testing.T) {
	var service *AuditService

	assert.NoError(t, service.Log(context.Background(), 1, "CREATE", "Category", 2, "", "", ""))
}

type mockCategoryRepo struct {
	repository.CategoryRepository
	mockCreate func(ctx context.Context, category *models.Category) error
}

func (m *mockCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	return m.mockCreate(ctx, category)
}

// A committed write must not be reported as failed because its audit entry
// could not be stored.
func TestCatalogService_CreateCategory_AuditFailureIsSwallowed(t *testing.T) {
	categoryRepo := &mockCategoryRepo{
		mockCreate: func(ctx context.Context, category *models.Category) error {
			category.ID = 9
			return nil
		},
	}
	service := NewCatalogService(categoryRepo, nil, nil, NewNotificationService(nil, &mockAdminRepo{}), brokenAuditService(t))

	err := service.CreateCategory(context.Background(), &models.Category{Name: "Accesorios"}, 1)
	assert.NoError(t, err)
}
