package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"inventrack-backend/internal/domain"
	"inventrack-backend/internal/repository"
)

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) UpdatePassword(ctx context.Context, id int32, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *MockUserRepo) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, int32, error) {
	args := m.Called(ctx, filter)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Get(1).(int32), args.Error(2)
}

func (m *MockUserRepo) ListActiveByEmailSuffix(ctx context.Context, suffix string) ([]domain.User, error) {
	args := m.Called(ctx, suffix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

type MockResourceRepo struct{ mock.Mock }

func (m *MockResourceRepo) Create(ctx context.Context, r *domain.Resource) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockResourceRepo) GetByID(ctx context.Context, id int32) (*domain.Resource, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resource), args.Error(1)
}

func (m *MockResourceRepo) Update(ctx context.Context, r *domain.Resource) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockResourceRepo) SoftDelete(ctx context.Context, id, actorID int32) error {
	return m.Called(ctx, id, actorID).Error(0)
}

func (m *MockResourceRepo) List(ctx context.Context, filter repository.ResourceFilter) ([]domain.Resource, int32, error) {
	args := m.Called(ctx, filter)
	var resources []domain.Resource
	if args.Get(0) != nil {
		resources = args.Get(0).([]domain.Resource)
	}
	return resources, args.Get(1).(int32), args.Error(2)
}

func (m *MockResourceRepo) ListLowStock(ctx context.Context, threshold int32) ([]domain.Resource, error) {
	args := m.Called(ctx, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Resource), args.Error(1)
}

func (m *MockResourceRepo) ListMaintenanceDue(ctx context.Context, asOf time.Time) ([]domain.Resource, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Resource), args.Error(1)
}

func (m *MockResourceRepo) Stats(ctx context.Context) (*repository.ResourceStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ResourceStats), args.Error(1)
}

func (m *MockResourceRepo) ApplyCheckin(ctx context.Context, id, qty int32) error {
	return m.Called(ctx, id, qty).Error(0)
}

func (m *MockResourceRepo) SetMaintenance(ctx context.Context, id int32, last time.Time, next *time.Time) error {
	return m.Called(ctx, id, last, next).Error(0)
}

type MockTransactionRepo struct{ mock.Mock }

func (m *MockTransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTransactionRepo) CreateCompletedCheckout(ctx context.Context, t *domain.Transaction) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTransactionRepo) ApproveCheckout(ctx context.Context, id, approvedBy int32, at time.Time, resourceID, qty int32) error {
	return m.Called(ctx, id, approvedBy, at, resourceID, qty).Error(0)
}

func (m *MockTransactionRepo) ReturnCheckout(ctx context.Context, id int32, notes string, at time.Time, resourceID, qty int32) error {
	return m.Called(ctx, id, notes, at, resourceID, qty).Error(0)
}

func (m *MockTransactionRepo) GetByID(ctx context.Context, id int32) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepo) List(ctx context.Context, filter repository.TransactionFilter) ([]domain.Transaction, int32, error) {
	args := m.Called(ctx, filter)
	var txs []domain.Transaction
	if args.Get(0) != nil {
		txs = args.Get(0).([]domain.Transaction)
	}
	return txs, args.Get(1).(int32), args.Error(2)
}

func (m *MockTransactionRepo) ListActiveCheckouts(ctx context.Context, userID int32) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepo) CountActiveCheckoutsByResource(ctx context.Context, resourceID int32) (int32, error) {
	args := m.Called(ctx, resourceID)
	return args.Get(0).(int32), args.Error(1)
}

func (m *MockTransactionRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepo) MarkApproved(ctx context.Context, id, approvedBy int32, at time.Time) error {
	return m.Called(ctx, id, approvedBy, at).Error(0)
}

func (m *MockTransactionRepo) MarkRejected(ctx context.Context, id, approvedBy int32, reason string, at time.Time) error {
	return m.Called(ctx, id, approvedBy, reason, at).Error(0)
}

func (m *MockTransactionRepo) MarkCancelled(ctx context.Context, id int32) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTransactionRepo) SaveOverdueFlags(ctx context.Context, id int32, isOverdue bool, overdueDays int32) error {
	return m.Called(ctx, id, isOverdue, overdueDays).Error(0)
}

func (m *MockTransactionRepo) Stats(ctx context.Context, from, to *time.Time) (*repository.TransactionStats, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.TransactionStats), args.Error(1)
}

type MockActivityRepo struct{ mock.Mock }

func (m *MockActivityRepo) Create(ctx context.Context, entry *domain.ActivityLog) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockActivityRepo) List(ctx context.Context, filter repository.ActivityFilter) ([]domain.ActivityLog, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActivityLog), args.Error(1)
}

type MockEmailService struct{ mock.Mock }

func (m *MockEmailService) SendWelcome(ctx context.Context, email, name string) error {
	return m.Called(ctx, email, name).Error(0)
}

func (m *MockEmailService) SendPasswordReset(ctx context.Context, email, name, resetToken string) error {
	return m.Called(ctx, email, name, resetToken).Error(0)
}

func (m *MockEmailService) SendCheckoutConfirmation(ctx context.Context, email, name, resourceName string, qty int32, expectedReturn *time.Time) error {
	return m.Called(ctx, email, name, resourceName, qty, expectedReturn).Error(0)
}

func (m *MockEmailService) SendOverdueNotice(ctx context.Context, email, name, resourceName string, overdueDays int32) error {
	return m.Called(ctx, email, name, resourceName, overdueDays).Error(0)
}

func (m *MockEmailService) SendLowStockAlert(ctx context.Context, adminEmail string, resources []domain.Resource) error {
	return m.Called(ctx, adminEmail, resources).Error(0)
}

func (m *MockEmailService) SendMaintenanceAlert(ctx context.Context, adminEmail string, resources []domain.Resource) error {
	return m.Called(ctx, adminEmail, resources).Error(0)
}

func (m *MockEmailService) SendDailySummary(ctx context.Context, adminEmail, summary string) error {
	return m.Called(ctx, adminEmail, summary).Error(0)
}
