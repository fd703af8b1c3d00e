package service

import (
	"context"
	"time"

	"inventrack-backend/internal/domain"
	"inventrack-backend/internal/repository"
)

// RequestMeta carries per-request audit context from the transport layer.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput, meta RequestMeta) (*domain.User, string, error) // user, access token
	Login(ctx context.Context, usernameOrEmail, password string, meta RequestMeta) (*domain.User, string, error)
	Logout(ctx context.Context, userID int32, meta RequestMeta) error
	Me(ctx context.Context, userID int32) (*domain.User, error)
	UpdateMe(ctx context.Context, userID int32, input UpdateProfileInput) (*domain.User, error)
	ChangePassword(ctx context.Context, userID int32, currentPassword, newPassword string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
}

type RegisterInput struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Department string `json:"department"`
}

type UpdateProfileInput struct {
	Email      *string `json:"email"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Department *string `json:"department"`
}

type UserService interface {
	Get(ctx context.Context, id int32) (*domain.User, error)
	List(ctx context.Context, filter repository.UserFilter) ([]domain.User, int32, error)
	Update(ctx context.Context, actor *domain.User, id int32, input UpdateUserInput) (*domain.User, error)
	Deactivate(ctx context.Context, actor *domain.User, id int32) error
}

type UpdateUserInput struct {
	Email      *string `json:"email"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Department *string `json:"department"`
	IsActive   *bool   `json:"is_active"`
}

type ResourceService interface {
	Create(ctx context.Context, actor *domain.User, input ResourceInput, meta RequestMeta) (*domain.Resource, error)
	Get(ctx context.Context, id int32) (*domain.Resource, error)
	List(ctx context.Context, filter repository.ResourceFilter) ([]domain.Resource, int32, error)
	Update(ctx context.Context, actor *domain.User, id int32, input ResourceInput, meta RequestMeta) (*domain.Resource, error)
	SoftDelete(ctx context.Context, actor *domain.User, id int32, meta RequestMeta) error
	Checkout(ctx context.Context, actor *domain.User, input CheckoutInput, meta RequestMeta) (*domain.Transaction, error)
	Checkin(ctx context.Context, actor *domain.User, input CheckinInput, meta RequestMeta) (*domain.Transaction, error)
	BulkImport(ctx context.Context, actor *domain.User, payloads []ResourceInput, meta RequestMeta) (*BulkImportResult, error)
	Stats(ctx context.Context) (*repository.ResourceStats, error)
	LowStockAlerts(ctx context.Context, threshold int32) ([]domain.Resource, error)
	MaintenanceAlerts(ctx context.Context) ([]domain.Resource, error)
	RecordMaintenance(ctx context.Context, actor *domain.User, resourceID int32, notes string, meta RequestMeta) (*domain.Resource, error)
}

// ResourceInput is the write payload for Create, Update and BulkImport.
// Pointer fields distinguish "absent" from zero on update.
type ResourceInput struct {
	Name                string                     `json:"name"`
	Type                domain.ResourceType        `json:"type"`
	Category            string                     `json:"category"`
	Quantity            int32                      `json:"quantity"`
	AvailableQuantity   *int32                     `json:"available_quantity"`
	Location            string                     `json:"location"`
	Status              domain.ResourceStatus      `json:"status"`
	Description         string                     `json:"description"`
	PurchaseDate        *time.Time                 `json:"purchase_date"`
	PurchasePriceCents  int64                      `json:"purchase_price_cents"`
	Supplier            string                     `json:"supplier"`
	WarrantyExpiry      *time.Time                 `json:"warranty_expiry"`
	MaintenanceSchedule domain.MaintenanceSchedule `json:"maintenance_schedule"`
	Barcode             *string                    `json:"barcode"`
	Tags                []string                   `json:"tags"`
}

type CheckoutInput struct {
	ResourceID         int32      `json:"resource_id"`
	Quantity           int32      `json:"quantity"`
	Purpose            string     `json:"purpose"`
	ExpectedReturnDate *time.Time `json:"expected_return_date"`
	RequiresApproval   bool       `json:"requires_approval"`
}

type CheckinInput struct {
	ResourceID int32  `json:"resource_id"`
	Quantity   int32  `json:"quantity"`
	Notes      string `json:"notes"`
}

// BulkImportResult reports partial success: valid rows are committed even
// when others fail, each failure keyed by its zero-based input index.
type BulkImportResult struct {
	ImportedCount int               `json:"imported_count"`
	Errors        []BulkImportError `json:"errors"`
}

type BulkImportError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

type TransactionService interface {
	List(ctx context.Context, filter repository.TransactionFilter) ([]domain.Transaction, int32, error)
	Get(ctx context.Context, id int32) (*domain.Transaction, error)
	MyCheckouts(ctx context.Context, userID int32) ([]domain.Transaction, error)
	Overdue(ctx context.Context) ([]domain.Transaction, error)
	Stats(ctx context.Context, from, to *time.Time) (*repository.TransactionStats, error)
	Approve(ctx context.Context, actor *domain.User, id int32, meta RequestMeta) (*domain.Transaction, error)
	Reject(ctx context.Context, actor *domain.User, id int32, reason string, meta RequestMeta) (*domain.Transaction, error)
	Return(ctx context.Context, actor *domain.User, id int32, notes string, meta RequestMeta) (*domain.Transaction, error)
	Cancel(ctx context.Context, actor *domain.User, id int32, meta RequestMeta) (*domain.Transaction, error)
}

type ActivityService interface {
	// Record is best-effort: failures are logged, never propagated.
	Record(ctx context.Context, entry *domain.ActivityLog)
	Recent(ctx context.Context, limit int32) ([]domain.ActivityLog, error)
	Query(ctx context.Context, filter repository.ActivityFilter) ([]domain.ActivityLog, error)
	Critical(ctx context.Context, limit int32) ([]domain.ActivityLog, error)
}

type ReportService interface {
	Dashboard(ctx context.Context) (*DashboardReport, error)
	ResourceReport(ctx context.Context) (*repository.ResourceStats, error)
	TransactionReport(ctx context.Context, from, to *time.Time) (*repository.TransactionStats, error)
	Export(ctx context.Context, actor *domain.User, kind string, from, to *time.Time, meta RequestMeta) (*ExportResult, error)
}

type DashboardReport struct {
	Resources          *repository.ResourceStats    `json:"resources"`
	Transactions       *repository.TransactionStats `json:"transactions"`
	TotalUsers         int32                        `json:"total_users"`
	RecentTransactions []domain.Transaction         `json:"recent_transactions"`
	LowStock           []domain.Resource            `json:"low_stock"`
	Overdue            []domain.Transaction         `json:"overdue"`
}

// ExportResult is a flat rowset for external CSV or JSON rendering. Every
// record has the same length as Header.
type ExportResult struct {
	ExportID    string     `json:"export_id"`
	Kind        string     `json:"kind"`
	GeneratedAt time.Time  `json:"generated_at"`
	Header      []string   `json:"header"`
	Records     [][]string `json:"records"`
}

type AlertService interface {
	RunOverdueSweep(ctx context.Context) error
	RunLowStockSweep(ctx context.Context) error
	RunMaintenanceSweep(ctx context.Context) error
	RunDailySummary(ctx context.Context) error
}

type EmailService interface {
	SendWelcome(ctx context.Context, email, name string) error
	SendPasswordReset(ctx context.Context, email, name, resetToken string) error
	SendCheckoutConfirmation(ctx context.Context, email, name, resourceName string, qty int32, expectedReturn *time.Time) error
	SendOverdueNotice(ctx context.Context, email, name, resourceName string, overdueDays int32) error
	SendLowStockAlert(ctx context.Context, adminEmail string, resources []domain.Resource) error
	SendMaintenanceAlert(ctx context.Context, adminEmail string, resources []domain.Resource) error
	SendDailySummary(ctx context.Context, adminEmail, summary string) error
}
