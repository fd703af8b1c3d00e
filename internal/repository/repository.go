package repository

import (
	"context"
	"time"

	"inventrack-backend/internal/domain"
)

// UserFilter narrows List queries. Zero values mean "no constraint".
type UserFilter struct {
	Search   string
	Role     domain.Role
	IsActive *bool
	SortBy   string
	SortDesc bool
	Page     int32
	PageSize int32
}

// ResourceFilter narrows catalog List queries. Only active resources are
// returned unless IncludeInactive is set.
type ResourceFilter struct {
	Search          string
	Type            domain.ResourceType
	Status          domain.ResourceStatus
	Location        string
	IncludeInactive bool
	SortBy          string
	SortDesc        bool
	Page            int32
	PageSize        int32
}

// TransactionFilter narrows ledger List queries.
type TransactionFilter struct {
	Type       domain.TransactionType
	Status     domain.TransactionStatus
	UserID     int32
	ResourceID int32
	From       *time.Time
	To         *time.Time
	SortBy     string
	SortDesc   bool
	Page       int32
	PageSize   int32
}

// ActivityFilter narrows audit log queries.
type ActivityFilter struct {
	UserID     int32
	ResourceID int32
	Category   domain.ActivityCategory
	Action     domain.ActivityAction
	Severity   domain.ActivitySeverity
	From       *time.Time
	To         *time.Time
	Limit      int32
}

// ResourceStats is an aggregate snapshot over the active catalog.
type ResourceStats struct {
	TotalResources  int32
	TotalQuantity   int32
	TotalAvailable  int32
	TotalCheckedOut int32
	ByType          map[domain.ResourceType]int32
	ByStatus        map[domain.ResourceStatus]int32
}

// TransactionStats is an aggregate snapshot over the ledger.
type TransactionStats struct {
	TotalTransactions int32
	TotalCheckouts    int32
	TotalCheckins     int32
	PendingApprovals  int32
	ByType            map[domain.TransactionType]int32
	ByStatus          map[domain.TransactionStatus]int32
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id int32, passwordHash string) error
	List(ctx context.Context, filter UserFilter) ([]domain.User, int32, error)

	// ListActiveByEmailSuffix returns active accounts whose email ends with
	// suffix. Used to address alert mail to the admin population.
	ListActiveByEmailSuffix(ctx context.Context, suffix string) ([]domain.User, error)
}

type ResourceRepository interface {
	Create(ctx context.Context, r *domain.Resource) error
	GetByID(ctx context.Context, id int32) (*domain.Resource, error)
	Update(ctx context.Context, r *domain.Resource) error
	SoftDelete(ctx context.Context, id, actorID int32) error
	List(ctx context.Context, filter ResourceFilter) ([]domain.Resource, int32, error)
	ListLowStock(ctx context.Context, threshold int32) ([]domain.Resource, error)
	ListMaintenanceDue(ctx context.Context, asOf time.Time) ([]domain.Resource, error)
	Stats(ctx context.Context) (*ResourceStats, error)

	// ApplyCheckin atomically increments available stock by qty, clamped to
	// the total quantity, reverting Out of Stock to Available. The stock
	// decrement has no standalone counterpart: checkouts always pair it with
	// a ledger write, via the TransactionRepository combined operations.
	ApplyCheckin(ctx context.Context, id, qty int32) error

	// SetMaintenance records a completed maintenance pass.
	SetMaintenance(ctx context.Context, id int32, last time.Time, next *time.Time) error
}

type TransactionRepository interface {
	Create(ctx context.Context, t *domain.Transaction) error
	GetByID(ctx context.Context, id int32) (*domain.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]domain.Transaction, int32, error)

	// ListActiveCheckouts returns a user's checkouts that reached the catalog
	// and have not been returned.
	ListActiveCheckouts(ctx context.Context, userID int32) ([]domain.Transaction, error)

	// CountActiveCheckoutsByResource counts unreturned completed checkouts
	// against a resource; the soft-delete precondition.
	CountActiveCheckoutsByResource(ctx context.Context, resourceID int32) (int32, error)

	// ListOverdue returns completed checkouts past their expected return date
	// with no recorded return, as of the given instant.
	ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Transaction, error)

	// The Mark* methods are conditional single-statement transitions: each
	// succeeds only from the status the state machine allows and returns
	// domain.ErrInvalidStateTransition when zero rows match.
	MarkApproved(ctx context.Context, id, approvedBy int32, at time.Time) error
	MarkRejected(ctx context.Context, id, approvedBy int32, reason string, at time.Time) error
	MarkCancelled(ctx context.Context, id int32) error

	// The combined operations below pair a ledger transition with its catalog
	// mutation inside one database transaction, so neither write is visible
	// unless both guards pass.

	// CreateCompletedCheckout inserts a completed checkout entry and
	// decrements availability. Zero catalog rows means the stock guard
	// failed: domain.ErrInsufficientQuantity.
	CreateCompletedCheckout(ctx context.Context, t *domain.Transaction) error

	// ApproveCheckout decrements availability and moves the pending entry to
	// approved. Stock guard failure returns domain.ErrInsufficientQuantity;
	// a concurrent decision returns domain.ErrInvalidStateTransition.
	ApproveCheckout(ctx context.Context, id, approvedBy int32, at time.Time, resourceID, qty int32) error

	// ReturnCheckout records the return and credits availability. The status
	// guard serializes double returns: domain.ErrInvalidStateTransition.
	ReturnCheckout(ctx context.Context, id int32, notes string, at time.Time, resourceID, qty int32) error

	// SaveOverdueFlags persists the derived overdue cache for query
	// efficiency. Never authoritative; readers recompute.
	SaveOverdueFlags(ctx context.Context, id int32, isOverdue bool, overdueDays int32) error

	Stats(ctx context.Context, from, to *time.Time) (*TransactionStats, error)
}

type ActivityRepository interface {
	Create(ctx context.Context, entry *domain.ActivityLog) error
	List(ctx context.Context, filter ActivityFilter) ([]domain.ActivityLog, error)
}
