package domain

import "time"

type ActivityAction string

const (
	ActionLogin           ActivityAction = "login"
	ActionLogout          ActivityAction = "logout"
	ActionRegister        ActivityAction = "register"
	ActionResourceAdd     ActivityAction = "resource_add"
	ActionResourceEdit    ActivityAction = "resource_edit"
	ActionResourceDelete  ActivityAction = "resource_delete"
	ActionResourceView    ActivityAction = "resource_view"
	ActionCheckout        ActivityAction = "checkout"
	ActionCheckin         ActivityAction = "checkin"
	ActionCheckoutApprove ActivityAction = "checkout_approve"
	ActionCheckoutReject  ActivityAction = "checkout_reject"
	ActionCheckoutCancel  ActivityAction = "checkout_cancel"
	ActionUserAdd         ActivityAction = "user_add"
	ActionUserEdit        ActivityAction = "user_edit"
	ActionUserDelete      ActivityAction = "user_delete"
	ActionUserView        ActivityAction = "user_view"
	ActionReportGenerate  ActivityAction = "report_generate"
	ActionReportExport    ActivityAction = "report_export"
	ActionSystemConfig    ActivityAction = "system_config"
	ActionSystemError     ActivityAction = "system_error"
)

type ActivityCategory string

const (
	CategoryAuthentication     ActivityCategory = "authentication"
	CategoryResourceManagement ActivityCategory = "resource_management"
	CategoryUserManagement     ActivityCategory = "user_management"
	CategorySystem             ActivityCategory = "system"
	CategoryReporting          ActivityCategory = "reporting"
)

// CategoryForAction maps an action to its audit category.
func CategoryForAction(action ActivityAction) ActivityCategory {
	switch action {
	case ActionLogin, ActionLogout, ActionRegister:
		return CategoryAuthentication
	case ActionResourceAdd, ActionResourceEdit, ActionResourceDelete, ActionResourceView,
		ActionCheckout, ActionCheckin, ActionCheckoutApprove, ActionCheckoutReject, ActionCheckoutCancel:
		return CategoryResourceManagement
	case ActionUserAdd, ActionUserEdit, ActionUserDelete, ActionUserView:
		return CategoryUserManagement
	case ActionReportGenerate, ActionReportExport:
		return CategoryReporting
	}
	return CategorySystem
}

type ActivitySeverity string

const (
	SeverityLow      ActivitySeverity = "low"
	SeverityMedium   ActivitySeverity = "medium"
	SeverityHigh     ActivitySeverity = "high"
	SeverityCritical ActivitySeverity = "critical"
)

// ActivityLog is a side-channel audit record, independent of the transaction
// ledger. Entries are append-only; no update or delete is exposed anywhere.
type ActivityLog struct {
	ID            int64             `json:"id"`
	UserID        *int32            `json:"user_id,omitempty"`
	Action        ActivityAction    `json:"action"`
	ResourceID    *int32            `json:"resource_id,omitempty"`
	TransactionID *int32            `json:"transaction_id,omitempty"`
	TargetUserID  *int32            `json:"target_user_id,omitempty"`
	Details       string            `json:"details,omitempty"`
	IPAddress     string            `json:"ip_address,omitempty"`
	UserAgent     string            `json:"user_agent,omitempty"`
	Severity      ActivitySeverity  `json:"severity"`
	Category      ActivityCategory  `json:"category"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	IsSuccessful  bool              `json:"is_successful"`
	ErrorMessage  string            `json:"error_message,omitempty"`
	CreatedOn     time.Time         `json:"created_on"`
}
