package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Handlers aggregates the per-area handlers wired into the router.
type Handlers struct {
	Auth        *AuthHandler
	User        *UserHandler
	Resource    *ResourceHandler
	Transaction *TransactionHandler
	Report      *ReportHandler
}

// NewRouter builds the full API surface under /api/v1. Routes outside the
// public subrouter require a bearer token; admin routes additionally require
// the derived admin role.
func NewRouter(h Handlers, m *Middleware) *mux.Router {
	root := mux.NewRouter()
	root.Use(m.LogRequests, m.RateLimit)

	root.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondMessage(w, http.StatusOK, "ok")
	}).Methods("GET")

	api := root.PathPrefix("/api/v1").Subrouter()

	// Public
	api.HandleFunc("/auth/register", h.Auth.Register).Methods("POST")
	api.HandleFunc("/auth/login", h.Auth.Login).Methods("POST")
	api.HandleFunc("/auth/forgot-password", h.Auth.ForgotPassword).Methods("POST")
	api.HandleFunc("/auth/reset-password", h.Auth.ResetPassword).Methods("POST")

	// Authenticated
	authed := api.NewRoute().Subrouter()
	authed.Use(m.Authenticate)

	authed.HandleFunc("/auth/logout", h.Auth.Logout).Methods("POST")
	authed.HandleFunc("/auth/me", h.Auth.Me).Methods("GET")
	authed.HandleFunc("/auth/me", h.Auth.UpdateMe).Methods("PUT")
	authed.HandleFunc("/auth/change-password", h.Auth.ChangePassword).Methods("POST")

	authed.HandleFunc("/resources", h.Resource.List).Methods("GET")
	authed.HandleFunc("/resources/stats", h.Resource.Stats).Methods("GET")
	authed.HandleFunc("/resources/{id:[0-9]+}", h.Resource.Get).Methods("GET")
	authed.HandleFunc("/resources/{id:[0-9]+}/checkout", h.Resource.Checkout).Methods("POST")
	authed.HandleFunc("/resources/{id:[0-9]+}/checkin", h.Resource.Checkin).Methods("POST")

	authed.HandleFunc("/transactions", h.Transaction.List).Methods("GET")
	authed.HandleFunc("/transactions/my-checkouts", h.Transaction.MyCheckouts).Methods("GET")
	authed.HandleFunc("/transactions/stats", h.Transaction.Stats).Methods("GET")
	authed.HandleFunc("/transactions/{id:[0-9]+}", h.Transaction.Get).Methods("GET")
	authed.HandleFunc("/transactions/{id:[0-9]+}/cancel", h.Transaction.Cancel).Methods("POST")
	authed.HandleFunc("/transactions/{id:[0-9]+}/return", h.Transaction.Return).Methods("POST")

	// Admin
	admin := authed.NewRoute().Subrouter()
	admin.Use(m.RequireAdmin)

	admin.HandleFunc("/resources", h.Resource.Create).Methods("POST")
	admin.HandleFunc("/resources/bulk-import", h.Resource.BulkImport).Methods("POST")
	admin.HandleFunc("/resources/alerts/low-stock", h.Resource.LowStockAlerts).Methods("GET")
	admin.HandleFunc("/resources/alerts/maintenance", h.Resource.MaintenanceAlerts).Methods("GET")
	admin.HandleFunc("/resources/{id:[0-9]+}", h.Resource.Update).Methods("PUT")
	admin.HandleFunc("/resources/{id:[0-9]+}", h.Resource.Delete).Methods("DELETE")
	admin.HandleFunc("/resources/{id:[0-9]+}/maintenance", h.Resource.RecordMaintenance).Methods("POST")

	admin.HandleFunc("/transactions/overdue", h.Transaction.Overdue).Methods("GET")
	admin.HandleFunc("/transactions/{id:[0-9]+}/approve", h.Transaction.Approve).Methods("POST")
	admin.HandleFunc("/transactions/{id:[0-9]+}/reject", h.Transaction.Reject).Methods("POST")

	admin.HandleFunc("/users", h.User.List).Methods("GET")
	admin.HandleFunc("/users/{id:[0-9]+}", h.User.Get).Methods("GET")
	admin.HandleFunc("/users/{id:[0-9]+}", h.User.Update).Methods("PUT")
	admin.HandleFunc("/users/{id:[0-9]+}", h.User.Deactivate).Methods("DELETE")

	admin.HandleFunc("/reports/dashboard", h.Report.Dashboard).Methods("GET")
	admin.HandleFunc("/reports/resources", h.Report.Resources).Methods("GET")
	admin.HandleFunc("/reports/transactions", h.Report.Transactions).Methods("GET")
	admin.HandleFunc("/reports/export", h.Report.Export).Methods("GET")
	admin.HandleFunc("/activity", h.Report.Activity).Methods("GET")
	admin.HandleFunc("/activity/critical", h.Report.CriticalActivity).Methods("GET")

	return root
}
