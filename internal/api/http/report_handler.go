package http

import (
	"net/http"

	"inventrack-backend/internal/domain"
	"inventrack-backend/internal/repository"
	"inventrack-backend/internal/service"
)

type ReportHandler struct {
	reports  service.ReportService
	activity service.ActivityService
}

func NewReportHandler(reports service.ReportService, activity service.ActivityService) *ReportHandler {
	return &ReportHandler{reports: reports, activity: activity}
}

func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.Dashboard(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, report)
}

func (h *ReportHandler) Resources(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.ResourceReport(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, report)
}

func (h *ReportHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.TransactionReport(r.Context(), queryTime(r, "from"), queryTime(r, "to"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, report)
}

func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	result, err := h.reports.Export(r.Context(), UserFromContext(r.Context()), kind,
		queryTime(r, "from"), queryTime(r, "to"), requestMeta(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, result)
}

func (h *ReportHandler) Activity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ActivityFilter{
		UserID:     queryInt32(r, "user_id", 0),
		ResourceID: queryInt32(r, "resource_id", 0),
		Category:   domain.ActivityCategory(q.Get("category")),
		Action:     domain.ActivityAction(q.Get("action")),
		Severity:   domain.ActivitySeverity(q.Get("severity")),
		From:       queryTime(r, "from"),
		To:         queryTime(r, "to"),
		Limit:      queryInt32(r, "limit", 100),
	}
	entries, err := h.activity.Query(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, entries)
}

func (h *ReportHandler) CriticalActivity(w http.ResponseWriter, r *http.Request) {
	entries, err := h.activity.Critical(r.Context(), queryInt32(r, "limit", 50))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, entries)
}
