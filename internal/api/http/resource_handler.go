package http

import (
	"net/http"

	"inventrack-backend/internal/domain"
	"inventrack-backend/internal/repository"
	"inventrack-backend/internal/service"
)

type ResourceHandler struct {
	resources service.ResourceService
}

func NewResourceHandler(resources service.ResourceService) *ResourceHandler {
	return &ResourceHandler{resources: resources}
}

type listResponse struct {
	Items any   `json:"items"`
	Total int32 `json:"total"`
	Page  int32 `json:"page"`
}

func (h *ResourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.ResourceInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, err)
		return
	}
	res, err := h.resources.Create(r.Context(), UserFromContext(r.Context()), input, requestMeta(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, res)
}

func (h *ResourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	res, err := h.resources.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, res)
}

func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ResourceFilter{
		Search:          q.Get("search"),
		Type:            domain.ResourceType(q.Get("type")),
		Status:          domain.ResourceStatus(q.Get("status")),
		Location:        q.Get("location"),
		IncludeInactive: queryBool(r, "include_inactive"),
		SortBy:          q.Get("sort_by"),
		SortDesc:        queryBool(r, "sort_desc"),
		Page:            queryInt32(r, "page", 1),
		PageSize:        queryInt32(r, "page_size", 20),
	}
	items, total, err := h.resources.List(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, listResponse{Items: items, Total: total, Page: filter.Page})
}

func (h *ResourceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var input service.ResourceInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, err)
		return
	}
	res, err := h.resources.Update(r.Context(), UserFromContext(r.Context()), id, input, requestMeta(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, res)
}

func (h *ResourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.resources.SoftDelete(r.Context(), UserFromContext(r.Context()), id, requestMeta(r)); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "resource deactivated")
}

func (h *ResourceHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var input service.CheckoutInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, err)
		return
	}
	input.ResourceID = id
	tx, err := h.resources.Checkout(r.Context(), UserFromContext(r.Context()), input, requestMeta(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, tx)
}

func (h *ResourceHandler) Checkin(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var input service.CheckinInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, err)
		return
	}
	input.ResourceID = id
	tx, err := h.resources.Checkin(r.Context(), UserFromContext(r.Context()), input, requestMeta(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, tx)
}

func (h *ResourceHandler) BulkImport(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Resources []service.ResourceInput `json:"resources"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondError(w, err)
		return
	}
	result, err := h.resources.BulkImport(r.Context(), UserFromContext(r.Context()), body.Resources, requestMeta(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, result)
}

func (h *ResourceHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.resources.Stats(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, stats)
}

func (h *ResourceHandler) LowStockAlerts(w http.ResponseWriter, r *http.Request) {
	resources, err := h.resources.LowStockAlerts(r.Context(), queryInt32(r, "threshold", 0))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, resources)
}

func (h *ResourceHandler) MaintenanceAlerts(w http.ResponseWriter, r *http.Request) {
	resources, err := h.resources.MaintenanceAlerts(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, resources)
}

func (h *ResourceHandler) RecordMaintenance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var body struct {
		Notes string `json:"notes"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondError(w, err)
		return
	}
	res, err := h.resources.RecordMaintenance(r.Context(), UserFromContext(r.Context()), id, body.Notes, requestMeta(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, res)
}
