package http

import (
	"net/http"

	"inventrack-backend/internal/domain"
	"inventrack-backend/internal/repository"
	"inventrack-backend/internal/service"
)

type TransactionHandler struct {
	transactions service.TransactionService
}

func NewTransactionHandler(transactions service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.TransactionFilter{
		Type:       domain.TransactionType(q.Get("type")),
		Status:     domain.TransactionStatus(q.Get("status")),
		UserID:     queryInt32(r, "user_id", 0),
		ResourceID: queryInt32(r, "resource_id", 0),
		From:       queryTime(r, "from"),
		To:         queryTime(r, "to"),
		SortBy:     q.Get("sort_by"),
		SortDesc:   queryBool(r, "sort_desc"),
		Page:       queryInt32(r, "page", 1),
		PageSize:   queryInt32(r, "page_size", 20),
	}
	items, total, err := h.transactions.List(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, listResponse{Items: items, Total: total, Page: filter.Page})
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	tx, err := h.transactions.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, tx)
}

func (h *TransactionHandler) MyCheckouts(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	txs, err := h.transactions.MyCheckouts(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, txs)
}

func (h *TransactionHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	txs, err := h.transactions.Overdue(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, txs)
}

func (h *TransactionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.transactions.Stats(r.Context(), queryTime(r, "from"), queryTime(r, "to"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, stats)
}

func (h *TransactionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	tx, err := h.transactions.Approve(r.Context(), UserFromContext(r.Context()), id, requestMeta(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, tx)
}

func (h *TransactionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondError(w, err)
		return
	}
	tx, err := h.transactions.Reject(r.Context(), UserFromContext(r.Context()), id, body.Reason, requestMeta(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, tx)
}

func (h *TransactionHandler) Return(w http.ResponseWriter, r *http.Request) {
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
	tx, err := h.transactions.Return(r.Context(), UserFromContext(r.Context()), id, body.Notes, requestMeta(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, tx)
}

func (h *TransactionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	tx, err := h.transactions.Cancel(r.Context(), UserFromContext(r.Context()), id, requestMeta(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, tx)
}
