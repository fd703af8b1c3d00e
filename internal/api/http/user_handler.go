package http

import (
	"net/http"

	"inventrack-backend/internal/domain"
	"inventrack-backend/internal/repository"
	"inventrack-backend/internal/service"
)

type UserHandler struct {
	users service.UserService
}

func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.UserFilter{
		Search:   q.Get("search"),
		Role:     domain.Role(q.Get("role")),
		SortBy:   q.Get("sort_by"),
		SortDesc: queryBool(r, "sort_desc"),
		Page:     queryInt32(r, "page", 1),
		PageSize: queryInt32(r, "page_size", 20),
	}
	if q.Has("is_active") {
		active := queryBool(r, "is_active")
		filter.IsActive = &active
	}
	items, total, err := h.users.List(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, listResponse{Items: items, Total: total, Page: filter.Page})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var input service.UpdateUserInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, err)
		return
	}
	user, err := h.users.Update(r.Context(), UserFromContext(r.Context()), id, input)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, user)
}

func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.users.Deactivate(r.Context(), UserFromContext(r.Context()), id); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "account deactivated")
}
