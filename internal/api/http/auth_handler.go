package http

import (
	"net/http"

	"inventrack-backend/internal/service"
)

type AuthHandler struct {
	auth service.AuthService
}

func NewAuthHandler(auth service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type authResponse struct {
	User  any    `json:"user"`
	Token string `json:"token"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, err)
		return
	}
	user, token, err := h.auth.Register(r.Context(), input, requestMeta(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, authResponse{User: user, Token: token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondError(w, err)
		return
	}
	login := body.Username
	if login == "" {
		login = body.Email
	}
	user, token, err := h.auth.Login(r.Context(), login, body.Password, requestMeta(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, authResponse{User: user, Token: token})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if err := h.auth.Logout(r.Context(), user.ID, requestMeta(r)); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "logged out")
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	me, err := h.auth.Me(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, me)
}

func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	var input service.UpdateProfileInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, err)
		return
	}
	updated, err := h.auth.UpdateMe(r.Context(), user.ID, input)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, updated)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	var body struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondError(w, err)
		return
	}
	if err := h.auth.ChangePassword(r.Context(), user.ID, body.CurrentPassword, body.NewPassword); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "password changed")
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondError(w, err)
		return
	}
	if err := h.auth.ForgotPassword(r.Context(), body.Email); err != nil {
		respondError(w, err)
		return
	}
	// Same response whether or not the address has an account.
	respondMessage(w, http.StatusOK, "if the address is registered, a reset email is on its way")
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondError(w, err)
		return
	}
	if err := h.auth.ResetPassword(r.Context(), body.Token, body.NewPassword); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "password reset")
}
