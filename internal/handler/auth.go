package handler

import (
	"net/http"
	"time"

	"ceylon-tours-be/internal/auth"
	"ceylon-tours-be/internal/user"
	"ceylon-tours-be/internal/utils"
)

type AuthHandler struct {
	users    user.Service
	sessions *auth.Sessions
}

func NewAuthHandler(users user.Service, sessions *auth.Sessions) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeJSON(w, r, &in); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	a, err := h.users.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, expires, err := h.sessions.Issue(a.ID, a.Email, user.RoleAdmin)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.sessions.SetCookie(w, token, expires)

	utils.WriteJSON(w, http.StatusOK, sessionResponse{ID: a.ID, Email: a.Email, Role: user.RoleAdmin, ExpiresAt: expires})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, _ := utils.GetUserIDFromContext(r.Context())
	utils.WriteJSON(w, http.StatusOK, sessionResponse{
		ID:    id,
		Email: utils.GetUserEmailFromContext(r.Context()),
		Role:  utils.GetUserRoleFromContext(r.Context()),
	})
}
