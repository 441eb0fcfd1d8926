package handlers

import (
	"net/http"
	"strings"

	"github.com/snapsplit/snapsplit/internal/auth"
	"github.com/snapsplit/snapsplit/internal/models"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
}

func NewAuthHandler(authenticator auth.Authenticator, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{authenticator: authenticator, jwtManager: jwtManager}
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

type userView struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
}

func toUserView(u *models.User) userView {
	return userView{ID: u.ID, Email: u.Email, Name: u.DisplayName, CreatedAt: u.CreatedAt}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Name == "" {
		respondError(w, http.StatusBadRequest, "email and name are required")
		return
	}
	if err := h.authenticator.ValidateCredential(req.Password); err != nil {
		respondServiceError(w, err)
		return
	}

	user, err := h.authenticator.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{Token: token, User: toUserView(user)})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := h.authenticator.Authenticate(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, authResponse{Token: token, User: toUserView(user)})
}
