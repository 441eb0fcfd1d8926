package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/snapsplit/snapsplit/internal/middleware"
	"github.com/snapsplit/snapsplit/internal/service"
)

// FriendHandler serves friend CRUD.
type FriendHandler struct {
	friends *service.FriendService
}

func NewFriendHandler(friends *service.FriendService) *FriendHandler {
	return &FriendHandler{friends: friends}
}

type addFriendRequest struct {
	Name string `json:"name"`
}

func (h *FriendHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addFriendRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	friend, err := h.friends.Add(r.Context(), middleware.GetUserID(r.Context()), req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, friend)
}

func (h *FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	friends, err := h.friends.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, friends)
}

func (h *FriendHandler) Remove(w http.ResponseWriter, r *http.Request) {
	err := h.friends.Remove(r.Context(), chi.URLParam(r, "id"), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
