package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/linkwave/apiserver/internal/services"
)

// UserHandler provides HTTP handlers for profiles and the follow graph.
type UserHandler struct {
	userService   *services.UserService
	followService *services.FollowService
}

// NewUserHandler constructs a handler with the provided services.
func NewUserHandler(userService *services.UserService, followService *services.FollowService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		followService: followService,
	}
}

// UserRouter registers profile and follow routes on the given router.
// Every route requires an authenticated viewer.
func UserRouter(r chi.Router, userService *services.UserService, followService *services.FollowService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewUserHandler(userService, followService)

	r.Use(authMiddleware)
	r.Route("/{userID}", func(r chi.Router) {
		r.Get("/", handler.GetUser)
		r.Put("/", handler.UpdateUser)
		r.Post("/follow", handler.FollowUser)
		r.Delete("/follow", handler.UnfollowUser)
	})
}

// GetUser returns a profile annotated with whether the viewer follows it.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	viewerID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), id, viewerID)
	if err != nil {
		writeServiceError(w, err, "user not found", "failed to fetch user")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// UpdateUser applies a partial profile update. Fields absent from the
// request body keep their stored value.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	viewerID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), id, viewerID, services.ProfileUpdate{
		Email:       req.Email,
		Name:        req.Name,
		DateOfBirth: req.DateOfBirth,
		Bio:         req.Bio,
		Location:    req.Location,
	})
	if err != nil {
		writeServiceError(w, err, "user not found", "failed to update user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) FollowUser(w http.ResponseWriter, r *http.Request) {
	viewerID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.followService.Follow(r.Context(), viewerID, id); err != nil {
		writeServiceError(w, err, "user not found", "failed to follow user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) UnfollowUser(w http.ResponseWriter, r *http.Request) {
	viewerID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.followService.Unfollow(r.Context(), viewerID, id); err != nil {
		writeServiceError(w, err, "user not found", "failed to unfollow user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateUserRequest carries the partial update payload. Pointer fields
// distinguish "omitted" from "explicitly set to empty".
type UpdateUserRequest struct {
	Email       *string    `json:"email"`
	Name        *string    `json:"name"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Bio         *string    `json:"bio"`
	Location    *string    `json:"location"`
}

func parseUserID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "userID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid user id")
	}
	return id, nil
}
