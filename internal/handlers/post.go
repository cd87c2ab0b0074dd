package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/linkwave/apiserver/internal/services"
)

// PostHandler provides HTTP handlers for posts, likes and comments.
type PostHandler struct {
	postService *services.PostService
}

// NewPostHandler constructs a handler with the provided service.
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// PostRouter registers post routes on the given router. Every route
// requires an authenticated viewer; the viewer identity drives the
// liked_by_user projection on reads.
func PostRouter(r chi.Router, postService *services.PostService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewPostHandler(postService)

	r.Use(authMiddleware)
	r.Get("/", handler.ListPosts)
	r.Post("/", handler.CreatePost)
	r.Route("/{postID}", func(r chi.Router) {
		r.Get("/", handler.GetPost)
		r.Delete("/", handler.DeletePost)
		r.Post("/like", handler.LikePost)
		r.Delete("/like", handler.UnlikePost)
		r.Post("/comments", handler.CreateComment)
	})
}

func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	viewerID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	posts, err := h.postService.List(r.Context(), viewerID)
	if err != nil {
		writeServiceError(w, err, "post not found", "failed to list posts")
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	viewerID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	post, err := h.postService.Create(r.Context(), viewerID, req.Content)
	if err != nil {
		writeServiceError(w, err, "post not found", "failed to create post")
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	viewerID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parsePostID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.postService.Get(r.Context(), id, viewerID)
	if err != nil {
		writeServiceError(w, err, "post not found", "failed to fetch post")
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	viewerID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parsePostID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.postService.Delete(r.Context(), id, viewerID); err != nil {
		writeServiceError(w, err, "post not found", "failed to delete post")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PostHandler) LikePost(w http.ResponseWriter, r *http.Request) {
	viewerID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parsePostID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.postService.Like(r.Context(), viewerID, id); err != nil {
		writeServiceError(w, err, "post not found", "failed to like post")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PostHandler) UnlikePost(w http.ResponseWriter, r *http.Request) {
	viewerID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parsePostID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.postService.Unlike(r.Context(), viewerID, id); err != nil {
		writeServiceError(w, err, "post not found", "failed to unlike post")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PostHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	viewerID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parsePostID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	comment, err := h.postService.AddComment(r.Context(), id, viewerID, req.Content)
	if err != nil {
		writeServiceError(w, err, "post not found", "failed to create comment")
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

type CreatePostRequest struct {
	Content string `json:"content"`
}

type CreateCommentRequest struct {
	Content string `json:"content"`
}

func parsePostID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "postID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid post id")
	}
	return id, nil
}
