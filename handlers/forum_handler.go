package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"tendrilAPI/internal/types/forum"
	"tendrilAPI/middleware"
	"tendrilAPI/services"
)

type ForumHandler struct {
	forumService *services.ForumService
	logger       *zap.Logger
}

func NewForumHandler(forumService *services.ForumService, logger *zap.Logger) *ForumHandler {
	return &ForumHandler{
		forumService: forumService,
		logger:       logger,
	}
}

func (h *ForumHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	posts, err := h.forumService.ListPosts(ctx, middleware.GetUserID(ctx))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Post not found")
		return
	}

	respondWithJSON(w, http.StatusOK, posts)
}

func (h *ForumHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	post, err := h.forumService.GetPost(ctx, mux.Vars(r)["postID"], middleware.GetUserID(ctx))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Post not found")
		return
	}

	respondWithJSON(w, http.StatusOK, post)
}

func (h *ForumHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req forum.CreatePostRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.forumService.CreatePost(ctx, middleware.GetUserID(ctx), &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Post not found")
		return
	}

	respondWithJSON(w, http.StatusCreated, post)
}

func (h *ForumHandler) ReactToPost(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	reaction, err := h.forumService.TogglePostReaction(ctx, mux.Vars(r)["postID"], middleware.GetUserID(ctx))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Post not found")
		return
	}

	respondWithJSON(w, http.StatusOK, reaction)
}

func (h *ForumHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	comments, err := h.forumService.ListComments(ctx, mux.Vars(r)["postID"], middleware.GetUserID(ctx))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Post not found")
		return
	}

	respondWithJSON(w, http.StatusOK, comments)
}

func (h *ForumHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req forum.CreateCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	comment, err := h.forumService.CreateComment(ctx, mux.Vars(r)["postID"], middleware.GetUserID(ctx), &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Post or parent comment not found")
		return
	}

	respondWithJSON(w, http.StatusCreated, comment)
}

func (h *ForumHandler) ReactToComment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	reaction, err := h.forumService.ToggleCommentReaction(ctx, mux.Vars(r)["commentID"], middleware.GetUserID(ctx))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Comment not found")
		return
	}

	respondWithJSON(w, http.StatusOK, reaction)
}
