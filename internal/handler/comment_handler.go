package handler

import (
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agencydesk/internal/model"
	"agencydesk/internal/repository"
)

type CommentHandler struct {
	comments *repository.CommentRepository
	logger   *zap.Logger
}

func NewCommentHandler(comments *repository.CommentRepository, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, logger: logger}
}

// ListPublic handles GET /api/comments?post_id=N, returning approved comments
// only.
func (h *CommentHandler) ListPublic(c *gin.Context) {
	h.list(c, true)
}

// ListAdmin handles GET /api/admin/comments?post_id=N and includes comments
// awaiting moderation.
func (h *CommentHandler) ListAdmin(c *gin.Context) {
	h.list(c, false)
}

func (h *CommentHandler) list(c *gin.Context, approvedOnly bool) {
	postID, err := strconv.Atoi(c.Query("post_id"))
	if err != nil || postID < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post_id required"})
		return
	}

	comments, err := h.comments.FindByPostID(c.Request.Context(), postID, approvedOnly)
	if err != nil {
		h.logger.Error("Failed to list comments", zap.Int("post_id", postID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// Create handles POST /api/comments. New comments await moderation and stay
// invisible until approved.
func (h *CommentHandler) Create(c *gin.Context) {
	var req struct {
		PostID int    `json:"post_id"`
		Author string `json:"author"`
		Email  string `json:"email"`
		Body   string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.PostID < 1 || strings.TrimSpace(req.Author) == "" || strings.TrimSpace(req.Body) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post_id, author and body are required"})
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email address"})
		return
	}

	id, err := h.comments.Insert(c.Request.Context(), &model.Comment{
		PostID: req.PostID,
		Author: req.Author,
		Email:  strings.ToLower(strings.TrimSpace(req.Email)),
		Body:   req.Body,
	})
	if err != nil {
		h.logger.Error("Failed to create comment", zap.Int("post_id", req.PostID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create comment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment_id": id})
}

// Approve handles POST /api/admin/comments/:id/approve
func (h *CommentHandler) Approve(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.comments.Approve(c.Request.Context(), id); err != nil {
		respondError(c, err, "failed to approve comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Delete handles DELETE /api/admin/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.comments.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "failed to delete comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
