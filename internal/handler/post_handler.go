package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agencydesk/internal/model"
	"agencydesk/internal/repository"
)

type PostHandler struct {
	posts  *repository.PostRepository
	logger *zap.Logger
}

func NewPostHandler(posts *repository.PostRepository, logger *zap.Logger) *PostHandler {
	return &PostHandler{posts: posts, logger: logger}
}

// ListPublic handles GET /api/posts and only returns published posts.
func (h *PostHandler) ListPublic(c *gin.Context) {
	h.list(c, true)
}

// ListAdmin handles GET /api/admin/posts and includes drafts.
func (h *PostHandler) ListAdmin(c *gin.Context) {
	h.list(c, false)
}

func (h *PostHandler) list(c *gin.Context, publishedOnly bool) {
	limit, offset := pagination(c)
	filter := repository.PostFilter{
		Category:      c.Query("category"),
		Search:        c.Query("search"),
		PublishedOnly: publishedOnly,
		Limit:         limit,
		Offset:        offset,
	}

	posts, total, err := h.posts.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list posts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts, "total": total})
}

// Get handles GET /api/posts/:slug
func (h *PostHandler) Get(c *gin.Context) {
	slug := c.Param("slug")

	p, err := h.posts.FindBySlug(c.Request.Context(), slug)
	if err != nil {
		respondError(c, err, "failed to fetch post")
		return
	}

	c.JSON(http.StatusOK, p)
}

// Create handles POST /api/admin/posts
func (h *PostHandler) Create(c *gin.Context) {
	var p model.Post
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if strings.TrimSpace(p.Slug) == "" || strings.TrimSpace(p.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug and title are required"})
		return
	}

	id, err := h.posts.Insert(c.Request.Context(), &p)
	if err != nil {
		h.logger.Error("Failed to create post", zap.String("slug", p.Slug), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post_id": id})
}

// Update handles PUT /api/admin/posts/:slug
func (h *PostHandler) Update(c *gin.Context) {
	slug := c.Param("slug")

	var p model.Post
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	p.Slug = slug

	if err := h.posts.Update(c.Request.Context(), &p); err != nil {
		respondError(c, err, "failed to update post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Delete handles DELETE /api/admin/posts/:slug
func (h *PostHandler) Delete(c *gin.Context) {
	slug := c.Param("slug")

	if err := h.posts.Delete(c.Request.Context(), slug); err != nil {
		respondError(c, err, "failed to delete post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
