package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agencydesk/internal/model"
	"agencydesk/internal/repository"
)

type SkillHandler struct {
	skills *repository.SkillRepository
	logger *zap.Logger
}

func NewSkillHandler(skills *repository.SkillRepository, logger *zap.Logger) *SkillHandler {
	return &SkillHandler{skills: skills, logger: logger}
}

// List handles GET /api/skills
func (h *SkillHandler) List(c *gin.Context) {
	skills, err := h.skills.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.logger.Error("Failed to list skills", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list skills"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"skills": skills})
}

// Create handles POST /api/admin/skills
func (h *SkillHandler) Create(c *gin.Context) {
	var s model.Skill
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if strings.TrimSpace(s.Name) == "" || s.Level < 1 || s.Level > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and level 1-5 are required"})
		return
	}

	id, err := h.skills.Insert(c.Request.Context(), &s)
	if err != nil {
		h.logger.Error("Failed to create skill", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create skill"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"skill_id": id})
}

// Update handles PUT /api/admin/skills/:id
func (h *SkillHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var s model.Skill
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	s.ID = id

	if err := h.skills.Update(c.Request.Context(), &s); err != nil {
		respondError(c, err, "failed to update skill")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Delete handles DELETE /api/admin/skills/:id
func (h *SkillHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.skills.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "failed to delete skill")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
