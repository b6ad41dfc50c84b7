package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agencydesk/internal/model"
	"agencydesk/internal/repository"
	"agencydesk/internal/service/milestone"
)

type ProjectHandler struct {
	projects         *repository.ProjectRepository
	milestones       *repository.MilestoneRepository
	milestoneService *milestone.Service
	logger           *zap.Logger
}

func NewProjectHandler(
	projects *repository.ProjectRepository,
	milestones *repository.MilestoneRepository,
	milestoneService *milestone.Service,
	logger *zap.Logger,
) *ProjectHandler {
	return &ProjectHandler{
		projects:         projects,
		milestones:       milestones,
		milestoneService: milestoneService,
		logger:           logger,
	}
}

// List handles GET /api/admin/projects
func (h *ProjectHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	filter := repository.ProjectFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Limit:  limit,
		Offset: offset,
	}

	projects, total, err := h.projects.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list projects", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list projects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects, "total": total})
}

// Get handles GET /api/admin/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	p, err := h.projects.FindWithMilestones(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to fetch project")
		return
	}

	c.JSON(http.StatusOK, p)
}

// Create handles POST /api/admin/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var p model.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if p.ClientID < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client_id is required"})
		return
	}
	if strings.TrimSpace(p.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	if p.Status == "" {
		p.Status = model.StatusNewInquiry
	}
	if p.PaymentModel == "" {
		p.PaymentModel = model.PaymentModelMilestone
	}

	milestones := model.DefaultMilestones()
	p.Progress = model.ComputeProgress(milestones)

	id, err := h.projects.Create(c.Request.Context(), &p, milestones)
	if err != nil {
		h.logger.Error("Failed to create project", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project_id": id})
}

// Update handles PUT /api/admin/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var p model.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	p.ID = id

	if err := h.projects.Update(c.Request.Context(), &p); err != nil {
		respondError(c, err, "failed to update project")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Delete handles DELETE /api/admin/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.projects.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "failed to delete project")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// MarkRead handles POST /api/admin/projects/:id/read
func (h *ProjectHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.projects.ClearUnread(c.Request.Context(), id); err != nil {
		respondError(c, err, "failed to mark project read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CompleteMilestone handles POST /api/admin/projects/:id/milestones/:position/complete
func (h *ProjectHandler) CompleteMilestone(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	position, ok := milestonePosition(c)
	if !ok {
		return
	}

	quoteID, err := h.milestoneService.Complete(c.Request.Context(), id, position)
	if err != nil {
		respondError(c, err, "failed to complete milestone")
		return
	}

	c.JSON(http.StatusOK, gin.H{"quote_id": quoteID})
}

// ReopenMilestone handles POST /api/admin/projects/:id/milestones/:position/reopen
func (h *ProjectHandler) ReopenMilestone(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	position, ok := milestonePosition(c)
	if !ok {
		return
	}

	if err := h.milestones.Reopen(c.Request.Context(), id, position); err != nil {
		respondError(c, err, "failed to reopen milestone")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// UpdateMilestone handles PUT /api/admin/projects/:id/milestones/:position
func (h *ProjectHandler) UpdateMilestone(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	position, ok := milestonePosition(c)
	if !ok {
		return
	}

	var req struct {
		Label string   `json:"label"`
		Price *float64 `json:"price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Label == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.milestones.UpdateLabelPrice(c.Request.Context(), id, position, req.Label, req.Price); err != nil {
		respondError(c, err, "failed to update milestone")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
