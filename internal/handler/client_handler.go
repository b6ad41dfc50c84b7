package handler

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agencydesk/internal/model"
	"agencydesk/internal/repository"
)

type ClientHandler struct {
	clients *repository.ClientRepository
	logger  *zap.Logger
}

func NewClientHandler(clients *repository.ClientRepository, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{clients: clients, logger: logger}
}

// List handles GET /api/admin/clients
func (h *ClientHandler) List(c *gin.Context) {
	limit, offset := pagination(c)

	clients, total, err := h.clients.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list clients", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list clients"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"clients": clients, "total": total})
}

// Get handles GET /api/admin/clients/:id
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	client, err := h.clients.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to fetch client")
		return
	}

	c.JSON(http.StatusOK, client)
}

// Create handles POST /api/admin/clients
func (h *ClientHandler) Create(c *gin.Context) {
	var client model.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if strings.TrimSpace(client.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if _, err := mail.ParseAddress(client.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email address"})
		return
	}
	client.Email = strings.ToLower(strings.TrimSpace(client.Email))
	if client.Source == "" {
		client.Source = "manual"
	}

	if existing, err := h.clients.FindByEmail(c.Request.Context(), client.Email); err == nil && existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "client with this email already exists", "client_id": existing.ID})
		return
	}

	id, err := h.clients.Insert(c.Request.Context(), &client)
	if err != nil {
		h.logger.Error("Failed to create client", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create client"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"client_id": id})
}

// Update handles PUT /api/admin/clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var client model.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	client.ID = id

	if err := h.clients.Update(c.Request.Context(), &client); err != nil {
		respondError(c, err, "failed to update client")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
