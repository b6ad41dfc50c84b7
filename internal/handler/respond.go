package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"agencydesk/internal/model"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pagination reads ?page and ?limit, returning SQL limit/offset.
func pagination(c *gin.Context) (limit, offset int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return limit, (page - 1) * limit
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// milestonePosition reads the :position segment. Zero is a valid position.
func milestonePosition(c *gin.Context) (int, bool) {
	pos, err := strconv.Atoi(c.Param("position"))
	if err != nil || pos < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid position"})
		return 0, false
	}
	return pos, true
}

// respondError maps domain errors to HTTP statuses.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, model.ErrAlreadyCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": "milestone already completed"})
	case errors.Is(err, model.ErrInvalidStatus):
		c.JSON(http.StatusConflict, gin.H{"error": "invalid status transition"})
	case errors.Is(err, model.ErrMissingRecipient):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "client has no email address"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
