package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/kondate-app/menu-helper/internal/errors"
	"github.com/kondate-app/menu-helper/internal/interfaces"
	"github.com/kondate-app/menu-helper/internal/logger"
	"github.com/kondate-app/menu-helper/internal/services"
)

// Handler wires the HTTP routes to the service layer.
type Handler struct {
	menu    interfaces.MenuServiceInterface
	users   interfaces.UserServiceInterface
	history interfaces.HistoryServiceInterface
}

func NewHandler(menu interfaces.MenuServiceInterface, users interfaces.UserServiceInterface, history interfaces.HistoryServiceInterface) *Handler {
	return &Handler{menu: menu, users: users, history: history}
}

type suggestRequest struct {
	Input services.RawMenuInput `json:"input"`
	Date  string                `json:"date"`
}

func (h *Handler) SuggestMenu(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	plan, err := h.menu.Suggest(c.Request.Context(), ownerID(c), req.Input, req.Date)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *Handler) SaveHistory(c *gin.Context) {
	var entry services.HistoryEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	id, err := h.history.Save(c.Request.Context(), ownerID(c), entry)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req struct {
		Profile json.RawMessage `json:"profile"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.users.UpdateProfile(c.Request.Context(), ownerID(c), req.Profile); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.users.GetProfile(c.Request.Context(), ownerID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if len(profile) == 0 {
		c.JSON(http.StatusOK, gin.H{"profile": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// writeError maps the error taxonomy onto HTTP statuses. Caller-fixable
// failures surface their message; upstream and internal failures are logged
// with the original cause and surfaced as a generic internal error so no
// upstream detail leaks.
func (h *Handler) writeError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		logger.Error("unhandled error", "request_id", c.GetString("request_id"), "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": appErr.Message})
	case apperrors.ErrorTypePermission:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
	case apperrors.ErrorTypeRateLimit:
		c.JSON(http.StatusTooManyRequests, gin.H{"error": appErr.Message})
	default:
		fields := append(appErr.LogFields(), "request_id", c.GetString("request_id"))
		logger.Error("pipeline failure", fields...)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
