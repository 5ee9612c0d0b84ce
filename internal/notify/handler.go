package notify

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/shipnix/shipnix-express/internal/models"
)

// Handler exposes the notification log to the admin portal.
type Handler struct {
	dispatcher *Dispatcher
}

func NewHandler(d *Dispatcher) *Handler {
	return &Handler{dispatcher: d}
}

func (h *Handler) List(c echo.Context) error {
	limit := 50
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 200 {
			limit = l
		}
	}
	notifications, err := h.dispatcher.ListRecent(c.Request().Context(), limit)
	if err != nil {
		c.Logger().Error("Handler.ListNotifications: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to list notifications"})
	}
	if notifications == nil {
		notifications = []*models.Notification{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"notifications": notifications})
}
