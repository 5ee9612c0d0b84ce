package support

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/shipnix/shipnix-express/internal/models"
)

// Handler handles HTTP requests for support tickets.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new support handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// RegisterRoutes registers support routes on the given groups.
func (h *Handler) RegisterRoutes(admin, authed, public *echo.Group) {
	public.POST("/support", h.OpenTicket)
	admin.GET("/support", h.ListTickets)
	authed.GET("/support/:id", h.GetTicket)
	authed.POST("/support/:id/messages", h.PostMessage)
}

func (h *Handler) OpenTicket(c echo.Context) error {
	var req models.CreateTicketRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
	}

	ticket, err := h.svc.OpenTicket(c.Request().Context(), req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to open ticket"})
	}
	return c.JSON(http.StatusCreated, ticket)
}

func (h *Handler) ListTickets(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	tickets, total, err := h.svc.ListTickets(c.Request().Context(), page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to list tickets"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"tickets": tickets, "total": total})
}

func (h *Handler) GetTicket(c echo.Context) error {
	ticket, msgs, err := h.svc.GetTicket(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to fetch ticket"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"ticket": ticket, "messages": msgs})
}

func (h *Handler) PostMessage(c echo.Context) error {
	var req models.PostMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
	}

	sender, _ := c.Get("userID").(string)
	if sender == "" {
		sender = "support"
	}
	msg, err := h.svc.PostMessage(c.Request().Context(), c.Param("id"), sender, req)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to post message"})
	}
	return c.JSON(http.StatusCreated, msg)
}
