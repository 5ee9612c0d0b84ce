package quotes

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/shipnix/shipnix-express/internal/models"
)

// Handler handles HTTP requests for shipping quotes.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new quote handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the public quote-request route and admin management routes.
func (h *Handler) RegisterRoutes(admin *echo.Group, public *echo.Group) {
	public.POST("/quotes", h.Create)

	admin.GET("/quotes", h.List)
	admin.PATCH("/quotes/:id", h.Update)
}

func (h *Handler) Create(c echo.Context) error {
	var req models.QuoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	quote, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		c.Logger().Error("Handler.CreateQuote: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to submit quote request"})
	}
	return c.JSON(http.StatusCreated, quote)
}

func (h *Handler) List(c echo.Context) error {
	page := 1
	limit := 20
	if pageStr := c.QueryParam("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	quotes, total, err := h.svc.List(c.Request().Context(), page, limit)
	if err != nil {
		c.Logger().Error("Handler.ListQuotes: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to list quotes"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"quotes": quotes, "total": total})
}

func (h *Handler) Update(c echo.Context) error {
	var req models.QuoteUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	quote, err := h.svc.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		if err == models.ErrNotFound {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Quote not found"})
		}
		c.Logger().Error("Handler.UpdateQuote: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to update quote"})
	}
	return c.JSON(http.StatusOK, quote)
}
