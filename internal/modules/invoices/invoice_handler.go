package invoices

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/shipnix/shipnix-express/internal/models"
)

// Handler handles HTTP requests for invoices.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new invoice handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts admin invoice management and the authenticated pay route.
func (h *Handler) RegisterRoutes(admin *echo.Group, authed *echo.Group) {
	admin.POST("/invoices", h.Create)
	admin.GET("/invoices", h.List)
	admin.GET("/invoices/:id", h.Get)

	authed.POST("/invoices/:id/pay", h.Pay)
}

func (h *Handler) Create(c echo.Context) error {
	var req models.CreateInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	inv, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		c.Logger().Error("Handler.CreateInvoice: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to create invoice"})
	}
	return c.JSON(http.StatusCreated, inv)
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

	invs, total, err := h.svc.List(c.Request().Context(), page, limit)
	if err != nil {
		c.Logger().Error("Handler.ListInvoices: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to list invoices"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"invoices": invs, "total": total})
}

func (h *Handler) Get(c echo.Context) error {
	inv, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == models.ErrNotFound {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Invoice not found"})
		}
		c.Logger().Error("Handler.GetInvoice: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to retrieve invoice"})
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *Handler) Pay(c echo.Context) error {
	userID := c.Get("userID").(string)

	var req models.PayInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	inv, err := h.svc.Pay(c.Request().Context(), userID, c.Param("id"), req)
	if err != nil {
		if err == models.ErrNotFound {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Invoice not found"})
		}
		if err == models.ErrInvoiceNotPayable {
			return c.JSON(http.StatusConflict, models.ErrorResponse{Message: "Invoice cannot be paid"})
		}
		c.Logger().Error("Handler.PayInvoice: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to process payment"})
	}
	return c.JSON(http.StatusOK, inv)
}
