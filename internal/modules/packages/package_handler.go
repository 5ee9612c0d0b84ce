package packages

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/shipnix/shipnix-express/internal/models"
)

// Handler handles HTTP requests for packages.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate // For request body validation
}

// NewHandler creates a new package handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the admin package routes and the public tracking route.
func (h *Handler) RegisterRoutes(admin *echo.Group, public *echo.Group) {
	admin.POST("/packages", h.Create)
	admin.GET("/packages", h.List)
	admin.GET("/packages/:id", h.Get)
	admin.PATCH("/packages/:id", h.Update)
	admin.PATCH("/packages/:id/status", h.UpdateStatus)

	public.GET("/track/:trackingId", h.PublicTrack)
}

func (h *Handler) Create(c echo.Context) error {
	userID := c.Get("userID").(string)

	var req models.CreatePackageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	pkg, trackingURL, err := h.svc.Create(c.Request().Context(), userID, req)
	if err != nil {
		c.Logger().Error("Handler.CreatePackage: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to create package"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"package":      pkg,
		"tracking_url": trackingURL,
	})
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

	pkgs, total, err := h.svc.List(c.Request().Context(), page, limit)
	if err != nil {
		c.Logger().Error("Handler.ListPackages: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to list packages"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"packages": pkgs, "total": total})
}

func (h *Handler) Get(c echo.Context) error {
	pkg, events, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == models.ErrNotFound {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Package not found"})
		}
		c.Logger().Error("Handler.GetPackage: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to retrieve package"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"package": pkg, "events": events})
}

func (h *Handler) Update(c echo.Context) error {
	var req models.UpdatePackageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	pkg, err := h.svc.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		if err == models.ErrNotFound {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Package not found"})
		}
		c.Logger().Error("Handler.UpdatePackage: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to update package"})
	}
	return c.JSON(http.StatusOK, pkg)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	var req models.StatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	pkg, err := h.svc.UpdateStatus(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		if err == models.ErrNotFound {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Package not found"})
		}
		if err == models.ErrInvalidStatus {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid package status"})
		}
		c.Logger().Error("Handler.UpdateStatus: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to update package status"})
	}
	return c.JSON(http.StatusOK, pkg)
}

// PublicTrack serves the unauthenticated tracking lookup.
func (h *Handler) PublicTrack(c echo.Context) error {
	view, err := h.svc.Track(c.Request().Context(), c.Param("trackingId"))
	if err != nil {
		if err == models.ErrNotFound {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Tracking number not found"})
		}
		c.Logger().Error("Handler.PublicTrack: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to look up tracking number"})
	}
	return c.JSON(http.StatusOK, view)
}
