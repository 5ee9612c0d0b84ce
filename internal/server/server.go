package server

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shipnix/shipnix-express/internal/config"
	"github.com/shipnix/shipnix-express/internal/metrics"
	appmw "github.com/shipnix/shipnix-express/internal/middleware"
	"github.com/shipnix/shipnix-express/internal/modules/invoices"
	"github.com/shipnix/shipnix-express/internal/modules/packages"
	"github.com/shipnix/shipnix-express/internal/modules/quotes"
	"github.com/shipnix/shipnix-express/internal/modules/support"
	"github.com/shipnix/shipnix-express/internal/modules/users"
	"github.com/shipnix/shipnix-express/internal/notify"
	"github.com/shipnix/shipnix-express/internal/realtime"
	"github.com/shipnix/shipnix-express/pkg/payment"
)

// Server wraps the echo instance and everything wired into it.
type Server struct {
	e   *echo.Echo
	hub *realtime.Hub
}

// New builds the HTTP server with all routes registered.
func New(cfg *config.Config, db *pgxpool.Pool, emailSender, smsSender notify.Sender) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.ClientOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	e.Use(metrics.Middleware())

	hub := realtime.NewHub()

	notifyRepo := notify.NewRepository(db)
	dispatcher := notify.NewDispatcher(notifyRepo, emailSender, smsSender)
	notifyHandler := notify.NewHandler(dispatcher)

	packageRepo := packages.NewRepository(db)
	packageSvc := packages.NewService(packageRepo, dispatcher, hub, cfg.TrackingPrefix, cfg.PublicBaseURL)
	packageHandler := packages.NewHandler(packageSvc)

	userRepo := users.NewRepository(db)
	userSvc := users.NewService(userRepo, cfg.JWTSecret, cfg.AdminEmail)
	userHandler := users.NewHandler(userSvc)

	quoteRepo := quotes.NewRepository(db)
	quoteSvc := quotes.NewService(quoteRepo)
	quoteHandler := quotes.NewHandler(quoteSvc)

	paymentSvc := payment.NewStripeService(cfg.StripeAPIKey)
	invoiceRepo := invoices.NewRepository(db)
	invoiceSvc := invoices.NewService(invoiceRepo, paymentSvc, packageSvc)
	invoiceHandler := invoices.NewHandler(invoiceSvc)

	supportRepo := support.NewRepository(db)
	supportSvc := support.NewService(supportRepo, hub)
	supportHandler := support.NewHandler(supportSvc)

	wsHandler := realtime.NewHandler(hub)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/ws", wsHandler.Serve)

	// Admin endpoints share the /api prefix; the guard is role-based, not
	// path-based.
	public := e.Group("/api/public")
	authed := e.Group("/api", appmw.JWT(cfg.JWTSecret))
	admin := authed.Group("", appmw.RequireAdmin)

	userHandler.RegisterRoutes(e.Group("/api"), authed)
	packageHandler.RegisterRoutes(admin, public)
	quoteHandler.RegisterRoutes(admin, public)
	invoiceHandler.RegisterRoutes(admin, authed)
	supportHandler.RegisterRoutes(admin, authed, public)
	admin.GET("/notifications", notifyHandler.List)

	return &Server{e: e, hub: hub}
}

// Start begins serving on the given address.
func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
