package handler

import (
	"context"
	"fmt"
	"net/http"

	"report_card_portal/internal/middleware"
	"report_card_portal/internal/service"
	"report_card_portal/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Services bundles the view services the pages call
type Services struct {
	Auth        service.AuthService
	Users       service.UserService
	ReportCards service.ReportCardService
	Dashboard   service.DashboardService
}

// RouterOptions wires the portal's dependencies into the gin engine
type RouterOptions struct {
	Logger   *zap.Logger
	Sessions *session.Manager
	Cookie   session.CookieOptions
	Services Services

	CSRFEnabled      bool
	EnableUserExport bool
	MaxUploadBytes   int64

	// Gatherer backs GET /metrics
	Gatherer prometheus.Gatherer
	// Health reports whether the session store is reachable; nil means always healthy
	Health func(ctx context.Context) error
}

// NewRouter builds the portal's gin engine
func NewRouter(opts RouterOptions) (*gin.Engine, error) {
	tmpl, err := LoadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(opts.Logger), gin.Recovery())
	router.SetHTMLTemplate(tmpl)
	router.MaxMultipartMemory = opts.MaxUploadBytes + uploadFormOverhead

	router.GET("/health", func(c *gin.Context) {
		if opts.Health != nil {
			if err := opts.Health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "sessions": "unhealthy"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": "healthy"})
	})
	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	pages := router.Group("/")
	pages.Use(session.Middleware(opts.Cookie), middleware.LimitBody(opts.MaxUploadBytes+uploadFormOverhead))
	if opts.CSRFEnabled {
		pages.Use(middleware.CSRFMiddleware([]byte(opts.Cookie.Secret), opts.Cookie.Secure))
	}

	page := pageHandler{sessions: opts.Sessions, logger: opts.Logger}
	svc := opts.Services

	authHandler := NewAuthHandler(svc.Auth, page)
	userHandler := NewUserHandler(svc.Users, page, opts.EnableUserExport)
	reportCardHandler := NewReportCardHandler(svc.ReportCards, svc.Users, page, opts.MaxUploadBytes)
	dashboardHandler := NewDashboardHandler(svc.Dashboard, svc.ReportCards, svc.Users, page)

	authMW := middleware.SessionAuthMiddleware(opts.Sessions, opts.Logger)

	authHandler.RegisterAuthRoutes(pages)

	admin := pages.Group(middleware.AdminHomePath, authMW, middleware.AdminMiddleware())
	dashboardHandler.RegisterAdminDashboardRoutes(admin)
	userHandler.RegisterUserRoutes(admin)
	reportCardHandler.RegisterReportCardRoutes(admin)

	user := pages.Group(middleware.UserHomePath, authMW, middleware.UserMiddleware())
	dashboardHandler.RegisterUserDashboardRoutes(user)

	return router, nil
}
