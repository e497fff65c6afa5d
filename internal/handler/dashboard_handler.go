package handler

import (
	"errors"
	"net/http"

	"report_card_portal/internal/apiclient"
	"report_card_portal/internal/middleware"
	"report_card_portal/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DashboardHandler serves the two landing pages
type DashboardHandler struct {
	pageHandler
	stats service.DashboardService
	cards service.ReportCardService
	users service.UserService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(stats service.DashboardService, cards service.ReportCardService, users service.UserService, page pageHandler) *DashboardHandler {
	return &DashboardHandler{pageHandler: page, stats: stats, cards: cards, users: users}
}

// Admin shows counts and the most recent records
func (h *DashboardHandler) Admin(c *gin.Context) {
	stats, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			h.signOut(c)
			return
		}
		h.logger.Error("failed to load dashboard", zap.Error(err))
		h.render(c, http.StatusBadGateway, "admin/dashboard", gin.H{
			"Title":     "Dashboard",
			"LoadError": apiclient.Message(err, "Could not load dashboard data"),
		})
		return
	}
	h.render(c, http.StatusOK, "admin/dashboard", gin.H{"Title": "Dashboard", "Stats": stats})
}

// User shows the signed in user's profile and report cards
func (h *DashboardHandler) User(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	data := gin.H{"Title": "My report cards"}

	cards, err := h.cards.ListForUser(c.Request.Context(), sess.User.ID)
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			h.signOut(c)
			return
		}
		h.logger.Error("failed to load own report cards", zap.Int("user_id", sess.User.ID), zap.Error(err))
		data["LoadError"] = apiclient.Message(err, "Could not load your report cards")
		h.render(c, http.StatusBadGateway, "dashboard", data)
		return
	}
	data["ReportCards"] = cards
	h.render(c, http.StatusOK, "dashboard", data)
}

// Download serves a report card only to the user who owns it
func (h *DashboardHandler) Download(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	sess, _ := middleware.CurrentSession(c)
	f, name, err := h.cards.OpenOwnFile(c.Request.Context(), id, sess.User.ID)
	if err != nil {
		h.fileFailed(c, err, middleware.UserHomePath)
		return
	}
	h.stream(c, f, "attachment", name)
}

func (h *DashboardHandler) ProfileImage(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	f, err := h.users.OpenProfileImage(c.Request.Context(), &sess.User)
	if err != nil {
		switch {
		case errors.Is(err, apiclient.ErrUnauthorized):
			h.signOut(c)
		case errors.Is(err, service.ErrNoProfileImage), errors.Is(err, apiclient.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			h.logger.Error("failed to load profile image", zap.Int("user_id", sess.User.ID), zap.Error(err))
			c.Status(http.StatusBadGateway)
		}
		return
	}
	h.stream(c, f, "inline", "profile-image")
}

// RegisterAdminDashboardRoutes registers GET /admin
func (h *DashboardHandler) RegisterAdminDashboardRoutes(admin *gin.RouterGroup) {
	admin.GET("", h.Admin)
}

// RegisterUserDashboardRoutes registers the personal dashboard pages
func (h *DashboardHandler) RegisterUserDashboardRoutes(user *gin.RouterGroup) {
	user.GET("", h.User)
	user.GET("/profile-image", h.ProfileImage)
	user.GET("/report-cards/:id/download", h.Download)
}
