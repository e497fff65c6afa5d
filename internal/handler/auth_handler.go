package handler

import (
	"errors"
	"net/http"

	"report_card_portal/internal/apiclient"
	"report_card_portal/internal/middleware"
	"report_card_portal/internal/model"
	"report_card_portal/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles sign in and sign out
type AuthHandler struct {
	pageHandler
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, page pageHandler) *AuthHandler {
	return &AuthHandler{pageHandler: page, service: s}
}

// Home sends the caller to the home page of their role
func (h *AuthHandler) Home(c *gin.Context) {
	sess, err := h.sessions.Get(c)
	if err != nil {
		c.Redirect(http.StatusFound, middleware.LoginPath)
		return
	}
	c.Redirect(http.StatusFound, middleware.HomePath(sess.User.Role))
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	if sess, err := h.sessions.Get(c); err == nil {
		c.Redirect(http.StatusFound, middleware.HomePath(sess.User.Role))
		return
	}
	h.render(c, http.StatusOK, "login", gin.H{"Title": "Sign in", "Form": model.LoginRequest{}})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.render(c, http.StatusBadRequest, "login", gin.H{"Title": "Sign in", "Form": req, "FormErrors": []string{"Invalid request"}})
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		status, msg := http.StatusBadGateway, apiclient.Message(err, "Sign in failed, please try again")
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			h.render(c, http.StatusBadRequest, "login", gin.H{"Title": "Sign in", "Form": req, "FormErrors": verr.Messages})
			return
		case errors.Is(err, service.ErrInvalidCredentials):
			status, msg = http.StatusUnauthorized, apiclient.Message(err, service.ErrInvalidCredentials.Error())
		default:
			h.logger.Error("login failed", zap.Error(err))
		}
		h.render(c, status, "login", gin.H{"Title": "Sign in", "Form": req, "FormErrors": []string{msg}})
		return
	}

	if _, err := h.sessions.Set(c, resp.AccessToken, resp.User); err != nil {
		h.logger.Error("failed to start session", zap.Int("user_id", resp.User.ID), zap.Error(err))
		h.render(c, http.StatusInternalServerError, "login", gin.H{"Title": "Sign in", "Form": req, "FormErrors": []string{"Could not start your session, please try again"}})
		return
	}
	c.Redirect(http.StatusFound, middleware.HomePath(resp.User.Role))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Clear(c); err != nil {
		h.logger.Warn("failed to clear session", zap.Error(err))
	}
	c.Redirect(http.StatusFound, middleware.LoginPath)
}

// RegisterAuthRoutes registers the public routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.Home)
	rg.GET("/login", h.LoginPage)
	rg.POST("/login", h.Login)
	rg.POST("/logout", h.Logout)
}
