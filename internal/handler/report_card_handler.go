package handler

import (
	"errors"
	"fmt"
	"net/http"

	"report_card_portal/internal/apiclient"
	"report_card_portal/internal/middleware"
	"report_card_portal/internal/model"
	"report_card_portal/internal/service"
	"report_card_portal/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// reportCardForm holds the text fields of the report card forms
type reportCardForm struct {
	UserID      int    `form:"userId"`
	Title       string `form:"title"`
	Description string `form:"description"`
}

// ReportCardHandler serves the admin report card pages
type ReportCardHandler struct {
	pageHandler
	service        service.ReportCardService
	users          service.UserService
	maxUploadBytes int64
}

// NewReportCardHandler creates a new ReportCardHandler
func NewReportCardHandler(s service.ReportCardService, users service.UserService, page pageHandler, maxUploadBytes int64) *ReportCardHandler {
	return &ReportCardHandler{pageHandler: page, service: s, users: users, maxUploadBytes: maxUploadBytes}
}

func (h *ReportCardHandler) List(c *gin.Context) {
	search := c.Query("q")
	data := gin.H{"Title": "Report cards", "Search": search}

	cards, err := h.service.List(c.Request.Context(), search)
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			h.signOut(c)
			return
		}
		h.logger.Error("failed to list report cards", zap.Error(err))
		data["LoadError"] = apiclient.Message(err, "Could not load report cards")
		h.render(c, http.StatusBadGateway, "report-cards/list", data)
		return
	}
	data["ReportCards"] = cards
	h.render(c, http.StatusOK, "report-cards/list", data)
}

func (h *ReportCardHandler) New(c *gin.Context) {
	users, err := h.users.List(c.Request.Context(), "")
	if err != nil {
		h.fail(c, err, "Could not load users", "/admin/report-cards")
		return
	}
	h.renderNew(c, http.StatusOK, reportCardForm{}, users, nil)
}

func (h *ReportCardHandler) renderNew(c *gin.Context, status int, form reportCardForm, users []model.User, msgs []string) {
	h.render(c, status, "report-cards/new", gin.H{
		"Title":       "Upload report card",
		"Form":        form,
		"Users":       users,
		"MaxUploadMB": h.maxUploadBytes / (1024 * 1024),
		"FormErrors":  msgs,
	})
}

// Create uploads a report card on behalf of the signed in admin
func (h *ReportCardHandler) Create(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)

	var form reportCardForm
	if err := c.ShouldBind(&form); err != nil {
		msgs := formErrors(oversized(err))
		if msgs == nil {
			msgs = []string{"Invalid request"}
		}
		h.reshowNew(c, http.StatusBadRequest, form, msgs)
		return
	}

	upload, done, err := formUpload(c, "file")
	defer done()
	if err != nil {
		msgs := formErrors(err)
		if msgs == nil {
			msgs = []string{"Invalid request"}
		}
		h.reshowNew(c, http.StatusBadRequest, form, msgs)
		return
	}

	_, err = h.service.Create(c.Request.Context(), model.CreateReportCardRequest{
		UserID:      form.UserID,
		Title:       form.Title,
		Description: form.Description,
		UploadedBy:  sess.User.ID,
		File:        upload,
	})
	if err != nil {
		status, msgs, ok := h.formFailed(c, err, "Could not upload report card")
		if !ok {
			return
		}
		h.reshowNew(c, status, form, msgs)
		return
	}

	h.sessions.AddFlash(c, session.FlashSuccess, fmt.Sprintf("Report card %q uploaded", form.Title))
	c.Redirect(http.StatusFound, "/admin/report-cards")
}

// reshowNew renders the upload form again after a failed submit
func (h *ReportCardHandler) reshowNew(c *gin.Context, status int, form reportCardForm, msgs []string) {
	users, err := h.users.List(c.Request.Context(), "")
	if err != nil {
		h.logger.Warn("failed to reload users for report card form", zap.Error(err))
	}
	h.renderNew(c, status, form, users, msgs)
}

func (h *ReportCardHandler) Edit(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	card, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.loadFailed(c, err, "Report card", "/admin/report-cards")
		return
	}
	form := reportCardForm{UserID: card.UserID, Title: card.Title, Description: card.DescriptionText()}
	h.render(c, http.StatusOK, "report-cards/edit", gin.H{"Title": "Edit report card", "ReportCardID": id, "Form": form})
}

func (h *ReportCardHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var form reportCardForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "report-cards/edit", gin.H{"Title": "Edit report card", "ReportCardID": id, "Form": form, "FormErrors": []string{"Invalid request"}})
		return
	}

	_, err := h.service.Update(c.Request.Context(), id, model.UpdateReportCardRequest{
		Title:       &form.Title,
		Description: &form.Description,
	})
	if err != nil {
		status, msgs, ok := h.formFailed(c, err, "Could not update report card")
		if !ok {
			return
		}
		h.render(c, status, "report-cards/edit", gin.H{"Title": "Edit report card", "ReportCardID": id, "Form": form, "FormErrors": msgs})
		return
	}

	h.sessions.AddFlash(c, session.FlashSuccess, "Report card updated")
	c.Redirect(http.StatusFound, "/admin/report-cards")
}

// Preview streams the file inline so the browser can display it
func (h *ReportCardHandler) Preview(c *gin.Context) {
	h.serveFile(c, "inline")
}

func (h *ReportCardHandler) Download(c *gin.Context) {
	h.serveFile(c, "attachment")
}

func (h *ReportCardHandler) serveFile(c *gin.Context, disposition string) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	f, name, err := h.service.OpenFile(c.Request.Context(), id)
	if err != nil {
		h.fileFailed(c, err, "/admin/report-cards")
		return
	}
	h.stream(c, f, disposition, name)
}

// fileFailed reacts to a report card file that could not be opened
func (h pageHandler) fileFailed(c *gin.Context, err error, back string) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		h.renderError(c, http.StatusForbidden, "Access denied", "This report card does not belong to you.")
	case errors.Is(err, apiclient.ErrInvalidFilePath):
		h.renderError(c, http.StatusNotFound, "File not found", "The stored file path is invalid.")
	default:
		h.loadFailed(c, err, "Report card", back)
	}
}

func (h *ReportCardHandler) ConfirmDelete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	card, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.loadFailed(c, err, "Report card", "/admin/report-cards")
		return
	}
	h.render(c, http.StatusOK, "confirm-delete", gin.H{
		"Title":  "Delete report card",
		"Kind":   "report card",
		"Name":   card.Title,
		"Action": fmt.Sprintf("/admin/report-cards/%d/delete", id),
		"Cancel": "/admin/report-cards",
	})
}

func (h *ReportCardHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Could not delete report card", "/admin/report-cards")
		return
	}
	h.sessions.AddFlash(c, session.FlashSuccess, "Report card deleted")
	c.Redirect(http.StatusFound, "/admin/report-cards")
}

// RegisterReportCardRoutes registers the report card pages on the admin group
func (h *ReportCardHandler) RegisterReportCardRoutes(admin *gin.RouterGroup) {
	cards := admin.Group("/report-cards")
	{
		cards.GET("", h.List)
		cards.GET("/new", h.New)
		cards.POST("", h.Create)
		cards.GET("/:id/edit", h.Edit)
		cards.POST("/:id", h.Update)
		cards.GET("/:id/preview", h.Preview)
		cards.GET("/:id/download", h.Download)
		cards.GET("/:id/delete", h.ConfirmDelete)
		cards.POST("/:id/delete", h.Delete)
	}
}
