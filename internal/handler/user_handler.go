package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"report_card_portal/internal/apiclient"
	"report_card_portal/internal/model"
	"report_card_portal/internal/service"
	"report_card_portal/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// UserHandler serves the admin users pages
type UserHandler struct {
	pageHandler
	service       service.UserService
	exportEnabled bool
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s service.UserService, page pageHandler, exportEnabled bool) *UserHandler {
	return &UserHandler{pageHandler: page, service: s, exportEnabled: exportEnabled}
}

func (h *UserHandler) List(c *gin.Context) {
	search := c.Query("q")
	data := gin.H{"Title": "Users", "Search": search, "ExportEnabled": h.exportEnabled}

	users, err := h.service.List(c.Request.Context(), search)
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			h.signOut(c)
			return
		}
		h.logger.Error("failed to list users", zap.Error(err))
		data["LoadError"] = apiclient.Message(err, "Could not load users")
		h.render(c, http.StatusBadGateway, "users/list", data)
		return
	}
	data["Users"] = users
	h.render(c, http.StatusOK, "users/list", data)
}

func (h *UserHandler) New(c *gin.Context) {
	h.render(c, http.StatusOK, "users/form", gin.H{"Title": "New user", "Form": model.CreateUserRequest{Role: model.RoleUser}})
}

func (h *UserHandler) Create(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		h.render(c, http.StatusBadRequest, "users/form", gin.H{"Title": "New user", "Form": req, "FormErrors": []string{"Invalid request"}})
		return
	}

	user, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		status, msgs, ok := h.formFailed(c, err, "Could not create user")
		if !ok {
			return
		}
		req.Password = ""
		h.render(c, status, "users/form", gin.H{"Title": "New user", "Form": req, "FormErrors": msgs})
		return
	}

	h.sessions.AddFlash(c, session.FlashSuccess, fmt.Sprintf("User %s created", user.FullName()))
	c.Redirect(http.StatusFound, "/admin/users")
}

func (h *UserHandler) Show(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	user, err := h.service.GetWithReportCards(c.Request.Context(), id)
	if err != nil {
		h.loadFailed(c, err, "User", "/admin/users")
		return
	}
	h.render(c, http.StatusOK, "users/detail", gin.H{"Title": user.FullName(), "User": user})
}

func (h *UserHandler) Edit(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	user, err := h.service.GetWithReportCards(c.Request.Context(), id)
	if err != nil {
		h.loadFailed(c, err, "User", "/admin/users")
		return
	}
	form := model.CreateUserRequest{
		NationalCode: user.NationalCode,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		FatherName:   user.FatherName,
		Role:         user.Role,
	}
	h.render(c, http.StatusOK, "users/form", gin.H{"Title": "Edit user", "UserID": id, "Form": form})
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var form model.CreateUserRequest
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "users/form", gin.H{"Title": "Edit user", "UserID": id, "Form": form, "FormErrors": []string{"Invalid request"}})
		return
	}

	req := model.UpdateUserRequest{
		NationalCode: &form.NationalCode,
		FirstName:    &form.FirstName,
		LastName:     &form.LastName,
		FatherName:   &form.FatherName,
	}
	if form.Role != "" {
		req.Role = &form.Role
	}
	if form.Password != "" {
		req.Password = &form.Password
	}

	user, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		status, msgs, ok := h.formFailed(c, err, "Could not update user")
		if !ok {
			return
		}
		form.Password = ""
		h.render(c, status, "users/form", gin.H{"Title": "Edit user", "UserID": id, "Form": form, "FormErrors": msgs})
		return
	}

	h.sessions.AddFlash(c, session.FlashSuccess, fmt.Sprintf("User %s updated", user.FullName()))
	c.Redirect(http.StatusFound, fmt.Sprintf("/admin/users/%d", id))
}

func (h *UserHandler) UploadProfileImage(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	back := fmt.Sprintf("/admin/users/%d", id)

	image, done, err := formUpload(c, "image")
	if err != nil {
		h.fail(c, err, "Could not read the uploaded image", back)
		return
	}
	defer done()

	if _, err := h.service.UploadProfileImage(c.Request.Context(), id, image); err != nil {
		h.fail(c, err, "Could not upload profile image", back)
		return
	}
	h.sessions.AddFlash(c, session.FlashSuccess, "Profile image updated")
	c.Redirect(http.StatusFound, back)
}

// ProfileImage proxies the stored profile image of a user
func (h *UserHandler) ProfileImage(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	user, err := h.service.GetWithReportCards(ctx, id)
	if err != nil {
		h.imageFailed(c, err)
		return
	}
	f, err := h.service.OpenProfileImage(ctx, user)
	if err != nil {
		h.imageFailed(c, err)
		return
	}
	h.stream(c, f, "inline", "profile-image")
}

func (h *UserHandler) imageFailed(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apiclient.ErrUnauthorized):
		h.signOut(c)
	case errors.Is(err, apiclient.ErrNotFound), errors.Is(err, service.ErrNoProfileImage), errors.Is(err, apiclient.ErrInvalidFilePath):
		c.Status(http.StatusNotFound)
	default:
		h.logger.Error("failed to load profile image", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.Status(http.StatusBadGateway)
	}
}

func (h *UserHandler) ConfirmDelete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	user, err := h.service.GetWithReportCards(c.Request.Context(), id)
	if err != nil {
		h.loadFailed(c, err, "User", "/admin/users")
		return
	}
	h.render(c, http.StatusOK, "confirm-delete", gin.H{
		"Title":  "Delete user",
		"Kind":   "user",
		"Name":   fmt.Sprintf("%s (%s)", user.FullName(), user.NationalCode),
		"Action": fmt.Sprintf("/admin/users/%d/delete", id),
		"Cancel": "/admin/users",
	})
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Could not delete user", "/admin/users")
		return
	}
	h.sessions.AddFlash(c, session.FlashSuccess, "User deleted")
	c.Redirect(http.StatusFound, "/admin/users")
}

// Export downloads the (filtered) user list as a workbook
func (h *UserHandler) Export(c *gin.Context) {
	users, err := h.service.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.fail(c, err, "Could not load users", "/admin/users")
		return
	}
	buf, err := h.service.ExportXLSX(users)
	if err != nil {
		h.fail(c, err, "Could not export users", "/admin/users")
		return
	}

	fileName := fmt.Sprintf("users_export_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// RegisterUserRoutes registers the users pages on the admin group
func (h *UserHandler) RegisterUserRoutes(admin *gin.RouterGroup) {
	users := admin.Group("/users")
	{
		users.GET("", h.List)
		users.GET("/new", h.New)
		users.POST("", h.Create)
		if h.exportEnabled {
			users.GET("/export", h.Export)
		}
		users.GET("/:id", h.Show)
		users.GET("/:id/edit", h.Edit)
		users.POST("/:id", h.Update)
		users.GET("/:id/profile-image", h.ProfileImage)
		users.POST("/:id/profile-image", h.UploadProfileImage)
		users.GET("/:id/delete", h.ConfirmDelete)
		users.POST("/:id/delete", h.Delete)
	}
}
