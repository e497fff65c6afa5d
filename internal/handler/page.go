package handler

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"report_card_portal/internal/apiclient"
	"report_card_portal/internal/middleware"
	"report_card_portal/internal/model"
	"report_card_portal/internal/service"
	"report_card_portal/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// uploadFormOverhead is the room left next to a file for the other form fields
const uploadFormOverhead = 1 << 20

//go:embed templates/*.html
var templateFS embed.FS

// LoadTemplates parses the embedded page templates
func LoadTemplates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"formatTime": formatTime,
	}).ParseFS(templateFS, "templates/*.html")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

// pageHandler holds what every page needs besides its service
type pageHandler struct {
	sessions *session.Manager
	logger   *zap.Logger
}

// render executes a page template with the layout data every page uses
func (h pageHandler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if sess, ok := middleware.CurrentSession(c); ok {
		data["Session"] = sess
	}
	data["CSRFField"] = csrf.TemplateField(c.Request)
	data["FlashErrors"] = h.sessions.Flashes(c, session.FlashError)
	data["FlashSuccess"] = h.sessions.Flashes(c, session.FlashSuccess)
	c.HTML(status, name, data)
}

func (h pageHandler) renderError(c *gin.Context, status int, heading, message string) {
	h.render(c, status, "error", gin.H{"Title": heading, "Heading": heading, "Message": message})
}

// signOut ends a session the backend no longer accepts
func (h pageHandler) signOut(c *gin.Context) {
	if err := h.sessions.Clear(c); err != nil {
		h.logger.Warn("failed to clear session", zap.Error(err))
	}
	h.sessions.AddFlash(c, session.FlashError, "Your session has expired, please sign in again")
	c.Redirect(http.StatusFound, middleware.LoginPath)
	c.Abort()
}

// fail flashes a message for err and redirects. A rejected token signs the user out instead.
func (h pageHandler) fail(c *gin.Context, err error, fallback, redirectTo string) {
	if errors.Is(err, apiclient.ErrUnauthorized) {
		h.signOut(c)
		return
	}
	msgs := formErrors(err)
	if msgs == nil {
		h.logger.Error(fallback, zap.String("path", c.Request.URL.Path), zap.Error(err))
		msgs = []string{apiclient.Message(err, fallback)}
	}
	for _, msg := range msgs {
		h.sessions.AddFlash(c, session.FlashError, msg)
	}
	c.Redirect(http.StatusFound, redirectTo)
}

// loadFailed reacts to a failed fetch of the record a page is about
func (h pageHandler) loadFailed(c *gin.Context, err error, what, back string) {
	switch {
	case errors.Is(err, apiclient.ErrUnauthorized):
		h.signOut(c)
	case errors.Is(err, apiclient.ErrNotFound):
		h.renderError(c, http.StatusNotFound, what+" not found", "It may have been deleted.")
	default:
		h.fail(c, err, "Could not load "+strings.ToLower(what), back)
	}
}

// formFailed prepares a form for re-rendering after err and returns the
// status and messages to show. It returns ok=false when the user was signed out.
func (h pageHandler) formFailed(c *gin.Context, err error, fallback string) (status int, msgs []string, ok bool) {
	if errors.Is(err, apiclient.ErrUnauthorized) {
		h.signOut(c)
		return 0, nil, false
	}
	if fe := formErrors(err); fe != nil {
		return http.StatusBadRequest, fe, true
	}

	h.logger.Error(fallback, zap.String("path", c.Request.URL.Path), zap.Error(err))
	status = http.StatusBadGateway
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		status = apiErr.StatusCode
	}
	return status, []string{apiclient.Message(err, fallback)}, true
}

// stream copies a backend file to the response
func (h pageHandler) stream(c *gin.Context, f *apiclient.File, disposition, filename string) {
	defer f.Close()
	c.DataFromReader(http.StatusOK, f.ContentLength, f.ContentType, f.Body, map[string]string{
		"Content-Disposition": mime.FormatMediaType(disposition, map[string]string{"filename": filename}),
	})
}

// formErrors returns the messages of errors caused by the submitted form
func formErrors(err error) []string {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return verr.Messages
	}
	if errors.Is(err, service.ErrInvalidFileFormat) ||
		errors.Is(err, service.ErrFileSizeExceeded) ||
		errors.Is(err, service.ErrEmptyFile) {
		return []string{err.Error()}
	}
	return nil
}

func (h pageHandler) parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		h.renderError(c, http.StatusBadRequest, "Invalid request", "The address does not point to a valid record.")
		return 0, false
	}
	return id, true
}

// formUpload reads an optional file field; a missing file yields nil
func formUpload(c *gin.Context, field string) (*model.Upload, func(), error) {
	noop := func() {}
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, oversized(err)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, err
	}
	return &model.Upload{Filename: fh.Filename, Size: fh.Size, Content: f}, func() { f.Close() }, nil
}

// oversized reports a body cut off by middleware.LimitBody as ErrFileSizeExceeded
func oversized(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: %d MB maximum", service.ErrFileSizeExceeded, (tooLarge.Limit-uploadFormOverhead)/(1024*1024))
	}
	return err
}
