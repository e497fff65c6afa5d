package service

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"report_card_portal/internal/model"

	"github.com/go-playground/validator/v10"
)

var (
	reportCardExts   = map[string]bool{".pdf": true, ".jpg": true, ".jpeg": true, ".png": true}
	profileImageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}
)

// fieldMessages maps struct fields to the text shown next to the form
var fieldMessages = map[string]string{
	"NationalCode": "national code is required",
	"FirstName":    "first name is required",
	"LastName":     "last name is required",
	"FatherName":   "father's name is required",
	"Password":     "password is required",
	"Password.min": "password must be at least 6 characters",
	"Role":         "role must be USER or ADMIN",
	"UserID":       "please select a user",
	"Title":        "title is required",
	"UploadedBy":   "uploader is unknown, please sign in again",
	"File":         "please choose a file to upload",
}

// Validator checks form structs before anything is sent to the backend
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Struct validates s and converts failures into a *ValidationError
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate: %w", err)
	}
	out := &ValidationError{}
	for _, fe := range fieldErrs {
		msg, ok := fieldMessages[fe.StructField()+"."+fe.Tag()]
		if !ok {
			msg, ok = fieldMessages[fe.StructField()]
		}
		if !ok {
			msg = fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field()))
		}
		out.Messages = append(out.Messages, msg)
	}
	return out
}

// checkUpload enforces extension and size limits on an attached file
func checkUpload(upload *model.Upload, allowed map[string]bool, maxBytes int64) error {
	if upload.Size == 0 {
		return ErrEmptyFile
	}
	if maxBytes > 0 && upload.Size > maxBytes {
		return fmt.Errorf("%w: %d MB maximum", ErrFileSizeExceeded, maxBytes/(1024*1024))
	}
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if !allowed[ext] {
		return fmt.Errorf("%w: %s files are not accepted", ErrInvalidFileFormat, ext)
	}
	return nil
}
