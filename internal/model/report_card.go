package model

import (
	"io"
	"time"
)

// ReportCardOwner is the user summary the backend embeds in report cards
type ReportCardOwner struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	NationalCode string `json:"nationalCode"`
}

// ReportCard represents an uploaded document owned by one user
type ReportCard struct {
	ID          int              `json:"id"`
	UserID      int              `json:"userId"`
	Title       string           `json:"title"`
	FilePath    string           `json:"filePath"`
	Description *string          `json:"description,omitempty"`
	UploadedAt  time.Time        `json:"uploadedAt"`
	UploadedBy  int              `json:"uploadedBy"`
	User        *ReportCardOwner `json:"user,omitempty"`
}

// DescriptionText returns the description or an empty string
func (r ReportCard) DescriptionText() string {
	if r.Description == nil {
		return ""
	}
	return *r.Description
}

// Upload is a file attached to a form
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// CreateReportCardRequest is used for uploading a new report card
type CreateReportCardRequest struct {
	UserID      int     `validate:"required,gt=0"`
	Title       string  `validate:"required"`
	Description string
	UploadedBy  int     `validate:"required,gt=0"`
	File        *Upload `validate:"required"`
}

// UpdateReportCardRequest carries a partial update of the editable fields
type UpdateReportCardRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1"`
	Description *string `json:"description,omitempty"`
}
