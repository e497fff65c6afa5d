package service

import (
	"context"

	"report_card_portal/internal/apiclient"
	"report_card_portal/internal/model"
)

// AuthBackend is the part of the REST backend that issues tokens
type AuthBackend interface {
	Login(ctx context.Context, creds model.LoginRequest) (*model.LoginResponse, error)
}

// UserBackend covers the /users endpoints
type UserBackend interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUserWithReportCards(ctx context.Context, userID int) (*model.User, error)
	CreateUser(ctx context.Context, in model.CreateUserRequest) (*model.User, error)
	UpdateUser(ctx context.Context, userID int, in model.UpdateUserRequest) (*model.User, error)
	DeleteUser(ctx context.Context, userID int) error
	UploadProfileImage(ctx context.Context, userID int, image model.Upload) (*model.User, error)
}

// ReportCardBackend covers the /report-cards endpoints
type ReportCardBackend interface {
	ListReportCards(ctx context.Context) ([]model.ReportCard, error)
	ListReportCardsByUser(ctx context.Context, userID int) ([]model.ReportCard, error)
	GetReportCard(ctx context.Context, reportCardID int) (*model.ReportCard, error)
	CreateReportCard(ctx context.Context, in model.CreateReportCardRequest) (*model.ReportCard, error)
	UpdateReportCard(ctx context.Context, reportCardID int, in model.UpdateReportCardRequest) (*model.ReportCard, error)
	DeleteReportCard(ctx context.Context, reportCardID int) error
}

// FileBackend streams stored uploads
type FileBackend interface {
	OpenFile(ctx context.Context, filePath string) (*apiclient.File, error)
}

// UserFileBackend serves users together with their profile images
type UserFileBackend interface {
	UserBackend
	FileBackend
}

// ReportCardFileBackend serves report cards together with their files
type ReportCardFileBackend interface {
	ReportCardBackend
	FileBackend
}

var (
	_ AuthBackend           = (*apiclient.Client)(nil)
	_ UserFileBackend       = (*apiclient.Client)(nil)
	_ ReportCardFileBackend = (*apiclient.Client)(nil)
)
