package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"report_card_portal/internal/apiclient"
	"report_card_portal/internal/model"

	"github.com/xuri/excelize/v2"
)

// UserService drives the admin users view
type UserService interface {
	List(ctx context.Context, search string) ([]model.User, error)
	GetWithReportCards(ctx context.Context, userID int) (*model.User, error)
	Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error)
	Update(ctx context.Context, userID int, req model.UpdateUserRequest) (*model.User, error)
	Delete(ctx context.Context, userID int) error
	UploadProfileImage(ctx context.Context, userID int, image *model.Upload) (*model.User, error)
	OpenProfileImage(ctx context.Context, user *model.User) (*apiclient.File, error)
	ExportXLSX(users []model.User) (*bytes.Buffer, error)
}

type userService struct {
	backend        UserFileBackend
	validator      *Validator
	maxUploadBytes int64
}

// NewUserService creates a new UserService
func NewUserService(backend UserFileBackend, v *Validator, maxUploadBytes int64) UserService {
	return &userService{backend: backend, validator: v, maxUploadBytes: maxUploadBytes}
}

func (s *userService) List(ctx context.Context, search string) ([]model.User, error) {
	users, err := s.backend.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return FilterUsers(users, search), nil
}

func (s *userService) GetWithReportCards(ctx context.Context, userID int) (*model.User, error) {
	user, err := s.backend.GetUserWithReportCards(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	return user, nil
}

func (s *userService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	if req.Role == "" {
		req.Role = model.RoleUser
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	user, err := s.backend.CreateUser(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, userID int, req model.UpdateUserRequest) (*model.User, error) {
	if msgs := blankFields(req); len(msgs) > 0 {
		return nil, &ValidationError{Messages: msgs}
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	user, err := s.backend.UpdateUser(ctx, userID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update user %d: %w", userID, err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, userID int) error {
	if err := s.backend.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user %d: %w", userID, err)
	}
	return nil
}

func (s *userService) UploadProfileImage(ctx context.Context, userID int, image *model.Upload) (*model.User, error) {
	if image == nil {
		return nil, &ValidationError{Messages: []string{fieldMessages["File"]}}
	}
	if err := checkUpload(image, profileImageExts, s.maxUploadBytes); err != nil {
		return nil, err
	}
	user, err := s.backend.UploadProfileImage(ctx, userID, *image)
	if err != nil {
		return nil, fmt.Errorf("failed to upload profile image for user %d: %w", userID, err)
	}
	return user, nil
}

// OpenProfileImage streams the stored profile image of user
func (s *userService) OpenProfileImage(ctx context.Context, user *model.User) (*apiclient.File, error) {
	if user.ProfileImage == nil || *user.ProfileImage == "" {
		return nil, ErrNoProfileImage
	}
	f, err := s.backend.OpenFile(ctx, *user.ProfileImage)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile image of user %d: %w", user.ID, err)
	}
	return f, nil
}

// ExportXLSX renders users as a single-sheet workbook
func (s *userService) ExportXLSX(users []model.User) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Users"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := []string{"ID", "National Code", "First Name", "Last Name", "Father Name", "Role", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
	}

	for i, u := range users {
		row := i + 2
		values := []any{u.ID, u.NationalCode, u.FirstName, u.LastName, u.FatherName, u.Role, formatTime(u.CreatedAt)}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "E", 18)
	f.SetColWidth(sheetName, "F", "F", 10)
	f.SetColWidth(sheetName, "G", "G", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

// blankFields reports fields that are present in the update but empty;
// a nil field is left untouched by the backend, an empty one would erase it.
func blankFields(req model.UpdateUserRequest) []string {
	var msgs []string
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"NationalCode", req.NationalCode},
		{"FirstName", req.FirstName},
		{"LastName", req.LastName},
		{"FatherName", req.FatherName},
		{"Role", req.Role},
	} {
		if f.value != nil && strings.TrimSpace(*f.value) == "" {
			msgs = append(msgs, fieldMessages[f.name])
		}
	}
	return msgs
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
