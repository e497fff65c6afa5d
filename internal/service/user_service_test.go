package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"report_card_portal/internal/apiclient"
	"report_card_portal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newUserService(backend *MockBackend) UserService {
	return NewUserService(backend, NewValidator(), testMaxUpload)
}

func TestUserService_Create_DefaultsRoleToUser(t *testing.T) {
	backend := new(MockBackend)
	svc := newUserService(backend)

	req := model.CreateUserRequest{
		NationalCode: "1111111111",
		FirstName:    "Sara",
		LastName:     "Ahmadi",
		FatherName:   "Reza",
		Password:     "secret1",
	}
	expected := req
	expected.Role = model.RoleUser
	backend.On("CreateUser", mock.Anything, expected).Return(&model.User{ID: 5, Role: model.RoleUser}, nil).Once()

	user, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 5, user.ID)
	backend.AssertExpectations(t)
}

func TestUserService_Create_Validation(t *testing.T) {
	backend := new(MockBackend)
	svc := newUserService(backend)

	_, err := svc.Create(context.Background(), model.CreateUserRequest{
		NationalCode: "1111111111",
		FirstName:    "Sara",
		LastName:     "Ahmadi",
		FatherName:   "Reza",
		Password:     "123",
		Role:         "ROOT",
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"password must be at least 6 characters", "role must be USER or ADMIN"}, verr.Messages)
	backend.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestUserService_UploadProfileImage(t *testing.T) {
	t.Run("missing image", func(t *testing.T) {
		backend := new(MockBackend)
		_, err := newUserService(backend).UploadProfileImage(context.Background(), 1, nil)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("pdf is not an image", func(t *testing.T) {
		backend := new(MockBackend)
		_, err := newUserService(backend).UploadProfileImage(context.Background(), 1, pdfUpload("cv.pdf", 10))
		assert.ErrorIs(t, err, ErrInvalidFileFormat)
		backend.AssertNotCalled(t, "UploadProfileImage", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("webp accepted", func(t *testing.T) {
		backend := new(MockBackend)
		img := pdfUpload("me.webp", 10)
		path := "uploads/profiles/me.webp"
		backend.On("UploadProfileImage", mock.Anything, 1, *img).Return(&model.User{ID: 1, ProfileImage: &path}, nil).Once()

		user, err := newUserService(backend).UploadProfileImage(context.Background(), 1, img)
		require.NoError(t, err)
		assert.Equal(t, path, *user.ProfileImage)
		backend.AssertExpectations(t)
	})
}

func TestUserService_List_Search(t *testing.T) {
	backend := new(MockBackend)
	backend.On("ListUsers", mock.Anything).Return(searchUsers, nil).Once()

	users, err := newUserService(backend).List(context.Background(), "Karimi")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, 3, users[0].ID)
}

func TestUserService_ExportXLSX(t *testing.T) {
	svc := newUserService(new(MockBackend))
	created := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

	buf, err := svc.ExportXLSX([]model.User{
		{ID: 1, NationalCode: "1234567890", FirstName: "Ali", LastName: "Rezaei", FatherName: "Hassan", Role: model.RoleAdmin, CreatedAt: created},
		{ID: 2, NationalCode: "0987654321", FirstName: "Sara", LastName: "Ahmadi", FatherName: "Mohammad", Role: model.RoleUser},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Users"}, f.GetSheetList())
	rows, err := f.GetRows("Users")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "National Code", "First Name", "Last Name", "Father Name", "Role", "Created At"}, rows[0])
	assert.Equal(t, []string{"1", "1234567890", "Ali", "Rezaei", "Hassan", "ADMIN", "2025-03-01 09:30"}, rows[1])
	assert.Equal(t, "USER", rows[2][5])
}

func TestUserService_OpenProfileImage(t *testing.T) {
	backend := new(MockBackend)
	svc := newUserService(backend)

	_, err := svc.OpenProfileImage(context.Background(), &model.User{ID: 1})
	assert.ErrorIs(t, err, ErrNoProfileImage)

	path := "uploads/profiles/1.png"
	backend.On("OpenFile", mock.Anything, path).Return(&apiclient.File{ContentType: "image/png"}, nil).Once()

	f, err := svc.OpenProfileImage(context.Background(), &model.User{ID: 1, ProfileImage: &path})
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.ContentType)
	backend.AssertExpectations(t)
}

func TestUserService_Update(t *testing.T) {
	backend := new(MockBackend)
	svc := newUserService(backend)

	blank := " "
	_, err := svc.Update(context.Background(), 2, model.UpdateUserRequest{FirstName: &blank})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"first name is required"}, verr.Messages)

	noRole := ""
	_, err = svc.Update(context.Background(), 2, model.UpdateUserRequest{Role: &noRole})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"role must be USER or ADMIN"}, verr.Messages)
	backend.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)

	name := "Sarah"
	req := model.UpdateUserRequest{FirstName: &name}
	backend.On("UpdateUser", mock.Anything, 2, req).Return(&model.User{ID: 2, FirstName: name}, nil).Once()

	user, err := svc.Update(context.Background(), 2, req)
	require.NoError(t, err)
	assert.Equal(t, "Sarah", user.FirstName)
	backend.AssertExpectations(t)
}
