package service

import (
	"context"

	"report_card_portal/internal/apiclient"
	"report_card_portal/internal/model"

	"github.com/stretchr/testify/mock"
)

// MockBackend is a mock implementation of every backend interface
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Login(ctx context.Context, creds model.LoginRequest) (*model.LoginResponse, error) {
	args := m.Called(ctx, creds)
	resp, _ := args.Get(0).(*model.LoginResponse)
	return resp, args.Error(1)
}

func (m *MockBackend) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *MockBackend) GetUserWithReportCards(ctx context.Context, userID int) (*model.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *MockBackend) CreateUser(ctx context.Context, in model.CreateUserRequest) (*model.User, error) {
	args := m.Called(ctx, in)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *MockBackend) UpdateUser(ctx context.Context, userID int, in model.UpdateUserRequest) (*model.User, error) {
	args := m.Called(ctx, userID, in)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *MockBackend) DeleteUser(ctx context.Context, userID int) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockBackend) UploadProfileImage(ctx context.Context, userID int, image model.Upload) (*model.User, error) {
	args := m.Called(ctx, userID, image)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *MockBackend) ListReportCards(ctx context.Context) ([]model.ReportCard, error) {
	args := m.Called(ctx)
	cards, _ := args.Get(0).([]model.ReportCard)
	return cards, args.Error(1)
}

func (m *MockBackend) ListReportCardsByUser(ctx context.Context, userID int) ([]model.ReportCard, error) {
	args := m.Called(ctx, userID)
	cards, _ := args.Get(0).([]model.ReportCard)
	return cards, args.Error(1)
}

func (m *MockBackend) GetReportCard(ctx context.Context, reportCardID int) (*model.ReportCard, error) {
	args := m.Called(ctx, reportCardID)
	card, _ := args.Get(0).(*model.ReportCard)
	return card, args.Error(1)
}

func (m *MockBackend) CreateReportCard(ctx context.Context, in model.CreateReportCardRequest) (*model.ReportCard, error) {
	args := m.Called(ctx, in)
	card, _ := args.Get(0).(*model.ReportCard)
	return card, args.Error(1)
}

func (m *MockBackend) UpdateReportCard(ctx context.Context, reportCardID int, in model.UpdateReportCardRequest) (*model.ReportCard, error) {
	args := m.Called(ctx, reportCardID, in)
	card, _ := args.Get(0).(*model.ReportCard)
	return card, args.Error(1)
}

func (m *MockBackend) DeleteReportCard(ctx context.Context, reportCardID int) error {
	return m.Called(ctx, reportCardID).Error(0)
}

func (m *MockBackend) OpenFile(ctx context.Context, filePath string) (*apiclient.File, error) {
	args := m.Called(ctx, filePath)
	f, _ := args.Get(0).(*apiclient.File)
	return f, args.Error(1)
}
