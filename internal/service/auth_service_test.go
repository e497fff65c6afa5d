package service

import (
	"context"
	"errors"
	"testing"

	"report_card_portal/internal/apiclient"
	"report_card_portal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Login(t *testing.T) {
	creds := model.LoginRequest{NationalCode: "1234567890", Password: "admin123"}

	t.Run("admin login", func(t *testing.T) {
		backend := new(MockBackend)
		backend.On("Login", mock.Anything, creds).Return(&model.LoginResponse{
			AccessToken: "token",
			User:        model.User{ID: 1, Role: model.RoleAdmin},
		}, nil).Once()

		resp, err := NewAuthService(backend, NewValidator()).Login(context.Background(), creds)
		require.NoError(t, err)
		assert.Equal(t, "token", resp.AccessToken)
		assert.True(t, resp.User.IsAdmin())
	})

	t.Run("wrong password", func(t *testing.T) {
		backend := new(MockBackend)
		backend.On("Login", mock.Anything, creds).Return(nil, &apiclient.APIError{StatusCode: 401, Message: "Invalid credentials"}).Once()

		_, err := NewAuthService(backend, NewValidator()).Login(context.Background(), creds)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Contains(t, err.Error(), "Invalid credentials")
	})

	t.Run("backend unreachable", func(t *testing.T) {
		backend := new(MockBackend)
		backend.On("Login", mock.Anything, creds).Return(nil, errors.New("connection refused")).Once()

		_, err := NewAuthService(backend, NewValidator()).Login(context.Background(), creds)
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrInvalidCredentials))
	})

	t.Run("unknown role", func(t *testing.T) {
		backend := new(MockBackend)
		backend.On("Login", mock.Anything, creds).Return(&model.LoginResponse{
			AccessToken: "token",
			User:        model.User{ID: 1, Role: "GUEST"},
		}, nil).Once()

		_, err := NewAuthService(backend, NewValidator()).Login(context.Background(), creds)
		assert.ErrorContains(t, err, "unknown role")
	})

	t.Run("empty form", func(t *testing.T) {
		backend := new(MockBackend)
		_, err := NewAuthService(backend, NewValidator()).Login(context.Background(), model.LoginRequest{})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"national code is required", "password is required"}, verr.Messages)
		backend.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})
}
