package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"report_card_portal/internal/apiclient"
	"report_card_portal/internal/model"
)

var ErrInvalidCredentials = errors.New("invalid national code or password")

// AuthService provides authentication related services
type AuthService interface {
	Login(ctx context.Context, creds model.LoginRequest) (*model.LoginResponse, error)
}

type authService struct {
	backend   AuthBackend
	validator *Validator
}

// NewAuthService creates a new AuthService
func NewAuthService(backend AuthBackend, v *Validator) AuthService {
	return &authService{backend: backend, validator: v}
}

// Login checks the form, then asks the backend for a token
func (s *authService) Login(ctx context.Context, creds model.LoginRequest) (*model.LoginResponse, error) {
	if err := s.validator.Struct(creds); err != nil {
		return nil, err
	}

	resp, err := s.backend.Login(ctx, creds)
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if resp.User.Role != model.RoleAdmin && resp.User.Role != model.RoleUser {
		return nil, fmt.Errorf("login returned unknown role %q", resp.User.Role)
	}
	return resp, nil
}
