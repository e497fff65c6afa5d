package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"report_card_portal/internal/model"
)

// Login exchanges credentials for an access token
func (c *Client) Login(ctx context.Context, creds model.LoginRequest) (*model.LoginResponse, error) {
	req, err := c.jsonRequest(http.MethodPost, "/auth/login", "/auth/login", creds)
	if err != nil {
		return nil, err
	}
	var out model.LoginResponse
	if err := c.call(ctx, req, &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("login response carries no access token")
	}
	return &out, nil
}
