package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"report_card_portal/internal/model"
)

// ListUsers returns every user, or an empty list when the body is not an array
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	req, _ := c.jsonRequest(http.MethodGet, "/users", "/users", nil)
	body, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	return decodeList[model.User](body)
}

// GetUserWithReportCards returns one user together with their report cards
func (c *Client) GetUserWithReportCards(ctx context.Context, userID int) (*model.User, error) {
	req, _ := c.jsonRequest(http.MethodGet, "/users/:id/report-cards", fmt.Sprintf("/users/%d/report-cards", userID), nil)
	var user model.User
	if err := c.call(ctx, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) CreateUser(ctx context.Context, in model.CreateUserRequest) (*model.User, error) {
	req, err := c.jsonRequest(http.MethodPost, "/users", "/users", in)
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := c.call(ctx, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateUser(ctx context.Context, userID int, in model.UpdateUserRequest) (*model.User, error) {
	req, err := c.jsonRequest(http.MethodPatch, "/users/:id", fmt.Sprintf("/users/%d", userID), in)
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := c.call(ctx, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, userID int) error {
	req, _ := c.jsonRequest(http.MethodDelete, "/users/:id", fmt.Sprintf("/users/%d", userID), nil)
	return c.call(ctx, req, nil)
}

// UploadProfileImage sends the image as the multipart field "image"
func (c *Client) UploadProfileImage(ctx context.Context, userID int, image model.Upload) (*model.User, error) {
	body, contentType, err := encodeMultipart("image", image)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile image: %w", err)
	}
	req := request{
		method:      http.MethodPost,
		route:       "/users/:id/profile-image",
		path:        fmt.Sprintf("/users/%d/profile-image", userID),
		body:        body,
		contentType: contentType,
		timeout:     c.uploadTimeout,
	}
	var user model.User
	if err := c.call(ctx, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
