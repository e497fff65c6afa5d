package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"report_card_portal/internal/model"
)

func (c *Client) ListReportCards(ctx context.Context) ([]model.ReportCard, error) {
	req, _ := c.jsonRequest(http.MethodGet, "/report-cards", "/report-cards", nil)
	body, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	return decodeList[model.ReportCard](body)
}

func (c *Client) ListReportCardsByUser(ctx context.Context, userID int) ([]model.ReportCard, error) {
	req, _ := c.jsonRequest(http.MethodGet, "/report-cards/user/:userId", fmt.Sprintf("/report-cards/user/%d", userID), nil)
	body, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	return decodeList[model.ReportCard](body)
}

func (c *Client) GetReportCard(ctx context.Context, reportCardID int) (*model.ReportCard, error) {
	req, _ := c.jsonRequest(http.MethodGet, "/report-cards/:id", fmt.Sprintf("/report-cards/%d", reportCardID), nil)
	var card model.ReportCard
	if err := c.call(ctx, req, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// CreateReportCard uploads the file with its metadata; description is sent only when set
func (c *Client) CreateReportCard(ctx context.Context, in model.CreateReportCardRequest) (*model.ReportCard, error) {
	if in.File == nil {
		return nil, fmt.Errorf("report card file is required")
	}
	fields := []formField{
		{name: "userId", value: strconv.Itoa(in.UserID)},
		{name: "title", value: in.Title},
		{name: "uploadedBy", value: strconv.Itoa(in.UploadedBy)},
	}
	if in.Description != "" {
		fields = append(fields, formField{name: "description", value: in.Description})
	}

	body, contentType, err := encodeMultipart("file", *in.File, fields...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report card: %w", err)
	}
	req := request{
		method:      http.MethodPost,
		route:       "/report-cards",
		path:        "/report-cards",
		body:        body,
		contentType: contentType,
		timeout:     c.uploadTimeout,
	}
	var card model.ReportCard
	if err := c.call(ctx, req, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) UpdateReportCard(ctx context.Context, reportCardID int, in model.UpdateReportCardRequest) (*model.ReportCard, error) {
	req, err := c.jsonRequest(http.MethodPatch, "/report-cards/:id", fmt.Sprintf("/report-cards/%d", reportCardID), in)
	if err != nil {
		return nil, err
	}
	var card model.ReportCard
	if err := c.call(ctx, req, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) DeleteReportCard(ctx context.Context, reportCardID int) error {
	req, _ := c.jsonRequest(http.MethodDelete, "/report-cards/:id", fmt.Sprintf("/report-cards/%d", reportCardID), nil)
	return c.call(ctx, req, nil)
}
