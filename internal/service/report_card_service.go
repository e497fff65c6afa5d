package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"report_card_portal/internal/apiclient"
	"report_card_portal/internal/model"
)

// ReportCardService drives the report card views
type ReportCardService interface {
	List(ctx context.Context, search string) ([]model.ReportCard, error)
	ListForUser(ctx context.Context, userID int) ([]model.ReportCard, error)
	Get(ctx context.Context, reportCardID int) (*model.ReportCard, error)
	Create(ctx context.Context, req model.CreateReportCardRequest) (*model.ReportCard, error)
	Update(ctx context.Context, reportCardID int, req model.UpdateReportCardRequest) (*model.ReportCard, error)
	Delete(ctx context.Context, reportCardID int) error
	OpenFile(ctx context.Context, reportCardID int) (*apiclient.File, string, error)
	OpenOwnFile(ctx context.Context, reportCardID, ownerID int) (*apiclient.File, string, error)
}

type reportCardService struct {
	backend        ReportCardFileBackend
	validator      *Validator
	maxUploadBytes int64
}

// NewReportCardService creates a new ReportCardService
func NewReportCardService(backend ReportCardFileBackend, v *Validator, maxUploadBytes int64) ReportCardService {
	return &reportCardService{backend: backend, validator: v, maxUploadBytes: maxUploadBytes}
}

func (s *reportCardService) List(ctx context.Context, search string) ([]model.ReportCard, error) {
	cards, err := s.backend.ListReportCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list report cards: %w", err)
	}
	return FilterReportCards(cards, search), nil
}

func (s *reportCardService) ListForUser(ctx context.Context, userID int) ([]model.ReportCard, error) {
	cards, err := s.backend.ListReportCardsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list report cards of user %d: %w", userID, err)
	}
	return cards, nil
}

func (s *reportCardService) Get(ctx context.Context, reportCardID int) (*model.ReportCard, error) {
	card, err := s.backend.GetReportCard(ctx, reportCardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load report card %d: %w", reportCardID, err)
	}
	return card, nil
}

// Create validates the form and the attached file before uploading.
// Nothing reaches the backend unless a user is selected, the title is set
// and a file is attached.
func (s *reportCardService) Create(ctx context.Context, req model.CreateReportCardRequest) (*model.ReportCard, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if err := checkUpload(req.File, reportCardExts, s.maxUploadBytes); err != nil {
		return nil, err
	}
	card, err := s.backend.CreateReportCard(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload report card: %w", err)
	}
	return card, nil
}

func (s *reportCardService) Update(ctx context.Context, reportCardID int, req model.UpdateReportCardRequest) (*model.ReportCard, error) {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, &ValidationError{Messages: []string{fieldMessages["Title"]}}
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	card, err := s.backend.UpdateReportCard(ctx, reportCardID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update report card %d: %w", reportCardID, err)
	}
	return card, nil
}

func (s *reportCardService) Delete(ctx context.Context, reportCardID int) error {
	if err := s.backend.DeleteReportCard(ctx, reportCardID); err != nil {
		return fmt.Errorf("failed to delete report card %d: %w", reportCardID, err)
	}
	return nil
}

// OpenFile streams the card's file and returns the name to offer for download
func (s *reportCardService) OpenFile(ctx context.Context, reportCardID int) (*apiclient.File, string, error) {
	card, err := s.Get(ctx, reportCardID)
	if err != nil {
		return nil, "", err
	}
	return s.open(ctx, card)
}

// OpenOwnFile is OpenFile restricted to cards owned by ownerID
func (s *reportCardService) OpenOwnFile(ctx context.Context, reportCardID, ownerID int) (*apiclient.File, string, error) {
	card, err := s.Get(ctx, reportCardID)
	if err != nil {
		return nil, "", err
	}
	if card.UserID != ownerID {
		return nil, "", ErrForbidden
	}
	return s.open(ctx, card)
}

func (s *reportCardService) open(ctx context.Context, card *model.ReportCard) (*apiclient.File, string, error) {
	f, err := s.backend.OpenFile(ctx, card.FilePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file of report card %d: %w", card.ID, err)
	}
	return f, downloadName(card), nil
}

// downloadName builds "<title><ext>" from the stored path
func downloadName(card *model.ReportCard) string {
	ext := filepath.Ext(card.FilePath)
	name := card.Title
	if name == "" {
		name = fmt.Sprintf("report-card-%d", card.ID)
	}
	return name + ext
}
