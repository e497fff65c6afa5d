package service

import (
	"context"
	"fmt"

	"report_card_portal/internal/model"

	"golang.org/x/sync/errgroup"
)

// DashboardService aggregates the admin landing page
type DashboardService interface {
	Stats(ctx context.Context) (*model.DashboardStats, error)
}

type dashboardService struct {
	users UserBackend
	cards ReportCardBackend
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(users UserBackend, cards ReportCardBackend) DashboardService {
	return &dashboardService{users: users, cards: cards}
}

// Stats fetches both lists concurrently; the first failure cancels the other call
func (s *dashboardService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	var users []model.User
	var cards []model.ReportCard

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.users.ListUsers(gctx)
		if err != nil {
			return fmt.Errorf("failed to load users: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		cards, err = s.cards.ListReportCards(gctx)
		if err != nil {
			return fmt.Errorf("failed to load report cards: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &model.DashboardStats{
		TotalUsers:        len(users),
		TotalReportCards:  len(cards),
		RecentUsers:       recent(users, model.RecentLimit),
		RecentReportCards: recent(cards, model.RecentLimit),
	}, nil
}

// recent returns the first n items in backend order
func recent[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
