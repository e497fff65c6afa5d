package service

import (
	"strings"

	"report_card_portal/internal/model"
)

// FilterUsers returns the users whose national code, names or full name
// contain term. A blank term returns users unchanged; any other term is
// matched as typed, surrounding spaces included.
func FilterUsers(users []model.User, term string) []model.User {
	if strings.TrimSpace(term) == "" {
		return users
	}
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		if strings.Contains(u.NationalCode, term) ||
			strings.Contains(u.FirstName, term) ||
			strings.Contains(u.LastName, term) ||
			strings.Contains(u.FatherName, term) ||
			strings.Contains(u.FullName(), term) {
			out = append(out, u)
		}
	}
	return out
}

// FilterReportCards returns the cards whose title, description or owner
// fields contain term. A blank term returns cards unchanged.
func FilterReportCards(cards []model.ReportCard, term string) []model.ReportCard {
	if strings.TrimSpace(term) == "" {
		return cards
	}
	out := make([]model.ReportCard, 0, len(cards))
	for _, rc := range cards {
		if reportCardMatches(rc, term) {
			out = append(out, rc)
		}
	}
	return out
}

func reportCardMatches(rc model.ReportCard, term string) bool {
	if strings.Contains(rc.Title, term) || strings.Contains(rc.DescriptionText(), term) {
		return true
	}
	if rc.User == nil {
		return false
	}
	return strings.Contains(rc.User.FirstName, term) ||
		strings.Contains(rc.User.LastName, term) ||
		strings.Contains(rc.User.NationalCode, term) ||
		strings.Contains(rc.User.FirstName+" "+rc.User.LastName, term)
}
