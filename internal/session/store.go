package session

import (
	"context"
	"errors"
	"time"

	"report_card_portal/internal/model"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	// ErrCorruptSession means a stored record could not be decoded
	ErrCorruptSession = errors.New("stored session is unreadable")
)

// Store persists sessions server-side, keyed by session id
type Store interface {
	Save(ctx context.Context, sess *model.Session) error
	Find(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
}

// Purger is implemented by stores that need expired records removed
type Purger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
