package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"report_card_portal/internal/model"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sessionIDKey = "sid"

	FlashError   = "error"
	FlashSuccess = "success"
)

var (
	// ErrNoSession means the request carries no usable session
	ErrNoSession      = errors.New("no session")
	ErrSessionExpired = errors.New("session expired")
)

// CookieOptions configures the browser cookie that carries the session id
type CookieOptions struct {
	Name   string
	Secret string
	MaxAge time.Duration
	Secure bool
}

// Middleware installs the signed cookie store used by Manager
func Middleware(opts CookieOptions) gin.HandlerFunc {
	store := cookie.NewStore([]byte(opts.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(opts.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(opts.Name, store)
}

// Manager is the single entry point for reading and writing sessions
type Manager struct {
	store  Store
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// NewManager creates a Manager; ttl bounds sessions whose token has no exp claim
func NewManager(store Store, ttl time.Duration, logger *zap.Logger) *Manager {
	return &Manager{store: store, ttl: ttl, now: time.Now, logger: logger}
}

// Set stores a new session for token and user and points the cookie at it
func (m *Manager) Set(c *gin.Context, token string, user model.User) (*model.Session, error) {
	if token == "" || user.ID == 0 {
		return nil, fmt.Errorf("cannot start session without token and user")
	}

	cs := sessions.Default(c)
	if oldID, ok := cs.Get(sessionIDKey).(string); ok && oldID != "" {
		if err := m.store.Delete(c.Request.Context(), oldID); err != nil {
			m.logger.Warn("failed to drop previous session", zap.Error(err))
		}
	}

	now := m.now()
	sess := &model.Session{
		ID:        uuid.NewString(),
		Token:     token,
		User:      user,
		CreatedAt: now,
		ExpiresAt: m.expiry(token, now),
	}
	if sess.Expired(now) {
		return nil, ErrSessionExpired
	}
	if err := m.store.Save(c.Request.Context(), sess); err != nil {
		return nil, err
	}

	cs.Set(sessionIDKey, sess.ID)
	if err := cs.Save(); err != nil {
		return nil, fmt.Errorf("failed to write session cookie: %w", err)
	}
	return sess, nil
}

// Get returns the request's session. Missing, unreadable, incomplete and
// expired sessions all yield an error wrapping ErrNoSession, as do sessions
// whose user has a role the portal has no pages for.
func (m *Manager) Get(c *gin.Context) (*model.Session, error) {
	cs := sessions.Default(c)
	id, ok := cs.Get(sessionIDKey).(string)
	if !ok || id == "" {
		return nil, ErrNoSession
	}

	ctx := c.Request.Context()
	sess, err := m.store.Find(ctx, id)
	switch {
	case err == nil:
	case errors.Is(err, ErrSessionNotFound):
		m.forget(c, cs)
		return nil, ErrNoSession
	case errors.Is(err, ErrCorruptSession):
		m.logger.Warn("discarding unreadable session", zap.Error(err))
		_ = m.store.Delete(ctx, id)
		m.forget(c, cs)
		return nil, ErrNoSession
	default:
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}

	if sess.Token == "" || sess.User.ID == 0 || !sess.User.HasKnownRole() {
		_ = m.store.Delete(ctx, id)
		m.forget(c, cs)
		return nil, ErrNoSession
	}
	if sess.Expired(m.now()) {
		_ = m.store.Delete(ctx, id)
		m.forget(c, cs)
		return nil, fmt.Errorf("%w: %w", ErrNoSession, ErrSessionExpired)
	}
	return sess, nil
}

// Clear destroys the request's session, server record included
func (m *Manager) Clear(c *gin.Context) error {
	cs := sessions.Default(c)
	if id, ok := cs.Get(sessionIDKey).(string); ok && id != "" {
		if err := m.store.Delete(c.Request.Context(), id); err != nil {
			return err
		}
	}
	cs.Delete(sessionIDKey)
	return cs.Save()
}

// AddFlash queues a one-shot message of the given kind for the next page
func (m *Manager) AddFlash(c *gin.Context, kind, message string) {
	cs := sessions.Default(c)
	cs.AddFlash(message, kind)
	if err := cs.Save(); err != nil {
		m.logger.Warn("failed to save flash", zap.Error(err))
	}
}

// Flashes pops every queued message of kind
func (m *Manager) Flashes(c *gin.Context, kind string) []string {
	cs := sessions.Default(c)
	raw := cs.Flashes(kind)
	if len(raw) == 0 {
		return nil
	}
	if err := cs.Save(); err != nil {
		m.logger.Warn("failed to save flash", zap.Error(err))
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (m *Manager) forget(c *gin.Context, cs sessions.Session) {
	cs.Delete(sessionIDKey)
	if err := cs.Save(); err != nil {
		m.logger.Warn("failed to clear session cookie", zap.Error(err))
	}
}

// expiry uses the token's exp claim when it is a JWT, the TTL otherwise
func (m *Manager) expiry(token string, now time.Time) time.Time {
	if exp, ok := TokenExpiry(token); ok {
		return exp
	}
	return now.Add(m.ttl)
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature;
// the backend owns the signing key and rejects forged tokens itself.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
