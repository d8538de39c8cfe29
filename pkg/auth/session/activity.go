package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dromero-dev/storefront-backend/pkg/config"
	redisclient "github.com/dromero-dev/storefront-backend/pkg/redis"
	redislib "github.com/redis/go-redis/v9"
)

// ErrExpired signals that the session idled past the inactivity limit (or was
// already destroyed) and must not admit further requests.
var ErrExpired = errors.New("session expired")

type activityStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type activityKeyer interface {
	ActivitySessionKey(accessID string) string
}

// ActivityManager owns the per-session activity records backing the
// inactivity gate. It is the single source of truth for "is this identity
// still live": nothing else re-checks expiry.
type ActivityManager struct {
	store activityStore
	keyer activityKeyer
	limit time.Duration
}

// Admitter exposes the request-time surface needed by middleware.
type Admitter interface {
	Admit(ctx context.Context, accessID string, now time.Time) (time.Duration, error)
}

// NewActivityManager constructs an activity manager backed by Redis.
func NewActivityManager(client *redisclient.Client, cfg config.SessionConfig) (*ActivityManager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.InactivityLimit <= 0 {
		return nil, fmt.Errorf("inactivity limit must be positive")
	}
	return &ActivityManager{
		store: client,
		keyer: client,
		limit: cfg.InactivityLimit,
	}, nil
}

// Start records first activity for a fresh session.
func (m *ActivityManager) Start(ctx context.Context, accessID string, now time.Time) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	return m.write(ctx, accessID, now)
}

// Admit enforces the inactivity bound. When the record is live the last-seen
// timestamp advances to now and the full inactivity window is returned. When
// the session idled past the limit (or the record is already gone) the record
// is destroyed and ErrExpired is returned; the caller must re-authenticate.
func (m *ActivityManager) Admit(ctx context.Context, accessID string, now time.Time) (time.Duration, error) {
	if strings.TrimSpace(accessID) == "" {
		return 0, ErrExpired
	}
	key := m.keyer.ActivitySessionKey(accessID)
	raw, err := m.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return 0, ErrExpired
		}
		return 0, err
	}
	last, err := parseActivity(raw)
	if err != nil {
		_ = m.store.Del(ctx, key)
		return 0, ErrExpired
	}
	if now.Sub(last) > m.limit {
		if err := m.store.Del(ctx, key); err != nil {
			return 0, err
		}
		return 0, ErrExpired
	}
	if err := m.write(ctx, accessID, now); err != nil {
		return 0, err
	}
	return m.limit, nil
}

// Remaining reports how long the session may stay idle before expiry, without
// advancing the last-seen timestamp.
func (m *ActivityManager) Remaining(ctx context.Context, accessID string, now time.Time) (time.Duration, error) {
	if strings.TrimSpace(accessID) == "" {
		return 0, ErrExpired
	}
	raw, err := m.store.Get(ctx, m.keyer.ActivitySessionKey(accessID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return 0, ErrExpired
		}
		return 0, err
	}
	last, err := parseActivity(raw)
	if err != nil {
		return 0, ErrExpired
	}
	remaining := m.limit - now.Sub(last)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Revoke destroys the activity record; used by logout.
func (m *ActivityManager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	return m.store.Del(ctx, m.keyer.ActivitySessionKey(accessID))
}

func (m *ActivityManager) write(ctx context.Context, accessID string, now time.Time) error {
	// TTL doubles the limit so Redis reaps abandoned records while Admit
	// still observes the precise timestamp within the window.
	ttl := 2 * m.limit
	value := strconv.FormatInt(now.UnixMilli(), 10)
	return m.store.Set(ctx, m.keyer.ActivitySessionKey(accessID), value, ttl)
}

func parseActivity(raw string) (time.Time, error) {
	ms, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed activity record: %w", err)
	}
	return time.UnixMilli(ms), nil
}
