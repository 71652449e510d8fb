// Package notify keeps the transient notifications shown to each console session.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alextreichler/storefront-console/internal/models"
)

// DefaultTTL is how long a notification stays on screen without dismissal.
const DefaultTTL = 5 * time.Second

// Store holds notifications per session, in insertion order.
type Store interface {
	Append(ctx context.Context, sessionID string, n models.Notification) error
	// Active returns unexpired notifications and drops expired ones.
	Active(ctx context.Context, sessionID string, now time.Time) ([]models.Notification, error)
	Remove(ctx context.Context, sessionID, id string) error
}

type Center struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

type Option func(*Center)

func WithTTL(ttl time.Duration) Option {
	return func(c *Center) { c.ttl = ttl }
}

func WithClock(now func() time.Time) Option {
	return func(c *Center) { c.now = now }
}

func NewCenter(store Store, opts ...Option) *Center {
	c := &Center{store: store, ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Center) TTL() time.Duration { return c.ttl }

// Now reads the clock the center stamps notifications with.
func (c *Center) Now() time.Time { return c.now() }

// Push appends a notification for the session. Failures are logged, never
// returned: a lost notification must not fail the operation that raised it.
func (c *Center) Push(ctx context.Context, sessionID, message string, severity models.Severity) models.Notification {
	now := c.now()
	n := models.Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}
	if err := c.store.Append(ctx, sessionID, n); err != nil {
		slog.Error("Failed to store notification", "session", sessionID, "error", err)
	}
	return n
}

func (c *Center) Active(ctx context.Context, sessionID string) []models.Notification {
	list, err := c.store.Active(ctx, sessionID, c.now())
	if err != nil {
		slog.Error("Failed to load notifications", "session", sessionID, "error", err)
		return nil
	}
	return list
}

func (c *Center) Dismiss(ctx context.Context, sessionID, id string) error {
	return c.store.Remove(ctx, sessionID, id)
}

// For binds the center to one session.
func (c *Center) For(ctx context.Context, sessionID string) *Notifier {
	return &Notifier{ctx: ctx, center: c, sessionID: sessionID}
}

// Notifier pushes notifications for a single session.
type Notifier struct {
	ctx       context.Context
	center    *Center
	sessionID string
}

func (n *Notifier) Notify(message string, severity models.Severity) {
	n.center.Push(n.ctx, n.sessionID, message, severity)
}
