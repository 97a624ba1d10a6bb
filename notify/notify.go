// Package notify models the auto-expiring user messages the widgets raise
// after actions and failures. The Center holds no timers; callers pass the
// current time so expiry is deterministic under test.
package notify

import (
	"time"

	"github.com/google/uuid"
)

// Level classifies a notice for display.
type Level string

const (
	Success Level = "success"
	Warning Level = "warning"
	Error   Level = "error"
)

// Display lifetimes for transient notices.
const (
	FeedbackTTL   = 3 * time.Second
	FetchErrorTTL = 5 * time.Second
	InputHintTTL  = 2 * time.Second
)

// Notice is one transient user-facing message.
type Notice struct {
	ID        string
	Level     Level
	Text      string
	ExpiresAt time.Time
}

// Center collects the notices for one widget instance.
type Center struct {
	notices []Notice
}

// NewCenter creates an empty notice center.
func NewCenter() *Center {
	return &Center{}
}

// Push records a notice that expires ttl after now and returns it.
func (c *Center) Push(level Level, text string, ttl time.Duration, now time.Time) Notice {
	n := Notice{
		ID:        uuid.NewString(),
		Level:     level,
		Text:      text,
		ExpiresAt: now.Add(ttl),
	}
	c.notices = append(c.notices, n)
	return n
}

// Active returns the notices still alive at now and drops the expired ones.
func (c *Center) Active(now time.Time) []Notice {
	kept := c.notices[:0]
	for _, n := range c.notices {
		if now.Before(n.ExpiresAt) {
			kept = append(kept, n)
		}
	}
	c.notices = kept
	return append([]Notice(nil), kept...)
}

// Dismiss removes a single notice by id before its expiry.
func (c *Center) Dismiss(id string) {
	for i, n := range c.notices {
		if n.ID == id {
			c.notices = append(c.notices[:i], c.notices[i+1:]...)
			return
		}
	}
}

// Clear drops all pending notices.
func (c *Center) Clear() {
	c.notices = c.notices[:0]
}
