// Package sessions keeps the per-client cart and catalog browser in memory.
package sessions

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/discount"
)

// Session is one client's storefront state.
type Session struct {
	ID        string
	Cart      *cart.Store
	Browser   *catalog.Browser
	CreatedAt time.Time

	lastSeen atomic.Int64
}

// LastSeen is the last time the client used the session.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load()).UTC()
}

func (s *Session) touch(at time.Time) {
	s.lastSeen.Store(at.UnixNano())
}

// Params configures a Registry.
type Params struct {
	Rules    *discount.RuleSet
	Defaults catalog.Defaults
	// MaxSessions caps live sessions; the least recently seen one is evicted
	// to make room. Zero means no cap.
	MaxSessions int
	// Now defaults to time.Now.
	Now func() time.Time
}

// Registry owns every live session.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	rules    *discount.RuleSet
	defaults catalog.Defaults
	max      int
	now      func() time.Time
}

func NewRegistry(params Params) *Registry {
	now := params.Now
	if now == nil {
		now = time.Now
	}
	rules := params.Rules
	if rules == nil {
		rules = discount.Default()
	}
	return &Registry{
		sessions: map[string]*Session{},
		rules:    rules,
		defaults: params.Defaults,
		max:      params.MaxSessions,
		now:      now,
	}
}

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}

// Resolve returns the session for id and marks it as seen. Unknown, expired
// or malformed ids get a brand new session with a server-issued id.
func (r *Registry) Resolve(id string) (*Session, bool) {
	id = strings.TrimSpace(id)
	now := r.now().UTC()

	if _, err := uuid.Parse(id); err == nil {
		r.mu.Lock()
		if sess, ok := r.sessions[id]; ok {
			sess.touch(now)
			r.mu.Unlock()
			return sess, false
		}
		r.mu.Unlock()
	}

	sess := &Session{
		ID:        NewID(),
		Cart:      cart.NewStore(r.rules),
		Browser:   catalog.NewBrowser(r.defaults),
		CreatedAt: now,
	}
	sess.touch(now)
	r.mu.Lock()
	if r.max > 0 {
		for len(r.sessions) >= r.max {
			r.evictOldestLocked()
		}
	}
	r.sessions[sess.ID] = sess
	r.mu.Unlock()
	return sess, true
}

func (r *Registry) evictOldestLocked() {
	var (
		oldestID string
		oldest   int64
	)
	for id, sess := range r.sessions {
		seen := sess.lastSeen.Load()
		if oldestID == "" || seen < oldest {
			oldestID, oldest = id, seen
		}
	}
	delete(r.sessions, oldestID)
}

// Get looks a session up without touching it.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[id]
	return sess, ok
}

// Delete drops a session.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len is the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// ExpireIdle removes sessions unused for longer than idle and returns their ids.
func (r *Registry) ExpireIdle(idle time.Duration) []string {
	cutoff := r.now().UTC().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()
	expired := []string{}
	for id, sess := range r.sessions {
		if sess.LastSeen().Before(cutoff) {
			delete(r.sessions, id)
			expired = append(expired, id)
		}
	}
	return expired
}
