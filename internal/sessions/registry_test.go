package sessions

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestRegistry(clock *fakeClock) *Registry {
	return NewRegistry(Params{
		Defaults: catalog.Defaults{PageSize: 8, PriceRange: catalog.DefaultPriceRange},
		Now:      clock.Now,
	})
}

func TestResolveCreatesAndReuses(t *testing.T) {
	r := newTestRegistry(&fakeClock{now: time.Now()})

	sess, created := r.Resolve("")
	if !created || sess.ID == "" {
		t.Fatalf("expected new session, got %+v %v", sess, created)
	}
	again, created := r.Resolve(sess.ID)
	if created || again != sess {
		t.Fatalf("expected existing session")
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", r.Len())
	}
}

func TestResolveIgnoresUnknownIDs(t *testing.T) {
	r := newTestRegistry(&fakeClock{now: time.Now()})
	for _, id := range []string{"not-a-uuid", NewID()} {
		sess, created := r.Resolve(id)
		if !created || sess.ID == id {
			t.Fatalf("%q: expected a server-issued id", id)
		}
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	r := newTestRegistry(&fakeClock{now: time.Now()})
	a, _ := r.Resolve("")
	b, _ := r.Resolve("")

	a.Cart.Add(catalog.Product{ID: "1", Price: decimal.NewFromInt(5)})
	a.Browser.SetCategory("audio")

	if len(b.Cart.Items()) != 0 || b.Browser.Query().Category != "" {
		t.Fatalf("session state leaked between clients")
	}
}

func TestExpireIdle(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	r := newTestRegistry(clock)
	stale, _ := r.Resolve("")

	clock.now = clock.now.Add(90 * time.Minute)
	fresh, _ := r.Resolve("")

	clock.now = clock.now.Add(45 * time.Minute)
	expired := r.ExpireIdle(2 * time.Hour)

	if len(expired) != 1 || expired[0] != stale.ID {
		t.Fatalf("expected only the stale session to expire, got %v", expired)
	}
	if _, ok := r.Get(fresh.ID); !ok {
		t.Fatalf("fresh session was evicted")
	}
	if _, ok := r.Get(stale.ID); ok {
		t.Fatalf("stale session still present")
	}
}

func TestResolveEvictsLeastRecentlySeenAtCapacity(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	r := NewRegistry(Params{
		Defaults:    catalog.Defaults{PageSize: 8, PriceRange: catalog.DefaultPriceRange},
		MaxSessions: 2,
		Now:         clock.Now,
	})

	first, _ := r.Resolve("")
	clock.now = clock.now.Add(time.Minute)
	second, _ := r.Resolve("")
	clock.now = clock.now.Add(time.Minute)
	r.Resolve(first.ID)
	clock.now = clock.now.Add(time.Minute)

	third, created := r.Resolve("")
	if !created {
		t.Fatalf("expected a new session")
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", r.Len())
	}
	if _, ok := r.Get(second.ID); ok {
		t.Fatalf("expected least recently seen session to be evicted")
	}
	for _, id := range []string{first.ID, third.ID} {
		if _, ok := r.Get(id); !ok {
			t.Fatalf("expected session %s to survive", id)
		}
	}
}

func TestZeroMaxSessionsIsUnbounded(t *testing.T) {
	r := newTestRegistry(&fakeClock{now: time.Now()})
	for i := 0; i < 50; i++ {
		r.Resolve("")
	}
	if r.Len() != 50 {
		t.Fatalf("expected 50 sessions, got %d", r.Len())
	}
}
