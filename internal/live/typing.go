package live

import (
	"sort"
	"time"

	"github.com/taskwire/taskwire/internal/domain"
)

// DefaultTypingTTL is how long a typing indicator stays visible without a
// renewal push.
const DefaultTypingTTL = 3 * time.Second

// TypingSet tracks which remote users are currently typing in a panel. Each
// start push sets a deadline; stops and expiry remove entries. It is owned
// by the update loop, so no locking.
type TypingSet struct {
	ttl       time.Duration
	deadlines map[string]time.Time
	users     map[string]domain.User
}

// NewTypingSet creates a set with the given renewal TTL.
func NewTypingSet(ttl time.Duration) *TypingSet {
	if ttl <= 0 {
		ttl = DefaultTypingTTL
	}
	return &TypingSet{
		ttl:       ttl,
		deadlines: make(map[string]time.Time),
		users:     make(map[string]domain.User),
	}
}

// Start records or renews a user's typing indicator.
func (ts *TypingSet) Start(user domain.User, now time.Time) {
	ts.deadlines[user.ID] = now.Add(ts.ttl)
	ts.users[user.ID] = user
}

// Stop removes a user's indicator. A stop for a user who was never recorded
// as typing is a no-op, not an error.
func (ts *TypingSet) Stop(userID string) {
	delete(ts.deadlines, userID)
	delete(ts.users, userID)
}

// Expire drops entries whose deadline has passed and reports whether the
// set changed.
func (ts *TypingSet) Expire(now time.Time) bool {
	changed := false
	for id, deadline := range ts.deadlines {
		if now.After(deadline) {
			delete(ts.deadlines, id)
			delete(ts.users, id)
			changed = true
		}
	}
	return changed
}

// Active returns the users still considered typing, in stable name order.
func (ts *TypingSet) Active(now time.Time) []domain.User {
	var active []domain.User
	for id, deadline := range ts.deadlines {
		if !now.After(deadline) {
			active = append(active, ts.users[id])
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Name < active[j].Name })
	return active
}

// Len reports the number of tracked users, expired or not.
func (ts *TypingSet) Len() int {
	return len(ts.deadlines)
}
