package live

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/taskwire/taskwire/internal/domain"
)

func TestTypingSet_StartStop(t *testing.T) {
	ts := NewTypingSet(time.Second)
	now := time.Now()

	ts.Start(domain.User{ID: "u-1", Name: "Ada"}, now)
	ts.Start(domain.User{ID: "u-2", Name: "Bert"}, now)

	active := ts.Active(now)
	assert.Len(t, active, 2)
	assert.Equal(t, "Ada", active[0].Name, "stable name order")

	ts.Stop("u-1")
	active = ts.Active(now)
	assert.Len(t, active, 1)
	assert.Equal(t, "Bert", active[0].Name)
}

func TestTypingSet_StopWithoutStartIsNoop(t *testing.T) {
	ts := NewTypingSet(time.Second)

	ts.Stop("u-ghost")

	assert.Zero(t, ts.Len())
	assert.Empty(t, ts.Active(time.Now()))
}

func TestTypingSet_Expiry(t *testing.T) {
	ts := NewTypingSet(time.Second)
	now := time.Now()

	ts.Start(domain.User{ID: "u-1", Name: "Ada"}, now)

	assert.False(t, ts.Expire(now.Add(500*time.Millisecond)))
	assert.Len(t, ts.Active(now.Add(500*time.Millisecond)), 1)

	assert.True(t, ts.Expire(now.Add(2*time.Second)))
	assert.Zero(t, ts.Len())
}

func TestTypingSet_RenewalExtendsDeadline(t *testing.T) {
	ts := NewTypingSet(time.Second)
	now := time.Now()

	ts.Start(domain.User{ID: "u-1", Name: "Ada"}, now)
	ts.Start(domain.User{ID: "u-1", Name: "Ada"}, now.Add(900*time.Millisecond))

	assert.False(t, ts.Expire(now.Add(1500*time.Millisecond)))
	assert.Len(t, ts.Active(now.Add(1500*time.Millisecond)), 1)
	assert.Equal(t, 1, ts.Len(), "renewal never duplicates a user")
}

func TestBackoff_DoublesAndCaps(t *testing.T) {
	var b Backoff

	assert.Equal(t, time.Second, b.Next())
	assert.Equal(t, 2*time.Second, b.Next())
	assert.Equal(t, 4*time.Second, b.Next())
	b.Next()
	b.Next()
	assert.Equal(t, 30*time.Second, b.Next())
	assert.Equal(t, 30*time.Second, b.Next(), "delay stays capped")

	b.Reset()
	assert.Equal(t, time.Second, b.Next())
}
