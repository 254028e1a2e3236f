package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskwire/taskwire/internal/domain"
)

func task(id string, name string) domain.Task {
	return domain.Task{ID: domain.ConfirmedID(id), Name: name}
}

func TestStore_Replace_Dedupes(t *testing.T) {
	s := New(25)

	s.Replace([]domain.Task{
		task("t-1", "first"),
		task("t-2", "second"),
		task("t-1", "first again"), // later entry wins
	}, 10)

	require.Equal(t, 2, s.Len())
	got, ok := s.GetByKey("t-1")
	require.True(t, ok)
	assert.Equal(t, "first again", got.Name)
	assert.Equal(t, 10, s.Total())
	assert.Equal(t, 1, s.Page())
	assert.True(t, s.HasMore())
}

func TestStore_Append_NeverDuplicates(t *testing.T) {
	s := New(25)
	s.Replace([]domain.Task{task("t-1", "one"), task("t-2", "two")}, 3)

	s.Append([]domain.Task{task("t-2", "two updated"), task("t-3", "three")})

	require.Equal(t, 3, s.Len())
	got, ok := s.GetByKey("t-2")
	require.True(t, ok)
	assert.Equal(t, "two updated", got.Name, "last write wins on fields")
	assert.Equal(t, 2, s.Page())
	assert.False(t, s.HasMore())

	// Appending the same page again must not grow the list.
	s.Append([]domain.Task{task("t-3", "three")})
	assert.Equal(t, 3, s.Len())
}

func TestStore_Patch_ByEitherIdentity(t *testing.T) {
	s := New(25)
	mixed := domain.Task{ID: domain.TaskID{Server: "srv-1", Local: "local-1"}, Name: "old"}
	s.Replace([]domain.Task{mixed}, 1)

	name := "via server id"
	require.True(t, s.Patch(domain.ConfirmedID("srv-1"), TaskPatch{Name: &name}))
	got, _ := s.GetByKey("srv-1")
	assert.Equal(t, "via server id", got.Name)

	name2 := "via local key"
	require.True(t, s.Patch(domain.ProvisionalID("local-1"), TaskPatch{Name: &name2}))
	got, _ = s.GetByKey("srv-1")
	assert.Equal(t, "via local key", got.Name)

	assert.False(t, s.Patch(domain.ConfirmedID("nope"), TaskPatch{Name: &name}))
}

func TestStore_Patch_Idempotent(t *testing.T) {
	s := New(25)
	s.Replace([]domain.Task{task("t-1", "one")}, 1)

	pri := domain.PriorityHigh
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	patch := TaskPatch{Priority: &pri, DueDate: &due}

	s.Patch(domain.ConfirmedID("t-1"), patch)
	once, _ := s.GetByKey("t-1")
	s.Patch(domain.ConfirmedID("t-1"), patch)
	twice, _ := s.GetByKey("t-1")

	assert.Equal(t, once, twice, "patch must be idempotent")
}

func TestStore_Patch_MergesOpenTaskIdentically(t *testing.T) {
	s := New(25)
	s.Replace([]domain.Task{task("t-1", "one")}, 1)
	require.True(t, s.Open(domain.ConfirmedID("t-1")))

	name := "renamed"
	s.Patch(domain.ConfirmedID("t-1"), TaskPatch{Name: &name})

	open, ok := s.OpenTask()
	require.True(t, ok)
	assert.Equal(t, "renamed", open.Name, "open copy must never diverge from the list")
}

func TestStore_Patch_DualWritesLegacyAssignee(t *testing.T) {
	s := New(25)
	s.Replace([]domain.Task{task("t-1", "one")}, 1)

	assignees := []domain.User{{ID: "u-2", Name: "Bob"}, {ID: "u-3", Name: "Cara"}}
	s.Patch(domain.ConfirmedID("t-1"), TaskPatch{Assignees: &assignees})

	got, _ := s.GetByKey("t-1")
	require.NotNil(t, got.Assignee)
	assert.Equal(t, "u-2", got.Assignee.ID)

	empty := []domain.User{}
	s.Patch(domain.ConfirmedID("t-1"), TaskPatch{Assignees: &empty})
	got, _ = s.GetByKey("t-1")
	assert.Nil(t, got.Assignee)
}

func TestStore_Remove(t *testing.T) {
	s := New(25)
	s.Replace([]domain.Task{task("t-1", "one"), task("t-2", "two")}, 2)
	s.ToggleSelect("t-1")
	s.Open(domain.ConfirmedID("t-1"))

	require.True(t, s.Remove(domain.ConfirmedID("t-1")))

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, s.Total())
	assert.False(t, s.IsSelected("t-1"), "selection cleared")
	_, open := s.OpenTask()
	assert.False(t, open, "open pointer cleared")

	assert.False(t, s.Remove(domain.ConfirmedID("t-1")), "second remove is a no-op")
}

func TestStore_Remove_ByPrimaryIdentityOnly(t *testing.T) {
	s := New(25)
	provisional := domain.Task{ID: domain.ProvisionalID("local-1"), Name: "draft"}
	s.Replace([]domain.Task{provisional}, 1)

	require.True(t, s.Remove(domain.ProvisionalID("local-1")))
	assert.Equal(t, 0, s.Len())
}

func TestStore_Confirm_ExchangesIdentityEverywhere(t *testing.T) {
	s := New(25)
	provisional := domain.Task{ID: domain.ProvisionalID("local-1"), Name: "draft"}
	s.Insert(provisional)
	s.ToggleSelect("local-1")
	s.Open(domain.ProvisionalID("local-1"))

	require.True(t, s.Confirm("local-1", "srv-7"))

	got, ok := s.GetByKey("srv-7")
	require.True(t, ok)
	assert.True(t, got.ID.Confirmed())

	assert.False(t, s.IsSelected("local-1"), "no selection entry references the placeholder")
	assert.True(t, s.IsSelected("srv-7"))
	assert.Equal(t, "srv-7", s.OpenKey(), "open pointer re-keyed")

	open, _ := s.OpenTask()
	assert.True(t, open.ID.Confirmed())

	assert.False(t, s.Confirm("local-1", "srv-8"), "already confirmed")
}

func TestStore_Insert_AddsToTop(t *testing.T) {
	s := New(25)
	s.Replace([]domain.Task{task("t-1", "one")}, 1)
	s.Insert(domain.Task{ID: domain.ProvisionalID("local-1"), Name: ""})

	assert.Equal(t, "local-1", s.Tasks()[0].ID.Key())
	assert.Equal(t, 2, s.Total())
}

func TestStore_Subtasks(t *testing.T) {
	s := New(25)
	parent := domain.ConfirmedID("t-1")
	sub := task("t-2", "sub")
	sub.Parent = &parent
	s.Replace([]domain.Task{task("t-1", "parent"), sub, task("t-3", "other")}, 3)

	subs := s.Subtasks(parent)
	require.Len(t, subs, 1)
	assert.Equal(t, "t-2", subs[0].ID.Key())
}

func TestStore_Replace_KeepsOpenPanelWhenTaskDropsOut(t *testing.T) {
	s := New(25)
	s.Replace([]domain.Task{task("t-1", "one")}, 1)
	s.Open(domain.ConfirmedID("t-1"))

	// A refetch that no longer contains the open task must not close it.
	s.Replace([]domain.Task{task("t-2", "two")}, 1)

	open, ok := s.OpenTask()
	require.True(t, ok)
	assert.Equal(t, "t-1", open.ID.Key())
}
