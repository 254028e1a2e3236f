package domain

import (
	"testing"
	"time"
)

func TestGroupActivities_Empty(t *testing.T) {
	if got := GroupActivities(nil); got != nil {
		t.Errorf("GroupActivities(nil) = %v, want nil", got)
	}
}

func TestGroupActivities_SplitsOnActorDayAndGap(t *testing.T) {
	alice := User{ID: "u-1", Name: "Alice"}
	bob := User{ID: "u-2", Name: "Bob"}
	base := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)

	entries := []Activity{
		{ID: "a-1", Actor: alice, Action: "renamed", At: base},
		{ID: "a-2", Actor: alice, Action: "set priority", At: base.Add(30 * time.Minute)},
		// Gap over an hour splits the group even for the same actor/day.
		{ID: "a-3", Actor: alice, Action: "commented", At: base.Add(2 * time.Hour)},
		// Different actor splits.
		{ID: "a-4", Actor: bob, Action: "assigned", At: base.Add(2*time.Hour + 5*time.Minute)},
		// Next day splits.
		{ID: "a-5", Actor: bob, Action: "completed", At: base.Add(24 * time.Hour)},
	}

	groups := GroupActivities(entries)

	if len(groups) != 4 {
		t.Fatalf("got %d groups, want 4", len(groups))
	}

	wantSizes := []int{2, 1, 1, 1}
	wantActors := []string{"u-1", "u-1", "u-2", "u-2"}
	for i, g := range groups {
		if len(g.Entries) != wantSizes[i] {
			t.Errorf("group %d has %d entries, want %d", i, len(g.Entries), wantSizes[i])
		}
		if g.Actor.ID != wantActors[i] {
			t.Errorf("group %d actor = %s, want %s", i, g.Actor.ID, wantActors[i])
		}
	}
}

func TestGroupActivities_OrdersChronologically(t *testing.T) {
	alice := User{ID: "u-1"}
	base := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)

	entries := []Activity{
		{ID: "a-2", Actor: alice, At: base.Add(10 * time.Minute)},
		{ID: "a-1", Actor: alice, At: base},
	}

	groups := GroupActivities(entries)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if groups[0].Entries[0].ID != "a-1" {
		t.Errorf("entries not reordered chronologically: first = %s", groups[0].Entries[0].ID)
	}
	// Input must not be mutated.
	if entries[0].ID != "a-2" {
		t.Error("input slice was mutated")
	}
}
