package domain

import (
	"sort"
	"time"
)

// activityGapLimit is the largest gap between two entries that still lands
// them in the same journal group.
const activityGapLimit = time.Hour

// Activity is one immutable entry of a task's activity journal.
type Activity struct {
	ID     string    `json:"id"`
	Actor  User      `json:"actor"`
	Action string    `json:"action"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

// ActivityGroup is a run of journal entries by one actor on one day with no
// gap longer than an hour between consecutive entries.
type ActivityGroup struct {
	Actor   User
	Day     time.Time // midnight of the group's calendar day
	Entries []Activity
}

// GroupActivities folds a journal into display groups. Entries are ordered
// chronologically first; the journal itself is never mutated.
func GroupActivities(entries []Activity) []ActivityGroup {
	if len(entries) == 0 {
		return nil
	}

	sorted := make([]Activity, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].At.Before(sorted[j].At)
	})

	var groups []ActivityGroup
	for _, e := range sorted {
		day := e.At.Truncate(24 * time.Hour)
		if len(groups) > 0 {
			g := &groups[len(groups)-1]
			last := g.Entries[len(g.Entries)-1]
			if g.Actor.ID == e.Actor.ID && g.Day.Equal(day) && e.At.Sub(last.At) <= activityGapLimit {
				g.Entries = append(g.Entries, e)
				continue
			}
		}
		groups = append(groups, ActivityGroup{
			Actor:   e.Actor,
			Day:     day,
			Entries: []Activity{e},
		})
	}
	return groups
}
