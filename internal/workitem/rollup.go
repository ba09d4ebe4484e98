package workitem

import (
	"cmp"
	"slices"
)

// RecentLimit is how many items Dashboard.RecentItems holds.
const RecentLimit = 5

// StatusCount is one entry of Dashboard.ItemsByStatus.
type StatusCount struct {
	Status Status `json:"status"`
	Count  int    `json:"count"`
}

// TypeHours is one entry of Dashboard.TimeSpentByType.
type TypeHours struct {
	Type  Type    `json:"type"`
	Hours float64 `json:"hours"`
}

// Dashboard is a snapshot derived from a user's items.
type Dashboard struct {
	TotalItems      int `json:"total_items"`
	CompletedItems  int `json:"completed_items"`
	InProgressItems int `json:"in_progress_items"`
	PlannedItems    int `json:"planned_items"`

	// AverageCompletionTime is the mean hours spent on completed items.
	AverageCompletionTime float64 `json:"average_completion_time"`

	ItemsByStatus   []StatusCount `json:"items_by_status"`
	RecentItems     []Item        `json:"recent_items"`
	TimeSpentByType []TypeHours   `json:"time_spent_by_type"`
}

// Rollup recomputes the dashboard from items. Items are assumed valid.
func Rollup(items []Item) Dashboard {
	counts := make(map[Status]int, 3)
	var completedHours float64
	var byType []TypeHours

	for _, it := range items {
		counts[it.Status]++
		if it.TimeSpent == nil || *it.TimeSpent <= 0 {
			continue
		}
		if it.Status == StatusCompleted {
			completedHours += *it.TimeSpent
		}
		i := slices.IndexFunc(byType, func(th TypeHours) bool { return th.Type == it.Type })
		if i < 0 {
			byType = append(byType, TypeHours{Type: it.Type, Hours: *it.TimeSpent})
		} else {
			byType[i].Hours += *it.TimeSpent
		}
	}

	d := Dashboard{
		TotalItems:            len(items),
		CompletedItems:        counts[StatusCompleted],
		InProgressItems:       counts[StatusInProgress],
		PlannedItems:          counts[StatusPlanned],
		AverageCompletionTime: completedHours / float64(max(1, counts[StatusCompleted])),
		TimeSpentByType:       byType,
	}
	if d.TimeSpentByType == nil {
		d.TimeSpentByType = []TypeHours{}
	}
	for _, s := range AllStatuses() {
		d.ItemsByStatus = append(d.ItemsByStatus, StatusCount{Status: s, Count: counts[s]})
	}

	recent := make([]Item, len(items))
	for i, it := range items {
		recent[i] = it.clone()
	}
	slices.SortFunc(recent, func(a, b Item) int {
		if c := b.StartDate.Compare(a.StartDate); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}
	d.RecentItems = recent
	return d
}
