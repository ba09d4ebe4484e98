// Package workitem keeps each user's log of work items and rolls it up into
// a dashboard.
package workitem

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("work item not found")
	ErrInvalid  = errors.New("invalid work item")
)

// Type is the kind of work an item records.
type Type string

const (
	TypeFeature       Type = "feature"
	TypeBug           Type = "bug"
	TypeImprovement   Type = "improvement"
	TypeDocumentation Type = "documentation"
)

// AllTypes returns all item types in display order.
func AllTypes() []Type {
	return []Type{TypeFeature, TypeBug, TypeImprovement, TypeDocumentation}
}

// Status is where an item stands.
type Status string

const (
	StatusCompleted  Status = "completed"
	StatusInProgress Status = "in_progress"
	StatusPlanned    Status = "planned"
)

// AllStatuses returns all statuses in dashboard order.
func AllStatuses() []Status {
	return []Status{StatusCompleted, StatusInProgress, StatusPlanned}
}

// Label returns a human-readable status.
func (s Status) Label() string {
	switch s {
	case StatusCompleted:
		return "Completed"
	case StatusInProgress:
		return "In Progress"
	case StatusPlanned:
		return "Planned"
	default:
		return string(s)
	}
}

const (
	MinComplexity = 1
	MaxComplexity = 5
)

// Comment is a note attached to a work item.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Item is one logged piece of work.
type Item struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Technologies   []string   `json:"technologies"`
	Type           Type       `json:"type"`
	Status         Status     `json:"status"`
	StartDate      time.Time  `json:"start_date"`
	CompletionDate *time.Time `json:"completion_date,omitempty"`
	Complexity     int        `json:"complexity"`
	RelatedSkills  []string   `json:"related_skills"`
	TimeSpent      *float64   `json:"time_spent,omitempty"` // hours
	Comments       []Comment  `json:"comments,omitempty"`
}

// Validate reports every problem with the item, wrapped in ErrInvalid.
func (it Item) Validate() error {
	var errs []string
	if strings.TrimSpace(it.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(it.Description) == "" {
		errs = append(errs, "description is required")
	}
	if !slices.Contains(AllTypes(), it.Type) {
		errs = append(errs, fmt.Sprintf("unknown type %q", it.Type))
	}
	if !slices.Contains(AllStatuses(), it.Status) {
		errs = append(errs, fmt.Sprintf("unknown status %q", it.Status))
	}
	if it.Complexity < MinComplexity || it.Complexity > MaxComplexity {
		errs = append(errs, fmt.Sprintf("complexity must be in [%d, %d], got %d", MinComplexity, MaxComplexity, it.Complexity))
	}
	if it.TimeSpent != nil && *it.TimeSpent < 0 {
		errs = append(errs, "time spent must be >= 0")
	}
	if it.CompletionDate != nil && it.CompletionDate.Before(it.StartDate) {
		errs = append(errs, "completion date is before start date")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(errs, "; "))
	}
	return nil
}

func (it Item) clone() Item {
	it.Technologies = slices.Clone(it.Technologies)
	it.RelatedSkills = slices.Clone(it.RelatedSkills)
	it.Comments = slices.Clone(it.Comments)
	if it.CompletionDate != nil {
		d := *it.CompletionDate
		it.CompletionDate = &d
	}
	if it.TimeSpent != nil {
		h := *it.TimeSpent
		it.TimeSpent = &h
	}
	return it
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title          *string    `json:"title,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Technologies   []string   `json:"technologies,omitempty"`
	Type           *Type      `json:"type,omitempty"`
	Status         *Status    `json:"status,omitempty"`
	CompletionDate *time.Time `json:"completion_date,omitempty"`
	Complexity     *int       `json:"complexity,omitempty"`
	RelatedSkills  []string   `json:"related_skills,omitempty"`
	TimeSpent      *float64   `json:"time_spent,omitempty"`
}

// apply returns a copy of it with p applied. Moving to completed stamps the
// completion date when none is set.
func (p Patch) apply(it Item, now time.Time) Item {
	out := it.clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Technologies != nil {
		out.Technologies = slices.Clone(p.Technologies)
	}
	if p.Type != nil {
		out.Type = *p.Type
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.CompletionDate != nil {
		d := *p.CompletionDate
		out.CompletionDate = &d
	}
	if p.Complexity != nil {
		out.Complexity = *p.Complexity
	}
	if p.RelatedSkills != nil {
		out.RelatedSkills = slices.Clone(p.RelatedSkills)
	}
	if p.TimeSpent != nil {
		h := *p.TimeSpent
		out.TimeSpent = &h
	}
	if out.Status == StatusCompleted && out.CompletionDate == nil {
		d := now
		out.CompletionDate = &d
	}
	return out
}
