package workitem

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/fido/internal/store"
	"github.com/oklog/ulid/v2"
)

const keyPrefix = "workitems/"

// Key returns the KV key holding userID's item list.
func Key(userID string) string { return keyPrefix + userID }

// Service logs and updates work items. Each user's list is stored as one KV
// value; concurrent writers from different processes resolve last writer
// wins.
type Service struct {
	kv  store.KV
	now func() time.Time

	// Serializes read-modify-write cycles within this process.
	mu sync.Mutex
}

// NewService creates a work-item service over kv.
func NewService(kv store.KV) *Service {
	return &Service{kv: kv, now: time.Now}
}

// Log validates and appends a new item, assigning its ID and, when unset,
// its start date.
func (s *Service) Log(ctx context.Context, item Item) (Item, error) {
	if strings.TrimSpace(item.UserID) == "" {
		return Item{}, fmt.Errorf("%w: user ID is required", ErrInvalid)
	}
	item = item.clone()
	item.ID = ulid.Make().String()
	if item.StartDate.IsZero() {
		item.StartDate = s.now().UTC()
	}
	if item.Status == StatusCompleted && item.CompletionDate == nil {
		d := s.now().UTC()
		item.CompletionDate = &d
	}
	if err := item.Validate(); err != nil {
		return Item{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx, item.UserID)
	if err != nil {
		return Item{}, err
	}
	if err := s.save(ctx, item.UserID, append(items, item)); err != nil {
		return Item{}, err
	}
	return item.clone(), nil
}

// Update applies patch to one of userID's items.
func (s *Service) Update(ctx context.Context, userID, id string, patch Patch) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx, userID)
	if err != nil {
		return Item{}, err
	}
	for i, it := range items {
		if it.ID != id {
			continue
		}
		updated := patch.apply(it, s.now().UTC())
		if err := updated.Validate(); err != nil {
			return Item{}, err
		}
		items[i] = updated
		if err := s.save(ctx, userID, items); err != nil {
			return Item{}, err
		}
		return updated.clone(), nil
	}
	return Item{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// AddComment appends a comment to one of userID's items.
func (s *Service) AddComment(ctx context.Context, userID, id, author, content string) (Comment, error) {
	if strings.TrimSpace(content) == "" {
		return Comment{}, fmt.Errorf("%w: comment is empty", ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx, userID)
	if err != nil {
		return Comment{}, err
	}
	for i := range items {
		if items[i].ID != id {
			continue
		}
		c := Comment{
			ID:        ulid.Make().String(),
			UserID:    author,
			Content:   content,
			Timestamp: s.now().UTC(),
		}
		items[i].Comments = append(items[i].Comments, c)
		if err := s.save(ctx, userID, items); err != nil {
			return Comment{}, err
		}
		return c, nil
	}
	return Comment{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// List returns userID's items in the order they were logged.
func (s *Service) List(ctx context.Context, userID string) ([]Item, error) {
	return s.load(ctx, userID)
}

// Dashboard rolls up userID's items.
func (s *Service) Dashboard(ctx context.Context, userID string) (Dashboard, error) {
	items, err := s.load(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}
	return Rollup(items), nil
}

// Users returns every user with a stored item list.
func (s *Service) Users(ctx context.Context) ([]string, error) {
	keys, err := s.kv.List(ctx, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list work item users: %w", err)
	}
	users := make([]string, len(keys))
	for i, k := range keys {
		users[i] = strings.TrimPrefix(k, keyPrefix)
	}
	return users, nil
}

func (s *Service) load(ctx context.Context, userID string) ([]Item, error) {
	raw, ok, err := s.kv.Get(ctx, Key(userID))
	if err != nil {
		return nil, fmt.Errorf("load work items for %s: %w", userID, err)
	}
	if !ok {
		return []Item{}, nil
	}
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode work items for %s: %w", userID, err)
	}
	return items, nil
}

func (s *Service) save(ctx context.Context, userID string, items []Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode work items: %w", err)
	}
	if err := s.kv.Put(ctx, Key(userID), raw); err != nil {
		return fmt.Errorf("save work items for %s: %w", userID, err)
	}
	return nil
}
