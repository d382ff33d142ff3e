package draft

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"tuneport/model"
)

// MemoryStore is an in-process Store used in tests and local development.
// Drafts are kept as JSON so load/save round trips match the Redis store.
type MemoryStore struct {
	mu     sync.Mutex
	drafts map[string][]byte
	owners map[string]int64
}

// NewMemoryStore creates an empty in-memory draft store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		drafts: make(map[string][]byte),
		owners: make(map[string]int64),
	}
}

// Save upserts the draft, stamping UpdatedAt.
func (s *MemoryStore) Save(ctx context.Context, d *model.ReleaseDraft) error {
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now

	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[d.ID] = raw
	s.owners[d.ID] = d.UserID
	return nil
}

// Load returns the draft or ErrNotFound.
func (s *MemoryStore) Load(ctx context.Context, id string) (*model.ReleaseDraft, error) {
	s.mu.Lock()
	raw, ok := s.drafts[id]
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}

	var d model.ReleaseDraft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, ErrNotFound
	}
	return &d, nil
}

// Delete removes the draft. No-op for unknown ids.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
	delete(s.owners, id)
	return nil
}

// UserDrafts returns the user's draft summaries, newest first.
func (s *MemoryStore) UserDrafts(ctx context.Context, userID int64) ([]model.DraftSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var summaries []model.DraftSummary
	for id, owner := range s.owners {
		if owner != userID {
			continue
		}
		var d model.ReleaseDraft
		if err := json.Unmarshal(s.drafts[id], &d); err != nil {
			continue
		}
		summaries = append(summaries, d.Summary())
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}
