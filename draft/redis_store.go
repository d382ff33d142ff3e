package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"

	"tuneport/logger"
	"tuneport/model"
)

// RedisStore keeps each draft as a JSON value plus a per-user summary hash
// used for listings, so listing drafts never loads full track data.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a draft store backed by the given Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func draftKey(id string) string {
	return fmt.Sprintf("release_draft:%s", id)
}

func userDraftsKey(userID int64) string {
	return fmt.Sprintf("release_drafts:user:%d", userID)
}

// Save upserts the draft and its summary entry, stamping UpdatedAt.
func (s *RedisStore) Save(ctx context.Context, d *model.ReleaseDraft) error {
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now

	draftJSON, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal draft %s: %w", d.ID, err)
	}
	summaryJSON, err := json.Marshal(d.Summary())
	if err != nil {
		return fmt.Errorf("failed to marshal draft summary %s: %w", d.ID, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, draftKey(d.ID), draftJSON, 0)
	pipe.HSet(ctx, userDraftsKey(d.UserID), d.ID, summaryJSON)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save draft %s: %w", d.ID, err)
	}
	return nil
}

// Load returns the draft or ErrNotFound. A corrupted entry is treated as
// not found, never as a failure that would crash the wizard.
func (s *RedisStore) Load(ctx context.Context, id string) (*model.ReleaseDraft, error) {
	raw, err := s.client.Get(ctx, draftKey(id)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft %s: %w", id, err)
	}

	var d model.ReleaseDraft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		logger.Warn("corrupted draft entry, treating as not found",
			logger.String("draftId", id),
			logger.ErrorField(err),
		)
		return nil, ErrNotFound
	}
	return &d, nil
}

// Delete removes the draft and its summary entry. No-op for unknown ids.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	// The summary lives in the owner's hash, so find the owner first.
	d, err := s.Load(ctx, id)
	if err == ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, draftKey(id))
	pipe.HDel(ctx, userDraftsKey(d.UserID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", id, err)
	}
	return nil
}

// UserDrafts returns the user's draft summaries, newest first. Corrupted
// summary entries are skipped.
func (s *RedisStore) UserDrafts(ctx context.Context, userID int64) ([]model.DraftSummary, error) {
	entries, err := s.client.HGetAll(ctx, userDraftsKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts for user %d: %w", userID, err)
	}

	summaries := make([]model.DraftSummary, 0, len(entries))
	for id, raw := range entries {
		var sum model.DraftSummary
		if err := json.Unmarshal([]byte(raw), &sum); err != nil {
			logger.Warn("corrupted draft summary entry, skipping",
				logger.String("draftId", id),
				logger.ErrorField(err),
			)
			continue
		}
		summaries = append(summaries, sum)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}
