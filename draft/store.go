package draft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tuneport/model"
)

// ErrNotFound is returned when a draft id is unknown. Corrupted stored
// entries are reported the same way: the wizard degrades to a fresh start
// instead of crashing.
var ErrNotFound = errors.New("draft not found")

// Store persists in-progress release drafts, scoped per user.
//
// Save is an idempotent upsert: writing the same content twice leaves the
// stored draft unchanged apart from its UpdatedAt stamp. Delete is a no-op
// for absent ids. Last write wins; there is no merge.
type Store interface {
	Save(ctx context.Context, d *model.ReleaseDraft) error
	Load(ctx context.Context, id string) (*model.ReleaseDraft, error)
	Delete(ctx context.Context, id string) error
	UserDrafts(ctx context.Context, userID int64) ([]model.DraftSummary, error)
}

// CreateDraftID returns a fresh draft identifier. Time-based uniqueness is
// enough: the store serves a single client, there is no central allocator.
func CreateDraftID() string {
	return fmt.Sprintf("draft_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
