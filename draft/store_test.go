package draft

import (
	"context"
	"strings"
	"testing"
	"time"

	"tuneport/model"
)

func testDraft(id string, userID int64) *model.ReleaseDraft {
	return &model.ReleaseDraft{
		ID:          id,
		UserID:      userID,
		ReleaseType: model.ReleaseTypeSingle,
		CurrentStep: 2,
		ReleaseName: "Тестовый релиз",
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	d := testDraft("draft_1_a", 7)
	if err := store.Save(ctx, d); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx, d.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ReleaseName != d.ReleaseName || got.UserID != d.UserID || got.CurrentStep != d.CurrentStep {
		t.Fatalf("loaded draft %+v does not match saved %+v", got, d)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("Save did not stamp timestamps")
	}
}

func TestSaveIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	d := testDraft("draft_1_b", 7)
	if err := store.Save(ctx, d); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if err := store.Save(ctx, d); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := store.Load(ctx, d.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ReleaseName != d.ReleaseName || got.CurrentStep != d.CurrentStep {
		t.Fatal("repeated save changed the stored draft")
	}

	summaries, err := store.UserDrafts(ctx, 7)
	if err != nil {
		t.Fatalf("UserDrafts: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("len(summaries) = %d after double save, want 1", len(summaries))
	}
}

func TestDeleteIsFinal(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	d := testDraft("draft_1_c", 7)
	if err := store.Save(ctx, d); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(ctx, d.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := store.Load(ctx, d.ID); err != ErrNotFound {
		t.Fatalf("Load after delete = %v, want ErrNotFound", err)
	}
	summaries, err := store.UserDrafts(ctx, 7)
	if err != nil {
		t.Fatalf("UserDrafts: %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("deleted draft still listed: %+v", summaries)
	}

	// Deleting an absent draft is a no-op, not an error.
	if err := store.Delete(ctx, d.ID); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if err := store.Delete(ctx, "draft_never_existed"); err != nil {
		t.Fatalf("Delete of unknown id: %v", err)
	}
}

func TestUserDraftsNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, id := range []string{"draft_1_old", "draft_2_mid", "draft_3_new"} {
		if err := store.Save(ctx, testDraft(id, 7)); err != nil {
			t.Fatalf("Save(%s): %v", id, err)
		}
		time.Sleep(5 * time.Millisecond)
	}
	// Another user's draft must not leak into the listing.
	if err := store.Save(ctx, testDraft("draft_4_other", 8)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	summaries, err := store.UserDrafts(ctx, 7)
	if err != nil {
		t.Fatalf("UserDrafts: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("len(summaries) = %d, want 3", len(summaries))
	}
	want := []string{"draft_3_new", "draft_2_mid", "draft_1_old"}
	for i, summary := range summaries {
		if summary.ID != want[i] {
			t.Errorf("summaries[%d] = %s, want %s", i, summary.ID, want[i])
		}
	}
}

func TestSummaryFallbackName(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	d := testDraft("draft_1_d", 7)
	d.ReleaseName = ""
	if err := store.Save(ctx, d); err != nil {
		t.Fatalf("Save: %v", err)
	}

	summaries, err := store.UserDrafts(ctx, 7)
	if err != nil {
		t.Fatalf("UserDrafts: %v", err)
	}
	if summaries[0].ReleaseName != "Новый релиз" {
		t.Fatalf("unnamed draft listed as %q", summaries[0].ReleaseName)
	}
}

func TestCreateDraftID(t *testing.T) {
	id := CreateDraftID()
	if !strings.HasPrefix(id, "draft_") {
		t.Fatalf("id %q lacks draft_ prefix", id)
	}
	if parts := strings.Split(id, "_"); len(parts) != 3 || parts[1] == "" || len(parts[2]) != 8 {
		t.Fatalf("id %q is not draft_<millis>_<suffix>", id)
	}
	if CreateDraftID() == id {
		t.Error("two generated ids collided")
	}
}
