package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"tuneport/core/signature"
	"tuneport/core/wizard"
	"tuneport/draft"
	"tuneport/model"
)

// submitReadyDraft seeds a draft that passes every wizard gate and sits on
// the contract step, ready for signing.
func submitReadyDraft(t *testing.T, env *testEnv, userID int64) *model.ReleaseDraft {
	t.Helper()
	yes := false
	preview := 30
	d := &model.ReleaseDraft{
		ID:            draft.CreateDraftID(),
		UserID:        userID,
		ReleaseType:   model.ReleaseTypeSingle,
		CurrentStep:   wizard.LastStep,
		ReleaseName:   "Ночной рейс",
		ArtistName:    "NOVA",
		ReleaseDate:   time.Now().AddDate(0, 1, 0).Format("2006-01-02"),
		Genre:         "Поп",
		TitleLanguage: "Русский",
		CoverURL:      "http://media.test/covers/c.jpg",
		Requisites: model.ContractRequisites{
			FullName:       "Иванов Иван Иванович",
			Citizenship:    "Российская Федерация",
			PassportData:   "4510 123456",
			InnSwift:       "770812345678",
			BankRequisites: "р/с 40817810000000000001 в Банке",
			StageName:      "NOVA",
			Email:          "nova@example.com",
		},
		Tracks: []model.Track{{
			TrackNumber:     1,
			Title:           "Ночной рейс",
			FileURL:         "http://media.test/audio/a.wav",
			FileName:        "night.wav",
			FileSize:        1024,
			Composer:        "Иванов И.",
			AuthorMusic:     "Иванов И.",
			AuthorLyrics:    "Иванов И.",
			AuthorPhonogram: "Иванов И.",
			LanguageAudio:   "Русский",
			ExplicitContent: &yes,
			LyricsText:      "Текст песни",
			PreviewStart:    &preview,
		}},
	}
	if err := env.draftStore.Save(context.Background(), d); err != nil {
		t.Fatalf("seed draft: %v", err)
	}
	return d
}

// drawnSignature produces a real signed-pad data URL the way the client does.
func drawnSignature(t *testing.T) string {
	t.Helper()
	pad := signature.NewPad(600, 160)
	pad.StrokeStart(50, 80)
	pad.StrokeTo(200, 60)
	pad.StrokeTo(350, 100)
	pad.StrokeEnd()
	dataURL, err := pad.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	return dataURL
}

func TestSubmitCreatesReleaseAndDeletesDraft(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, 7, model.RoleArtist)
	d := submitReadyDraft(t, env, 7)

	rec := env.do(t, http.MethodPost, "/api/drafts/"+d.ID+"/submit", token, map[string]string{
		"signatureDataUrl": drawnSignature(t),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d: %s", rec.Code, rec.Body.String())
	}

	var rel model.Release
	decodeBody(t, rec, &rel)
	if rel.Status != model.ReleaseStatusPending {
		t.Errorf("submitted release status = %q", rel.Status)
	}
	if !strings.HasPrefix(rel.ContractNumber, "420-") {
		t.Errorf("contract number = %q", rel.ContractNumber)
	}
	if rel.ContractPDFURL == "" || rel.SignatureURL == "" {
		t.Errorf("release missing archived artifacts: %+v", rel)
	}
	if len(rel.Tracks) != 1 {
		t.Fatalf("release carries %d tracks", len(rel.Tracks))
	}

	// Exactly one release record and one of each archived artifact.
	if env.releaseRepo.creates != 1 {
		t.Errorf("Create called %d times", env.releaseRepo.creates)
	}
	if env.uploader.signatures != 1 || env.uploader.contracts != 1 {
		t.Errorf("uploads: signatures=%d contracts=%d", env.uploader.signatures, env.uploader.contracts)
	}

	// The draft is gone once the release exists.
	if _, err := env.draftStore.Load(context.Background(), d.ID); err != draft.ErrNotFound {
		t.Fatalf("draft after submit: err = %v, want ErrNotFound", err)
	}
}

func TestSubmitRequiresSignature(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, 7, model.RoleArtist)
	d := submitReadyDraft(t, env, 7)

	rec := env.do(t, http.MethodPost, "/api/drafts/"+d.ID+"/submit", token, map[string]string{})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unsigned submit status = %d: %s", rec.Code, rec.Body.String())
	}
	if env.releaseRepo.creates != 0 {
		t.Errorf("Create called %d times on unsigned submit", env.releaseRepo.creates)
	}
	if _, err := env.draftStore.Load(context.Background(), d.ID); err != nil {
		t.Fatalf("draft must survive an unsigned submit: %v", err)
	}
}

func TestSubmitBlockedBeforeLastStep(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, 7, model.RoleArtist)
	d := submitReadyDraft(t, env, 7)
	d.CurrentStep = wizard.StepReview
	if err := env.draftStore.Save(context.Background(), d); err != nil {
		t.Fatalf("Save: %v", err)
	}

	rec := env.do(t, http.MethodPost, "/api/drafts/"+d.ID+"/submit", token, map[string]string{
		"signatureDataUrl": drawnSignature(t),
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("early submit status = %d: %s", rec.Code, rec.Body.String())
	}
	if env.releaseRepo.creates != 0 {
		t.Errorf("Create called %d times before the contract step", env.releaseRepo.creates)
	}
}

func TestSubmitKeepsDraftWhenCreateFails(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, 7, model.RoleArtist)
	d := submitReadyDraft(t, env, 7)
	env.releaseRepo.createErr = errors.New("db down")

	rec := env.do(t, http.MethodPost, "/api/drafts/"+d.ID+"/submit", token, map[string]string{
		"signatureDataUrl": drawnSignature(t),
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("failed submit status = %d: %s", rec.Code, rec.Body.String())
	}
	if _, err := env.draftStore.Load(context.Background(), d.ID); err != nil {
		t.Fatalf("draft must survive a failed create: %v", err)
	}

	// The retry goes through once the repository recovers.
	env.releaseRepo.createErr = nil
	rec = env.do(t, http.MethodPost, "/api/drafts/"+d.ID+"/submit", token, map[string]string{
		"signatureDataUrl": drawnSignature(t),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("retried submit status = %d: %s", rec.Code, rec.Body.String())
	}
	if len(env.releaseRepo.releases) != 1 {
		t.Fatalf("stored releases = %d after retry", len(env.releaseRepo.releases))
	}
}

func TestSubmitKeepsDraftWhenUploadFails(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, 7, model.RoleArtist)
	d := submitReadyDraft(t, env, 7)
	env.uploader.failErr = errors.New("bucket unreachable")

	rec := env.do(t, http.MethodPost, "/api/drafts/"+d.ID+"/submit", token, map[string]string{
		"signatureDataUrl": drawnSignature(t),
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("submit with dead storage status = %d: %s", rec.Code, rec.Body.String())
	}
	if env.releaseRepo.creates != 0 {
		t.Errorf("Create called %d times with dead storage", env.releaseRepo.creates)
	}
	if _, err := env.draftStore.Load(context.Background(), d.ID); err != nil {
		t.Fatalf("draft must survive a failed upload: %v", err)
	}
}
