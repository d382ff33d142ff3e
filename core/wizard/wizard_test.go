package wizard

import (
	"errors"
	"testing"
	"time"

	"tuneport/model"
)

func boolPtr(v bool) *bool { return &v }
func intPtr(v int) *int    { return &v }

func completeTrack(n int) model.Track {
	return model.Track{
		TrackNumber:     n,
		Title:           "Трек",
		FileURL:         "http://media/audio/track.wav",
		FileName:        "track.wav",
		FileSize:        1024,
		Composer:        "Иванов И. И.",
		AuthorMusic:     "Иванов И. И.",
		AuthorLyrics:    "Петров П. П.",
		AuthorPhonogram: "Иванов И. И.",
		LanguageAudio:   "Русский",
		ExplicitContent: boolPtr(false),
		LyricsText:      "текст",
		PreviewStart:    intPtr(30),
	}
}

// completeDraft returns a draft that passes every step gate for its type.
func completeDraft(rt model.ReleaseType, tracks int) *model.ReleaseDraft {
	d := &model.ReleaseDraft{
		ID:            "draft_1_test",
		UserID:        7,
		ReleaseType:   rt,
		CurrentStep:   FirstStep,
		ReleaseName:   "Ночной рейс",
		ArtistName:    "NOVA",
		ReleaseDate:   time.Now().AddDate(0, 1, 0).Format("2006-01-02"),
		Genre:         "Поп",
		TitleLanguage: "Русский",
		CoverURL:      "http://media/covers/cover.jpg",
		Requisites: model.ContractRequisites{
			FullName:       "Иванов Иван Иванович",
			Citizenship:    "Российская Федерация",
			PassportData:   "4509 123456",
			InnSwift:       "770708389012",
			BankRequisites: "р/с 40817810099910004312 в АО Банк",
			StageName:      "NOVA",
			Email:          "nova@example.com",
		},
	}
	for i := 0; i < tracks; i++ {
		d.Tracks = append(d.Tracks, completeTrack(i+1))
	}
	return d
}

func TestNewClampsStep(t *testing.T) {
	d := completeDraft(model.ReleaseTypeSingle, 1)
	d.CurrentStep = 99
	if got := New(d).Step(); got != LastStep {
		t.Fatalf("step clamped to %d, want %d", got, LastStep)
	}

	d.CurrentStep = -3
	if got := New(d).Step(); got != FirstStep {
		t.Fatalf("step clamped to %d, want %d", got, FirstStep)
	}
}

func TestNextBlockedWithoutReleaseType(t *testing.T) {
	d := &model.ReleaseDraft{CurrentStep: FirstStep}
	w := New(d)

	err := w.Next()
	var blocked *ErrStepBlocked
	if !errors.As(err, &blocked) {
		t.Fatalf("Next() = %v, want ErrStepBlocked", err)
	}
	if blocked.Hint == "" {
		t.Error("blocked step carries no hint")
	}
	if w.Step() != FirstStep {
		t.Errorf("blocked Next moved the step to %d", w.Step())
	}
}

func TestBasicInfoGate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *model.ReleaseDraft)
		ok     bool
	}{
		{"complete", func(d *model.ReleaseDraft) {}, true},
		{"empty name", func(d *model.ReleaseDraft) { d.ReleaseName = "" }, false},
		{"name too long", func(d *model.ReleaseDraft) {
			name := make([]rune, 101)
			for i := range name {
				name[i] = 'ж'
			}
			d.ReleaseName = string(name)
		}, false},
		{"name of exactly 100 runes", func(d *model.ReleaseDraft) {
			name := make([]rune, 100)
			for i := range name {
				name[i] = 'ж'
			}
			d.ReleaseName = string(name)
		}, true},
		{"no cover", func(d *model.ReleaseDraft) { d.CoverURL = "" }, false},
		{"date in the past", func(d *model.ReleaseDraft) { d.ReleaseDate = "2020-01-01" }, false},
		{"date today", func(d *model.ReleaseDraft) { d.ReleaseDate = time.Now().Format("2006-01-02") }, true},
		{"malformed date", func(d *model.ReleaseDraft) { d.ReleaseDate = "01.06.2026" }, false},
		{"unknown genre", func(d *model.ReleaseDraft) { d.Genre = "Гиперпоп" }, false},
		{"unknown language", func(d *model.ReleaseDraft) { d.TitleLanguage = "Латынь" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := completeDraft(model.ReleaseTypeSingle, 1)
			tt.mutate(d)
			ok, hint := New(d).CanAdvance(StepBasicInfo)
			if ok != tt.ok {
				t.Fatalf("CanAdvance(basic info) = %v (hint %q), want %v", ok, hint, tt.ok)
			}
			if !ok && hint == "" {
				t.Error("failed gate carries no hint")
			}
		})
	}
}

func TestRequisitesGate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *model.ContractRequisites)
		ok     bool
	}{
		{"complete", func(r *model.ContractRequisites) {}, true},
		{"latin name", func(r *model.ContractRequisites) { r.FullName = "Ivanov Ivan" }, false},
		{"short name", func(r *model.ContractRequisites) { r.FullName = "Ив" }, false},
		{"hyphenated name", func(r *model.ContractRequisites) { r.FullName = "Петрова-Водкина Анна" }, true},
		{"citizenship off list", func(r *model.ContractRequisites) { r.Citizenship = "Франция" }, false},
		{"short passport", func(r *model.ContractRequisites) { r.PassportData = "1234" }, false},
		{"short inn", func(r *model.ContractRequisites) { r.InnSwift = "1234567" }, false},
		{"inn with punctuation", func(r *model.ContractRequisites) { r.InnSwift = "1234-5678" }, false},
		{"swift code", func(r *model.ContractRequisites) { r.InnSwift = "SABRRUMM" }, true},
		{"short bank details", func(r *model.ContractRequisites) { r.BankRequisites = "р/с 123" }, false},
		{"blank stage name", func(r *model.ContractRequisites) { r.StageName = "   " }, false},
		{"bad email", func(r *model.ContractRequisites) { r.Email = "nova@" }, false},
		{"uppercase email", func(r *model.ContractRequisites) { r.Email = "NOVA@EXAMPLE.COM" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := completeDraft(model.ReleaseTypeSingle, 1)
			tt.mutate(&d.Requisites)
			ok, hint := New(d).CanAdvance(StepRequisites)
			if ok != tt.ok {
				t.Fatalf("CanAdvance(requisites) = %v (hint %q), want %v", ok, hint, tt.ok)
			}
		})
	}
}

func TestTracksGatePerReleaseType(t *testing.T) {
	tests := []struct {
		rt     model.ReleaseType
		tracks int
		ok     bool
	}{
		{model.ReleaseTypeSingle, 1, true},
		{model.ReleaseTypeSingle, 2, false},
		{model.ReleaseTypeMaxiSingle, 2, false},
		{model.ReleaseTypeMaxiSingle, 3, true},
		{model.ReleaseTypeMaxiSingle, 4, false},
		{model.ReleaseTypeEP, 3, false},
		{model.ReleaseTypeEP, 4, true},
		{model.ReleaseTypeEP, 6, true},
		{model.ReleaseTypeEP, 7, false},
		{model.ReleaseTypeAlbum, 6, false},
		{model.ReleaseTypeAlbum, 7, true},
		{model.ReleaseTypeAlbum, 40, true},
	}

	for _, tt := range tests {
		d := completeDraft(tt.rt, tt.tracks)
		ok, _ := New(d).CanAdvance(StepTracks)
		if ok != tt.ok {
			t.Errorf("%s with %d tracks: gate = %v, want %v", tt.rt, tt.tracks, ok, tt.ok)
		}
	}
}

func TestTracksGateRequiresCompleteTracks(t *testing.T) {
	d := completeDraft(model.ReleaseTypeMaxiSingle, 3)
	d.Tracks[1].ExplicitContent = nil // unanswered, not "no"

	ok, hint := New(d).CanAdvance(StepTracks)
	if ok {
		t.Fatal("gate passed with an unanswered explicit-content question")
	}
	if hint == "" {
		t.Error("failed gate carries no hint")
	}
}

func TestFullFlow(t *testing.T) {
	d := completeDraft(model.ReleaseTypeEP, 5)
	w := New(d)

	for w.Step() < LastStep {
		if err := w.Next(); err != nil {
			t.Fatalf("Next() at step %d: %v", w.Step(), err)
		}
	}
	if err := w.Next(); err == nil {
		t.Fatal("Next() past the last step succeeded")
	}

	if err := w.CanSubmit(""); !errors.Is(err, ErrNoSignature) {
		t.Fatalf("CanSubmit without signature = %v, want ErrNoSignature", err)
	}
	if err := w.CanSubmit("data:image/png;base64,abc"); err != nil {
		t.Fatalf("CanSubmit with signature: %v", err)
	}

	w.Back()
	if err := w.CanSubmit("data:image/png;base64,abc"); err == nil {
		t.Fatal("CanSubmit succeeded off the contract step")
	}
}

func TestBackStopsAtFirstStep(t *testing.T) {
	d := completeDraft(model.ReleaseTypeSingle, 1)
	w := New(d)
	w.Back()
	if w.Step() != FirstStep {
		t.Fatalf("Back() from the first step moved to %d", w.Step())
	}
}

func TestAddRemoveMoveRenumbers(t *testing.T) {
	d := completeDraft(model.ReleaseTypeAlbum, 0)
	w := New(d)

	w.AddTrackFromFile("http://media/audio/a.wav", "Первый.wav", 10)
	w.AddTrackFromFile("http://media/audio/b.wav", "Второй.wav", 20)
	w.AddTrack()

	if got := d.Tracks[0].Title; got != "Первый" {
		t.Errorf("title from file name = %q, want %q", got, "Первый")
	}
	if got := d.Tracks[2].Title; got != "" {
		t.Errorf("empty track got title %q", got)
	}

	if !w.MoveTrack(2, "up") {
		t.Fatal("MoveTrack(2, up) refused")
	}
	if d.Tracks[1].Title != "" || d.Tracks[2].Title != "Второй" {
		t.Fatal("MoveTrack did not swap the tracks")
	}

	if !w.RemoveTrack(0) {
		t.Fatal("RemoveTrack(0) refused")
	}
	if len(d.Tracks) != 2 {
		t.Fatalf("len(tracks) = %d after removal, want 2", len(d.Tracks))
	}
	for i, track := range d.Tracks {
		if track.TrackNumber != i+1 {
			t.Errorf("track %d numbered %d, want %d", i, track.TrackNumber, i+1)
		}
	}

	if w.RemoveTrack(5) {
		t.Error("RemoveTrack out of range succeeded")
	}
	if w.MoveTrack(0, "up") {
		t.Error("MoveTrack above the first track succeeded")
	}
	if w.MoveTrack(1, "down") {
		t.Error("MoveTrack below the last track succeeded")
	}
}
