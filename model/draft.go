package model

import (
	"strings"
	"time"
)

// ReleaseDraft is an in-progress release being assembled in the wizard.
// It is the unit of autosave: the whole draft is serialized on every save.
type ReleaseDraft struct {
	ID             string             `json:"id"`
	UserID         int64              `json:"userId"`
	ReleaseType    ReleaseType        `json:"releaseType"` // empty until step 1 is done
	CurrentStep    int                `json:"currentStep"`
	ReleaseName    string             `json:"releaseName"`
	ArtistName     string             `json:"artistName"`
	ReleaseDate    string             `json:"releaseDate"` // YYYY-MM-DD
	PreorderDate   string             `json:"preorderDate"`
	SalesStartDate string             `json:"salesStartDate"`
	Genre          string             `json:"genre"`
	Copyright      string             `json:"copyright"`
	TitleLanguage  string             `json:"titleLanguage"`
	CoverURL       string             `json:"coverUrl"`
	Tracks         []Track            `json:"tracks"`
	Requisites     ContractRequisites `json:"requisites"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// DisplayName returns the draft's name for listings.
func (d *ReleaseDraft) DisplayName() string {
	if strings.TrimSpace(d.ReleaseName) == "" {
		return "Новый релиз"
	}
	return d.ReleaseName
}

// Summary reduces the draft to its listing form.
func (d *ReleaseDraft) Summary() DraftSummary {
	return DraftSummary{
		ID:          d.ID,
		UserID:      d.UserID,
		ReleaseName: d.DisplayName(),
		ReleaseType: d.ReleaseType,
		TracksCount: len(d.Tracks),
		UpdatedAt:   d.UpdatedAt,
	}
}

// DraftSummary is the listing entry for a saved draft.
type DraftSummary struct {
	ID          string      `json:"id"`
	UserID      int64       `json:"userId"`
	ReleaseName string      `json:"releaseName"`
	ReleaseType ReleaseType `json:"releaseType"`
	TracksCount int         `json:"tracksCount"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Track is one audio track inside a draft. ExplicitContent and PreviewStart
// are pointers: nil means the artist has not answered yet, which blocks step 4.
type Track struct {
	TrackNumber     int    `json:"trackNumber"`
	Title           string `json:"title"`
	FileURL         string `json:"fileUrl"`  // durable URL after upload
	FileName        string `json:"fileName"` // original file name
	FileSize        int64  `json:"fileSize"`
	Composer        string `json:"composer"`
	AuthorMusic     string `json:"authorMusic"`
	AuthorLyrics    string `json:"authorLyrics"`
	AuthorPhonogram string `json:"authorPhonogram"`
	LanguageAudio   string `json:"languageAudio"`
	ExplicitContent *bool  `json:"explicitContent"`
	LyricsText      string `json:"lyricsText"`
	PreviewStart    *int   `json:"previewStart"` // TikTok preview offset, seconds
}

// HasAudio reports whether an audio file is attached, either already uploaded
// or still pending on the client.
func (t *Track) HasAudio() bool {
	return t.FileURL != "" || t.FileName != ""
}

// Complete reports whether every required field of the track is filled in.
// This is the per-track gate for wizard step 4.
func (t *Track) Complete() bool {
	return t.HasAudio() &&
		t.Title != "" &&
		t.Composer != "" &&
		t.AuthorMusic != "" &&
		t.AuthorLyrics != "" &&
		t.AuthorPhonogram != "" &&
		t.LanguageAudio != "" &&
		t.ExplicitContent != nil &&
		t.LyricsText != "" &&
		t.PreviewStart != nil
}

// ContractRequisites is the legal/identity data embedded into the contract.
type ContractRequisites struct {
	FullName       string `json:"fullName"`
	Citizenship    string `json:"citizenship"`
	PassportData   string `json:"passportData"`
	InnSwift       string `json:"innSwift"`
	BankRequisites string `json:"bankRequisites"`
	StageName      string `json:"stageName"`
	Email          string `json:"email"`
}

// ShortName abbreviates the full legal name for the signature block:
// the first name token stays whole, every following token becomes its
// initial plus a period ("Иванов Иван Иванович" -> "Иванов И. И.").
func (r ContractRequisites) ShortName() string {
	fields := strings.Fields(r.FullName)
	for i, f := range fields {
		if i == 0 {
			continue
		}
		runes := []rune(f)
		fields[i] = string(runes[0]) + "."
	}
	return strings.Join(fields, " ")
}
