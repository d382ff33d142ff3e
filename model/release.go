package model

import "time"

// ReleaseType classifies a release by its track count.
type ReleaseType string

const (
	ReleaseTypeSingle     ReleaseType = "single"
	ReleaseTypeMaxiSingle ReleaseType = "maxi-single"
	ReleaseTypeEP         ReleaseType = "ep"
	ReleaseTypeAlbum      ReleaseType = "album"
)

// Valid reports whether t is one of the four release types.
func (t ReleaseType) Valid() bool {
	switch t {
	case ReleaseTypeSingle, ReleaseTypeMaxiSingle, ReleaseTypeEP, ReleaseTypeAlbum:
		return true
	}
	return false
}

// TrackBounds returns the allowed track count range for the type.
// max == 0 means unbounded above.
func (t ReleaseType) TrackBounds() (min, max int) {
	switch t {
	case ReleaseTypeSingle:
		return 1, 1
	case ReleaseTypeMaxiSingle:
		return 3, 3
	case ReleaseTypeEP:
		return 4, 6
	case ReleaseTypeAlbum:
		return 7, 0
	}
	return 0, 0
}

// AllowsTrackCount reports whether n tracks satisfy the type's bounds.
func (t ReleaseType) AllowsTrackCount(n int) bool {
	min, max := t.TrackBounds()
	if min == 0 && max == 0 {
		return false
	}
	if n < min {
		return false
	}
	if max > 0 && n > max {
		return false
	}
	return true
}

// Moderation statuses of a submitted release.
const (
	ReleaseStatusPending  = "pending"
	ReleaseStatusApproved = "approved"
	ReleaseStatusRejected = "rejected"
)

// Release is a submitted release as persisted after the wizard completes.
type Release struct {
	ID                int64          `json:"id" gorm:"primaryKey"`
	UserID            int64          `json:"userId" gorm:"index"`
	Type              ReleaseType    `json:"type" gorm:"size:16"`
	Name              string         `json:"name" gorm:"size:100"`
	ArtistName        string         `json:"artistName" gorm:"size:100"`
	ReleaseDate       string         `json:"releaseDate" gorm:"size:10"`
	PreorderDate      string         `json:"preorderDate" gorm:"size:10"`
	SalesStartDate    string         `json:"salesStartDate" gorm:"size:10"`
	Genre             string         `json:"genre" gorm:"size:64"`
	Copyright         string         `json:"copyright" gorm:"size:255"`
	TitleLanguage     string         `json:"titleLanguage" gorm:"size:32"`
	CoverURL          string         `json:"coverUrl" gorm:"size:767"`
	Status            string         `json:"status" gorm:"size:16;index"`
	ModerationComment string         `json:"moderationComment" gorm:"type:text"`
	ContractNumber    string         `json:"contractNumber" gorm:"size:32"`
	ContractPDFURL    string         `json:"contractPdfUrl" gorm:"size:767"`
	SignatureURL      string         `json:"signatureUrl" gorm:"size:767"`
	RequisitesJSON    string         `json:"-" gorm:"type:text"`
	Tracks            []ReleaseTrack `json:"tracks" gorm:"foreignKey:ReleaseID"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// ReleaseTrack is one track of a submitted release.
type ReleaseTrack struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	ReleaseID       int64     `json:"releaseId" gorm:"index"`
	TrackNumber     int       `json:"trackNumber"`
	Title           string    `json:"title" gorm:"size:255"`
	FileURL         string    `json:"fileUrl" gorm:"size:767"`
	FileName        string    `json:"fileName" gorm:"size:255"`
	FileSize        int64     `json:"fileSize"`
	Composer        string    `json:"composer" gorm:"size:255"`
	AuthorMusic     string    `json:"authorMusic" gorm:"size:255"`
	AuthorLyrics    string    `json:"authorLyrics" gorm:"size:255"`
	AuthorPhonogram string    `json:"authorPhonogram" gorm:"size:255"`
	LanguageAudio   string    `json:"languageAudio" gorm:"size:32"`
	ExplicitContent bool      `json:"explicitContent"`
	LyricsText      string    `json:"lyricsText" gorm:"type:text"`
	PreviewStart    int       `json:"previewStart"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
