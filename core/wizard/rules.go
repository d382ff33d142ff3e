package wizard

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"tuneport/model"
)

// Rule is one declarative validation check against the draft. The rule tables
// below are the single source of truth for step gating; handlers and tests
// evaluate them uniformly instead of re-deriving per-field checks.
type Rule struct {
	Field string
	Hint  string
	Check func(d *model.ReleaseDraft) bool
}

var (
	// Full legal name: Cyrillic letters, spaces and hyphens only.
	cyrillicName = regexp.MustCompile(`^[\x{0400}-\x{04FF}\s-]+$`)
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`)
	alphaNumeric = regexp.MustCompile(`^[0-9A-Za-z]+$`)
)

// releaseTypeRules gate step 1.
var releaseTypeRules = []Rule{
	{
		Field: "releaseType",
		Hint:  "Выберите тип релиза",
		Check: func(d *model.ReleaseDraft) bool { return d.ReleaseType.Valid() },
	},
}

// basicInfoRules gate step 2.
var basicInfoRules = []Rule{
	{
		Field: "releaseName",
		Hint:  "Название релиза: от 1 до 100 символов",
		Check: func(d *model.ReleaseDraft) bool {
			n := utf8.RuneCountInString(d.ReleaseName)
			return n >= 1 && n <= 100
		},
	},
	{
		Field: "coverUrl",
		Hint:  "Загрузите обложку релиза",
		Check: func(d *model.ReleaseDraft) bool { return d.CoverURL != "" },
	},
	{
		Field: "releaseDate",
		Hint:  "Дата релиза: сегодня или позже",
		Check: func(d *model.ReleaseDraft) bool { return releaseDateValid(d.ReleaseDate, time.Now()) },
	},
	{
		Field: "genre",
		Hint:  "Выберите жанр",
		Check: func(d *model.ReleaseDraft) bool { return model.ValidGenre(d.Genre) },
	},
	{
		Field: "titleLanguage",
		Hint:  "Выберите язык названия",
		Check: func(d *model.ReleaseDraft) bool { return model.ValidLanguage(d.TitleLanguage) },
	},
}

// requisitesRules gate step 3.
var requisitesRules = []Rule{
	{
		Field: "fullName",
		Hint:  "ФИО: только кириллица, не короче 5 символов",
		Check: func(d *model.ReleaseDraft) bool {
			name := d.Requisites.FullName
			return utf8.RuneCountInString(name) >= 5 && cyrillicName.MatchString(name)
		},
	},
	{
		Field: "citizenship",
		Hint:  "Выберите гражданство из списка",
		Check: func(d *model.ReleaseDraft) bool { return model.ValidCitizenship(d.Requisites.Citizenship) },
	},
	{
		Field: "passportData",
		Hint:  "Паспортные данные: не короче 5 символов",
		Check: func(d *model.ReleaseDraft) bool {
			return utf8.RuneCountInString(d.Requisites.PassportData) >= 5
		},
	},
	{
		Field: "innSwift",
		Hint:  "ИНН/SWIFT: не короче 8 символов, только цифры и латинские буквы",
		Check: func(d *model.ReleaseDraft) bool {
			v := d.Requisites.InnSwift
			return len(v) >= 8 && alphaNumeric.MatchString(v)
		},
	},
	{
		Field: "bankRequisites",
		Hint:  "Банковские реквизиты: не короче 10 символов",
		Check: func(d *model.ReleaseDraft) bool {
			return utf8.RuneCountInString(d.Requisites.BankRequisites) >= 10
		},
	},
	{
		Field: "stageName",
		Hint:  "Укажите творческий псевдоним",
		Check: func(d *model.ReleaseDraft) bool {
			return strings.TrimSpace(d.Requisites.StageName) != ""
		},
	},
	{
		Field: "email",
		Hint:  "Укажите действующий email",
		Check: func(d *model.ReleaseDraft) bool {
			return emailPattern.MatchString(strings.ToLower(d.Requisites.Email))
		},
	},
}

// tracksRules gate step 4: count bounds per release type, then per-track completeness.
var tracksRules = []Rule{
	{
		Field: "tracks",
		Hint:  "Количество треков не соответствует типу релиза",
		Check: func(d *model.ReleaseDraft) bool {
			return d.ReleaseType.AllowsTrackCount(len(d.Tracks))
		},
	},
	{
		Field: "tracks",
		Hint:  "Заполните все поля каждого трека и прикрепите аудиофайлы",
		Check: func(d *model.ReleaseDraft) bool {
			for i := range d.Tracks {
				if !d.Tracks[i].Complete() {
					return false
				}
			}
			return true
		},
	},
}

// checkRules returns ok and, when blocked, the hint of the first failing rule.
func checkRules(rules []Rule, d *model.ReleaseDraft) (bool, string) {
	for _, r := range rules {
		if !r.Check(d) {
			return false, r.Hint
		}
	}
	return true, ""
}

// releaseDateValid accepts YYYY-MM-DD dates that are today or later.
func releaseDateValid(s string, now time.Time) bool {
	date, err := time.Parse("2006-01-02", s)
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !date.Before(today)
}
