package model

// Closed lists offered by the wizard forms. The portal is aimed at the
// CIS market, so the lists are in Russian.

// Genres selectable at the basic info step.
var Genres = []string{
	"Поп",
	"Хип-хоп",
	"Рок",
	"Электронная",
	"Рэп",
	"R&B",
	"Инди",
	"Альтернатива",
	"Танцевальная",
	"Шансон",
	"Джаз",
	"Классическая",
	"Фолк",
	"Метал",
	"Саундтрек",
}

// Languages selectable for release titles and track audio.
var Languages = []string{
	"Русский",
	"Английский",
	"Украинский",
	"Казахский",
	"Испанский",
	"Французский",
	"Немецкий",
	"Инструментал",
}

// Citizenships accepted at the requisites step.
var Citizenships = []string{
	"Российская Федерация",
	"Украина",
	"Беларусь",
	"Казахстан",
	"Узбекистан",
	"Киргизия",
	"Таджикистан",
	"Армения",
	"Азербайджан",
	"Грузия",
	"Молдова",
	"Латвия",
	"Литва",
	"Эстония",
	"Другое",
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// ValidGenre reports whether g is one of the offered genres.
func ValidGenre(g string) bool { return contains(Genres, g) }

// ValidLanguage reports whether l is one of the offered languages.
func ValidLanguage(l string) bool { return contains(Languages, l) }

// ValidCitizenship reports whether c is one of the accepted citizenships.
func ValidCitizenship(c string) bool { return contains(Citizenships, c) }
