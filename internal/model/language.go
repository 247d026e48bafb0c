package model

import "strings"

// Language is a speech language code accepted by the narrator.
type Language string

const (
	English Language = "en"
	Spanish Language = "es"
	French  Language = "fr"
	German  Language = "de"
	Hindi   Language = "hi"
)

// DefaultLanguage is preselected in the upload form.
const DefaultLanguage = English

// Languages lists the supported codes in display order.
func Languages() []Language {
	return []Language{English, Spanish, French, German, Hindi}
}

// Supported reports whether l is one of Languages.
func (l Language) Supported() bool {
	for _, s := range Languages() {
		if l == s {
			return true
		}
	}
	return false
}

// ParseLanguage normalizes s and reports whether it names a supported language.
// An empty string selects DefaultLanguage.
func ParseLanguage(s string) (Language, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultLanguage, true
	}
	l := Language(s)
	return l, l.Supported()
}
