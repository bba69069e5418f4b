package models

// Language selects UI text and verse language.
type Language string

const (
	Tamil   Language = "ta"
	English Language = "en"
)

// ParseLanguage maps a code to a Language, defaulting to Tamil.
func ParseLanguage(code string) Language {
	if Language(code) == English {
		return English
	}
	return Tamil
}

// DailyVerse is a quoted scripture verse with its reference.
type DailyVerse struct {
	Verse     string `json:"verse"`
	Reference string `json:"reference"`
}
