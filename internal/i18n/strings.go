// Package i18n holds the bilingual UI text and picks a language for a
// request.
package i18n

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vaarthai/vithai/internal/models"
)

// Keys used outside this package.
const (
	KeyAppTitle        = "appTitle"
	KeyMessages        = "messages"
	KeyNoMessages      = "noMessages"
	KeyNoMessage       = "noMessageSelected"
	KeyInvalidPassword = "invalidPassword"
	KeyResults         = "results"
	KeyDailyVerse      = "dailyVerse"
)

var tamil = map[string]string{
	"appTitle":          "வார்த்தையின் விதை",
	"home":              "முகப்பு",
	"messages":          "செய்திகள்",
	"nowPlaying":        "தற்போது ஒலிப்பது",
	"play":              "இயக்கு",
	"pause":             "நிறுத்து",
	"speed":             "வேகம்",
	"dailyVerse":        "இன்றைய இறைவசனம்",
	"loading":           "ஏற்றப்படுகிறது...",
	"noMessages":        "செய்திகள் எதுவும் இல்லை",
	"back":              "பின்செல்",
	"forward":           "முன்னோக்கி",
	"backward":          "பின்னோக்கி",
	"share":             "பகிர்",
	"next":              "அடுத்தது",
	"previous":          "முந்தையது",
	"searchPlaceholder": "தேடுங்கள் (தலைப்பு, தேதி...)",
	"menu.home":         "முகப்பு",
	"menu.about":        "எங்களைப் பற்றி",
	"menu.contact":      "தொடர்புக்கு",
	"menu.prayer":       "ஜெப விண்ணப்பம்",
	"menu.website":      "இணையதளம்",
	"admin":             "நிர்வாகம்",
	"login":             "உள்நுழை",
	"logout":            "வெளியேறு",
	"password":          "கடவுச்சொல்",
	"save":              "சேமி",
	"delete":            "நீக்கு",
	"edit":              "திருத்து",
	"new":               "புதிய",
	"title":             "தலைப்பு",
	"subtitle":          "உப தலைப்பு",
	"date":              "தேதி",
	"duration":          "கால அளவு",
	"audioLink":         "ஆடியோ லிங்க்",
	"thumbnailLink":     "தம்ப்நெயில் லிங்க்",
	"linkCopied":        "லிங்க் நகலெடுக்கப்பட்டது!",
	"results":           "முடிவுகள்",
	"noMessageSelected": "தேர்ந்தெடுக்கப்பட்ட செய்தி இல்லை",
	"subtitles":         "உப தலைப்புகள்",
	"enterPassword":     "தொடர கடவுச்சொல்லை உள்ளிடவும்",
	"verifying":         "சரிபார்க்கப்படுகிறது...",
	"invalidPassword":   "தவறான கடவுச்சொல்",
	"loginFailed":       "உள்நுழைவதில் பிழை",
	"errorSaving":       "சேமிப்பதில் பிழை",
	"errorOccurred":     "பிழை ஏற்பட்டது",
	"confirmDelete":     "நிச்சயமாக நீக்க வேண்டுமா?",
	"errorDeleting":     "நீக்குவதில் பிழை",
	"addMessage":        "செய்தியைச் சேர்",
	"editMessage":       "செய்தியைத் திருத்து",
	"jesusLovesYou":     "நீங்கள் ஆசீர்வதிக்கப்பட்டவர்கள்",
	"changeLanguage":    "மொழியை மாற்றவும்",
}

var english = map[string]string{
	"appTitle":          "Vaarthayin vithai",
	"home":              "Home",
	"messages":          "Messages",
	"nowPlaying":        "Now Playing",
	"play":              "Play",
	"pause":             "Pause",
	"speed":             "Speed",
	"dailyVerse":        "Daily Verse",
	"loading":           "Loading...",
	"noMessages":        "No messages found",
	"back":              "Back",
	"forward":           "Forward",
	"backward":          "Backward",
	"share":             "Share",
	"next":              "Next",
	"previous":          "Previous",
	"searchPlaceholder": "Search (title, date...)",
	"menu.home":         "Home",
	"menu.about":        "About Us",
	"menu.contact":      "Contact",
	"menu.prayer":       "Prayer Request",
	"menu.website":      "Website",
	"admin":             "Admin",
	"login":             "Login",
	"logout":            "Logout",
	"password":          "Password",
	"save":              "Save",
	"delete":            "Delete",
	"edit":              "Edit",
	"new":               "New",
	"title":             "Title",
	"subtitle":          "Subtitle",
	"date":              "Date",
	"duration":          "Duration",
	"audioLink":         "Audio Link",
	"thumbnailLink":     "Thumbnail Link",
	"linkCopied":        "Link copied!",
	"results":           "results",
	"noMessageSelected": "No message selected",
	"subtitles":         "Subtitles",
	"enterPassword":     "Enter password to continue",
	"verifying":         "Verifying...",
	"invalidPassword":   "Invalid password",
	"loginFailed":       "Login failed",
	"errorSaving":       "Error saving",
	"errorOccurred":     "An error occurred",
	"confirmDelete":     "Are you sure you want to delete?",
	"errorDeleting":     "Error deleting",
	"addMessage":        "Add Message",
	"editMessage":       "Edit Message",
	"jesusLovesYou":     "You are Blessed",
	"changeLanguage":    "Change Language",
}

func table(lang models.Language) map[string]string {
	if lang == models.English {
		return english
	}
	return tamil
}

// T returns the text for key in lang. Unknown keys come back as the key.
func T(lang models.Language, key string) string {
	if s, ok := table(lang)[key]; ok {
		return s
	}
	return key
}

// Strings returns a copy of every string for lang.
func Strings(lang models.Language) map[string]string {
	src := table(lang)
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Heading returns T in title case, for column headers.
func Heading(lang models.Language, key string) string {
	return cases.Title(Tag(lang)).String(T(lang, key))
}

// Tag returns the BCP 47 tag for lang.
func Tag(lang models.Language) language.Tag {
	if lang == models.English {
		return language.English
	}
	return language.Tamil
}

var matcher = language.NewMatcher([]language.Tag{language.Tamil, language.English})

// Negotiate picks a language from an explicit code, falling back to an
// Accept-Language header and then Tamil.
func Negotiate(code, acceptLanguage string) models.Language {
	switch models.Language(code) {
	case models.Tamil, models.English:
		return models.Language(code)
	}
	if acceptLanguage == "" {
		return models.Tamil
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return models.Tamil
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No || idx != 1 {
		return models.Tamil
	}
	return models.English
}
