package utils

import "golang.org/x/text/language"

// Content ships in English and Spanish only.
var (
	supportedLanguages = []string{"en", "es"}
	languageMatcher    = language.NewMatcher([]language.Tag{
		language.English,
		language.Spanish,
	})
)

// NormalizeLanguage maps a caller-supplied language code (e.g. "en-US",
// "es-MX") onto one of the supported content languages. ok is false when the
// code is unparseable or matches neither language.
func NormalizeLanguage(code string) (string, bool) {
	tag, err := language.Parse(code)
	if err != nil {
		return "", false
	}
	_, idx, conf := languageMatcher.Match(tag)
	if conf < language.High {
		return "", false
	}
	return supportedLanguages[idx], true
}
