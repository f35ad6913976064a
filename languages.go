package translator

import "strings"

// LangPair is a normalized source/target language pair.
type LangPair struct {
	Source string
	Target string
}

// NormalizePair lowercases and trims both codes and reduces locale
// variants to their base code ("en_US" -> "en").
func NormalizePair(source, target string) LangPair {
	return LangPair{
		Source: NormalizeLang(source),
		Target: NormalizeLang(target),
	}
}

// NormalizeLang returns the lowercase base language code.
// Both "en_US" and "en-US" normalize to "en".
func NormalizeLang(lang string) string {
	lang = strings.TrimSpace(lang)
	lang = strings.ReplaceAll(lang, "-", "_")
	if i := strings.Index(lang, "_"); i >= 0 {
		lang = lang[:i]
	}
	return strings.ToLower(lang)
}

// MiniMaxCode renders a normalized language code the way the MiniMax
// API expects it: an uppercase short code ("en" -> "EN").
func MiniMaxCode(lang string) string {
	return strings.ToUpper(NormalizeLang(lang))
}

// ShortCode renders a normalized language code for the public
// translation endpoint's sl/tl query parameters.
func ShortCode(lang string) string {
	return NormalizeLang(lang)
}

// LanguageNames maps supported short codes to human-readable names for
// settings surfaces and log output.
var LanguageNames = map[string]string{
	"ar": "Arabic",
	"de": "German",
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"hi": "Hindi",
	"id": "Indonesian",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"nl": "Dutch",
	"pl": "Polish",
	"pt": "Portuguese",
	"ru": "Russian",
	"th": "Thai",
	"tr": "Turkish",
	"uk": "Ukrainian",
	"vi": "Vietnamese",
	"zh": "Chinese",
}

// LanguageName returns the display name for a language code, falling
// back to the normalized code itself for unknown languages.
func LanguageName(lang string) string {
	code := NormalizeLang(lang)
	if name, ok := LanguageNames[code]; ok {
		return name
	}
	return code
}

// IsSupported reports whether the language has a known display name.
// Unknown codes are still passed through to the providers untouched.
func IsSupported(lang string) bool {
	_, ok := LanguageNames[NormalizeLang(lang)]
	return ok
}
