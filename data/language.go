package data

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

var defaultLanguages = []lingua.Language{
	lingua.English,
	lingua.Korean,
	lingua.Japanese,
	lingua.Chinese,
	lingua.Spanish,
	lingua.French,
	lingua.German,
}

// LanguageDetector tags post text with an ISO 639-1 code.
type LanguageDetector struct {
	detector lingua.LanguageDetector
}

func NewLanguageDetector() *LanguageDetector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(defaultLanguages...).
		Build()
	return &LanguageDetector{detector: detector}
}

// Detect returns the lower-case language code of text, or "" when the
// language cannot be decided.
func (d *LanguageDetector) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
