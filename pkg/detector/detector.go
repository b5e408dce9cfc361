package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// sampleLimit bounds how much text is classified; a book's opening is enough.
const sampleLimit = 2000

type Detector struct {
	detector lingua.LanguageDetector
}

// New returns a detector that tells Greek apart from the languages source
// files are most often mistaken for.
func New() *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.Greek, lingua.English, lingua.Latin, lingua.German, lingua.French, lingua.Italian).
		Build()

	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return lingua.Unknown, false
	}
	if r := []rune(text); len(r) > sampleLimit {
		text = string(r[:sampleLimit])
	}
	return d.detector.DetectLanguageOf(text)
}

// IsGreek reports whether text reads as Greek. Undetectable text counts as
// Greek so callers only warn on a confident mismatch.
func (d *Detector) IsGreek(text string) bool {
	lang, ok := d.Detect(text)
	return !ok || lang == lingua.Greek
}
