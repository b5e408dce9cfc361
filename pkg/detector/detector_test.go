package detector

import (
	"testing"
)

func TestDetector_Detect(t *testing.T) {
	d := New()

	tests := []struct {
		name     string
		text     string
		wantLang string
		wantOK   bool
	}{
		{
			name:   "empty text",
			text:   "  ",
			wantOK: false,
		},
		{
			name:     "ancient greek",
			text:     "Μῆνιν ἄειδε θεὰ Πηληϊάδεω Ἀχιλῆος οὐλομένην, ἣ μυρί᾽ Ἀχαιοῖς ἄλγε᾽ ἔθηκε",
			wantLang: "Greek",
			wantOK:   true,
		},
		{
			name:     "english text",
			text:     "Sing, O goddess, the anger of Achilles son of Peleus, that brought countless ills upon the Achaeans.",
			wantLang: "English",
			wantOK:   true,
		},
		{
			name:     "latin text",
			text:     "Arma virumque cano, Troiae qui primus ab oris Italiam, fato profugus, Laviniaque venit litora.",
			wantLang: "Latin",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lang, ok := d.Detect(tt.text)
			if ok != tt.wantOK {
				t.Errorf("Detect(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
				return
			}
			if tt.wantOK && lang.String() != tt.wantLang {
				t.Errorf("Detect(%q) = %v, want %v", tt.text, lang, tt.wantLang)
			}
		})
	}
}

func TestDetector_IsGreek(t *testing.T) {
	d := New()

	if !d.IsGreek("ἐν ἀρχῇ ἦν ὁ λόγος, καὶ ὁ λόγος ἦν πρὸς τὸν θεόν") {
		t.Error("IsGreek() = false for Greek text")
	}
	if d.IsGreek("In the beginning was the Word, and the Word was with God.") {
		t.Error("IsGreek() = true for English text")
	}
	if !d.IsGreek("") {
		t.Error("IsGreek() = false for empty text")
	}
}
