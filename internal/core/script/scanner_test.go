package script

import (
	"strings"
	"testing"
)

func TestOf_Table(t *testing.T) {
	tests := []struct {
		r    rune
		want ID
	}{
		{'a', Latin},
		{'Z', Latin},
		{'é', Latin},
		{'7', Common},
		{' ', Common},
		{'!', Common},
		{'\uFFFD', Common},
		{'\u0301', Common}, // combining acute
		{'ж', Cyrillic},
		{'λ', Greek},
		{'ש', Hebrew},
		{'ع', Arabic},
		{'ں', Arabic},
		{'ह', Devanagari},
		{'ก', Thai},
		{'影', Hani},
		{'の', Hani},
		{'カ', Hani},
		{'\u30FC', Common}, // prolonged sound mark is Common script
		{'한', Hangul},
		{'ა', Georgian},
		{'ሀ', Ethiopic},
		{'ᚠ', Other}, // Runic
	}
	for _, tc := range tests {
		if got := Of(tc.r); got != tc.want {
			t.Fatalf("Of(%q) = %v, want %v", tc.r, got, tc.want)
		}
	}
}

func TestParse_RoundTrip(t *testing.T) {
	for id := Common; id < ID(Count); id++ {
		got, ok := Parse(strings.ToLower(id.String()))
		if !ok || got != id {
			t.Fatalf("Parse(%q) = %v,%v", id.String(), got, ok)
		}
	}
	if _, ok := Parse("klingon"); ok {
		t.Fatalf("Parse should reject unknown names")
	}
}

// covered asserts spans tile text with no gaps or overlaps
func covered(t *testing.T, text []byte, spans []Span) {
	t.Helper()
	pos := 0
	for i, sp := range spans {
		if sp.Start != pos {
			t.Fatalf("span %d starts at %d, want %d", i, sp.Start, pos)
		}
		if sp.End <= sp.Start {
			t.Fatalf("span %d is empty: %+v", i, sp)
		}
		pos = sp.End
	}
	if pos != len(text) {
		t.Fatalf("spans end at %d, text is %d bytes", pos, len(text))
	}
}

func TestScan_Empty(t *testing.T) {
	if got := Scan(nil, Options{}); len(got) != 0 {
		t.Fatalf("Scan(nil) = %v, want none", got)
	}
	if got := Scan([]byte(""), Options{}); len(got) != 0 {
		t.Fatalf("Scan(\"\") = %v, want none", got)
	}
}

func TestScan_SeparatorsOnly(t *testing.T) {
	text := []byte("  123 !? \n\t 4.5 ")
	spans := Scan(text, Options{MinSpanBytes: 4})
	covered(t, text, spans)
	for _, sp := range spans {
		if sp.Valid() {
			t.Fatalf("separator-only span is valid: %+v", sp)
		}
		if sp.Reason != ReasonNoLetters {
			t.Fatalf("reason = %v, want no_letters", sp.Reason)
		}
	}
}

func TestScan_SingleScript(t *testing.T) {
	text := []byte("This is a test.")
	spans := Scan(text, Options{MinSpanBytes: 4})
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1: %+v", len(spans), spans)
	}
	sp := spans[0]
	if sp.Script != Latin || !sp.Valid() {
		t.Fatalf("span = %+v", sp)
	}
	if sp.Letters != 11 {
		t.Fatalf("letters = %d, want 11", sp.Letters)
	}
	covered(t, text, spans)
}

func TestScan_ScriptChangeSplits(t *testing.T) {
	text := []byte("This piece of text is in English. Този текст е на Български.")
	spans := Scan(text, Options{MinSpanBytes: 4})
	covered(t, text, spans)
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2: %+v", len(spans), spans)
	}
	if spans[0].Script != Latin || spans[1].Script != Cyrillic {
		t.Fatalf("scripts = %v,%v", spans[0].Script, spans[1].Script)
	}
	// separators between scripts stay with the earlier span
	if got := string(spans[1].Bytes(text)); !strings.HasPrefix(got, "Този") {
		t.Fatalf("second span = %q", got)
	}
}

func TestScan_TooShort(t *testing.T) {
	text := []byte("ok Привет мир")
	spans := Scan(text, Options{MinSpanBytes: 4})
	covered(t, text, spans)
	if len(spans) != 2 {
		t.Fatalf("got %d spans: %+v", len(spans), spans)
	}
	if spans[0].Reason != ReasonTooShort {
		t.Fatalf("first reason = %v, want too_short", spans[0].Reason)
	}
	if !spans[1].Valid() {
		t.Fatalf("second span should be valid: %+v", spans[1])
	}
}

func TestScan_ExcludedScript(t *testing.T) {
	text := []byte("ᚠᚢᚦᚨᚱᚲ")
	spans := Scan(text, Options{MinSpanBytes: 4})
	if len(spans) != 1 || spans[0].Reason != ReasonExcludedScript {
		t.Fatalf("spans = %+v", spans)
	}
}

func TestScan_ParagraphBreak(t *testing.T) {
	text := []byte("first paragraph\n\nsecond paragraph")
	spans := Scan(text, Options{MinSpanBytes: 4})
	covered(t, text, spans)
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	if got := string(spans[1].Bytes(text)); got != "second paragraph" {
		t.Fatalf("second span = %q", got)
	}

	// a single newline does not break
	one := []byte("first line\nsecond line")
	if got := Scan(one, Options{MinSpanBytes: 4}); len(got) != 1 {
		t.Fatalf("single newline split into %d spans", len(got))
	}
}

func TestScan_MaxSpanBytes(t *testing.T) {
	text := []byte(strings.Repeat("word ", 100))
	spans := Scan(text, Options{MinSpanBytes: 4, MaxSpanBytes: 64})
	covered(t, text, spans)
	if len(spans) < 2 {
		t.Fatalf("expected long input to be cut, got %d spans", len(spans))
	}
	for _, sp := range spans {
		if sp.Len() > 64+len("word ") {
			t.Fatalf("span too long: %d bytes", sp.Len())
		}
	}

	// one unbroken run is still bounded
	run := []byte(strings.Repeat("a", 300))
	spans = Scan(run, Options{MaxSpanBytes: 64})
	covered(t, run, spans)
	for _, sp := range spans {
		if sp.Len() > 128 {
			t.Fatalf("unbroken span too long: %d", sp.Len())
		}
	}
}

func TestScan_InvalidUTF8(t *testing.T) {
	text := []byte{'h', 'e', 'l', 'l', 'o', 0xff, 0xfe, 'w', 'o', 'r', 'l', 'd', 0xc3}
	spans := Scan(text, Options{MinSpanBytes: 4})
	covered(t, text, spans)
	if len(spans) != 1 || spans[0].Letters != 10 {
		t.Fatalf("spans = %+v", spans)
	}
}

func TestScan_Markup(t *testing.T) {
	text := []byte(`<p class="x">Bonjour&nbsp;le monde</p>`)
	plain := Scan(text, Options{MinSpanBytes: 4})
	marked := Scan(text, Options{MinSpanBytes: 4, Markup: true})
	covered(t, text, marked)
	if len(marked) != 1 {
		t.Fatalf("got %d spans: %+v", len(marked), marked)
	}
	// tag and entity letters are not counted
	want := len("Bonjour") + len("le") + len("monde")
	if marked[0].Letters != want {
		t.Fatalf("letters = %d, want %d", marked[0].Letters, want)
	}
	if plain[0].Letters <= marked[0].Letters {
		t.Fatalf("plain mode should count tag letters")
	}

	// stray angle brackets are ordinary separators
	stray := []byte("a < b and c > d")
	if got := Scan(stray, Options{Markup: true}); got[0].Letters != 7 {
		t.Fatalf("stray letters = %d", got[0].Letters)
	}
}

func TestScanner_EarlyStop(t *testing.T) {
	s := NewScanner([]byte("abc\n\ndef\n\nghi"), Options{})
	n := 0
	for range s.Spans() {
		n++
		break
	}
	if n != 1 {
		t.Fatalf("n = %d", n)
	}
	sp, ok := s.Next()
	if !ok || sp.Start != 5 {
		t.Fatalf("Next after break = %+v,%v", sp, ok)
	}
}

func TestMaskMarkup(t *testing.T) {
	in := []byte("<b>caf\u00e9</b> &amp; a<b")
	got := string(MaskMarkup(in))
	want := "   caf\u00e9      " + "     a<b"
	if got != want {
		t.Fatalf("MaskMarkup = %q, want %q", got, want)
	}
	if string(in) != "<b>caf\u00e9</b> &amp; a<b" {
		t.Fatalf("input modified")
	}
}
