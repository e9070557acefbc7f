package script

import (
	"iter"
	"unicode/utf8"
)

// Reason explains why a span is or is not classifiable
type Reason uint8

const (
	ReasonOK Reason = iota
	ReasonNoLetters
	ReasonTooShort
	ReasonExcludedScript
)

func (r Reason) String() string {
	switch r {
	case ReasonOK:
		return "ok"
	case ReasonNoLetters:
		return "no_letters"
	case ReasonTooShort:
		return "too_short"
	case ReasonExcludedScript:
		return "excluded_script"
	default:
		return "unknown"
	}
}

// Span is a byte range [Start, End) of the scanned text holding letters of
// one script class plus the separators around them
type Span struct {
	Start   int
	End     int
	Script  ID
	Letters int // bytes of letters in the span
	Reason  Reason
}

// Len is the byte length of the span
func (s Span) Len() int { return s.End - s.Start }

// Valid reports whether the span should be classified
func (s Span) Valid() bool { return s.Reason == ReasonOK }

// Bytes returns the slice of src covered by the span
func (s Span) Bytes(src []byte) []byte { return src[s.Start:s.End] }

// Options tunes span boundaries and filtering
type Options struct {
	// MinSpanBytes is the number of letter bytes below which a span is TooShort
	MinSpanBytes int
	// MaxSpanBytes closes a span at the next token boundary once reached; <= 0 disables
	MaxSpanBytes int
	// Markup treats <...> tags and &...; entities as separators
	Markup bool
}

const (
	maxTagBytes    = 1024
	maxEntityBytes = 10
)

// Scanner splits text into spans. Not safe for concurrent use
type Scanner struct {
	text []byte
	pos  int
	opts Options
}

// NewScanner returns a scanner over text. text is not copied
func NewScanner(text []byte, opts Options) *Scanner {
	return &Scanner{text: text, opts: opts}
}

// Scan is a convenience that collects every span of text
func Scan(text []byte, opts Options) []Span {
	var out []Span
	for sp := range NewScanner(text, opts).Spans() {
		out = append(out, sp)
	}
	return out
}

// Spans yields the remaining spans left to right. The sequence is single use
func (s *Scanner) Spans() iter.Seq[Span] {
	return func(yield func(Span) bool) {
		for {
			sp, ok := s.Next()
			if !ok || !yield(sp) {
				return
			}
		}
	}
}

// Next returns the next span, or false once the text is exhausted
func (s *Scanner) Next() (Span, bool) {
	if s.pos >= len(s.text) {
		return Span{}, false
	}

	sp := Span{Start: s.pos, Script: Common}
	newlines := 0
	boundary := false // a separator was seen since the last letter

	for s.pos < len(s.text) {
		if s.opts.Markup {
			if n := s.markup(); n > 0 {
				s.pos += n
				boundary = true
				continue
			}
		}

		r, size := utf8.DecodeRune(s.text[s.pos:])
		id := Of(r)
		if id == Common {
			if r == '\n' {
				newlines++
			}
			boundary = true
			s.pos += size
			continue
		}

		if s.pos > sp.Start && s.breakBefore(sp, id, newlines, boundary) {
			break
		}
		if sp.Letters == 0 {
			sp.Script = id
		}
		sp.Letters += size
		newlines = 0
		boundary = false
		s.pos += size
	}

	sp.End = s.pos
	return s.finalize(sp), true
}

func (s *Scanner) breakBefore(sp Span, id ID, newlines int, boundary bool) bool {
	if newlines >= 2 {
		return true
	}
	if sp.Letters == 0 {
		return false
	}
	if id != sp.Script {
		return true
	}
	limit := s.opts.MaxSpanBytes
	if limit <= 0 {
		return false
	}
	n := s.pos - sp.Start
	// cut at a token boundary; an unbroken run is cut hard at twice the limit
	return (boundary && n >= limit) || n >= 2*limit
}

// MaskMarkup returns a copy of text with every tag and entity overwritten by
// spaces. Offsets are unchanged, so spans over the copy index the original
func MaskMarkup(text []byte) []byte {
	out := make([]byte, len(text))
	copy(out, text)
	for i := 0; i < len(out); {
		if n := markupAt(text[i:]); n > 0 {
			for j := i; j < i+n; j++ {
				out[j] = ' '
			}
			i += n
			continue
		}
		i++
	}
	return out
}

func (s *Scanner) markup() int {
	return markupAt(s.text[s.pos:])
}

// markupAt returns the byte length of a tag or entity at the start of rest, or 0
func markupAt(rest []byte) int {
	switch rest[0] {
	case '<':
		if len(rest) < 2 || !isTagStart(rest[1]) {
			return 0
		}
		for i := 1; i < len(rest) && i < maxTagBytes; i++ {
			switch rest[i] {
			case '>':
				return i + 1
			case '<':
				return 0
			}
		}
	case '&':
		for i := 1; i < len(rest) && i <= maxEntityBytes; i++ {
			c := rest[i]
			if c == ';' {
				if i == 1 {
					return 0
				}
				return i + 1
			}
			if !isEntityByte(c) {
				return 0
			}
		}
	}
	return 0
}

func isTagStart(c byte) bool {
	return c == '/' || c == '!' || c == '?' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isEntityByte(c byte) bool {
	return c == '#' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func (s *Scanner) finalize(sp Span) Span {
	switch {
	case sp.Letters == 0:
		sp.Reason = ReasonNoLetters
	case sp.Script == Other:
		sp.Reason = ReasonExcludedScript
	case sp.Letters < s.opts.MinSpanBytes:
		sp.Reason = ReasonTooShort
	default:
		sp.Reason = ReasonOK
	}
	return sp
}
