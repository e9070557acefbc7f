package normalize

import (
	"strings"
	"unicode/utf8"
)

// Sanitize turns every byte or rune that cannot carry language signal into an
// ASCII space: C0 controls other than tab, CR and LF, DEL, C1 controls and
// each byte of invalid UTF-8. Spaces rather than deletion keep "ab\xffcd" as
// two tokens. U+FFFD in the input is treated like an invalid byte
func Sanitize(s string) string {
	return strings.Map(sanitizeRune, s)
}

func sanitizeRune(r rune) rune {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return r
	case r < 0x20, r == 0x7F, r >= 0x80 && r <= 0x9F, r == utf8.RuneError:
		return ' '
	}
	return r
}
