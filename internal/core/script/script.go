// Package script groups Unicode code points into a small fixed set of script
// classes and splits text into script-homogeneous spans
package script

import (
	"strings"
	"unicode"
)

// ID is a coarse script class. Several Unicode scripts may share one ID
// (Han, Hiragana, Katakana and Bopomofo all map to Hani)
type ID uint8

// Script classes. Values are stored in model artifacts; append only
const (
	Common ID = iota // digits, punctuation, symbols, whitespace, marks
	Latin
	Greek
	Cyrillic
	Armenian
	Hebrew
	Arabic
	Devanagari
	Bengali
	Gurmukhi
	Gujarati
	Tamil
	Telugu
	Kannada
	Malayalam
	Thai
	Georgian
	Hangul
	Hani
	Ethiopic
	Other // letters of a script outside the table
	numIDs
)

// Count is the number of script classes, i.e. the width of the script feature space
const Count = int(numIDs)

var names = [...]string{
	Common:     "Common",
	Latin:      "Latin",
	Greek:      "Greek",
	Cyrillic:   "Cyrillic",
	Armenian:   "Armenian",
	Hebrew:     "Hebrew",
	Arabic:     "Arabic",
	Devanagari: "Devanagari",
	Bengali:    "Bengali",
	Gurmukhi:   "Gurmukhi",
	Gujarati:   "Gujarati",
	Tamil:      "Tamil",
	Telugu:     "Telugu",
	Kannada:    "Kannada",
	Malayalam:  "Malayalam",
	Thai:       "Thai",
	Georgian:   "Georgian",
	Hangul:     "Hangul",
	Hani:       "Hani",
	Ethiopic:   "Ethiopic",
	Other:      "Other",
}

// String returns the class name
func (id ID) String() string {
	if int(id) < len(names) {
		return names[id]
	}
	return "Other"
}

// Parse resolves a class name (case-insensitive)
func Parse(name string) (ID, bool) {
	name = strings.TrimSpace(name)
	for i, n := range names {
		if strings.EqualFold(n, name) {
			return ID(i), true
		}
	}
	return Other, false
}

type class struct {
	id  ID
	tab *unicode.RangeTable
}

// lookup order roughly follows how often each script shows up in real traffic
var classes = []class{
	{Latin, unicode.Latin},
	{Cyrillic, unicode.Cyrillic},
	{Arabic, unicode.Arabic},
	{Hani, unicode.Han},
	{Hani, unicode.Hiragana},
	{Hani, unicode.Katakana},
	{Hani, unicode.Bopomofo},
	{Hangul, unicode.Hangul},
	{Greek, unicode.Greek},
	{Hebrew, unicode.Hebrew},
	{Devanagari, unicode.Devanagari},
	{Thai, unicode.Thai},
	{Bengali, unicode.Bengali},
	{Gurmukhi, unicode.Gurmukhi},
	{Gujarati, unicode.Gujarati},
	{Tamil, unicode.Tamil},
	{Telugu, unicode.Telugu},
	{Kannada, unicode.Kannada},
	{Malayalam, unicode.Malayalam},
	{Georgian, unicode.Georgian},
	{Armenian, unicode.Armenian},
	{Ethiopic, unicode.Ethiopic},
}

// Of returns the script class of r. Anything that is not a letter is Common
func Of(r rune) ID {
	if r < 0x80 {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return Latin
		}
		return Common
	}
	if !unicode.IsLetter(r) {
		return Common
	}
	for _, c := range classes {
		if unicode.Is(c.tab, r) {
			return c.id
		}
	}
	// letters such as the kana prolonged sound mark live in Common
	if unicode.In(r, unicode.Common, unicode.Inherited) {
		return Common
	}
	return Other
}

// IsLetter reports whether r counts towards a span's letter bytes
func IsLetter(r rune) bool {
	id := Of(r)
	return id != Common
}
