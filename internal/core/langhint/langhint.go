// Package langhint profiles the letters of a text by script and names the
// language when the script alone settles it
package langhint

import (
	"unicode"

	"langid/internal/core/script"
)

// minLetters is the letter count below which no language hint is given
const minLetters = 20

// Hint is the script profile of a text
type Hint struct {
	// Script is the dominant script class, "" when the text has no letters
	Script string `json:"script"`
	// Letters counts every letter in the text
	Letters int `json:"letters"`
	// Share is the dominant script's fraction of Letters
	Share float64 `json:"share"`
	// Lang is set only when the script is decisive for one language
	Lang string `json:"lang,omitempty"`
}

// Profile counts letters per script class and picks the dominant one.
// Ties go to the lower class id, so specific scripts never lose to Other.
func Profile(text string) Hint {
	var (
		counts [script.Count]int
		kana   int
		total  int
	)
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		total++
		counts[script.Of(r)]++
		if unicode.In(r, unicode.Hiragana, unicode.Katakana) {
			kana++
		}
	}
	if total == 0 {
		return Hint{}
	}

	best := script.Common
	for id := script.Latin; int(id) < script.Count; id++ {
		if counts[id] > counts[best] {
			best = id
		}
	}
	h := Hint{
		Script:  best.String(),
		Letters: total,
		Share:   float64(counts[best]) / float64(total),
	}
	if total >= minLetters {
		h.Lang = decisive(best, kana)
	}
	return h
}

// decisive maps scripts used by essentially one language. Han without kana,
// Cyrillic, Arabic, Devanagari and Latin stay ambiguous
func decisive(id script.ID, kana int) string {
	if kana > 0 {
		return "ja"
	}
	switch id {
	case script.Hangul:
		return "ko"
	case script.Hebrew:
		return "he"
	case script.Thai:
		return "th"
	case script.Greek:
		return "el"
	case script.Georgian:
		return "ka"
	case script.Armenian:
		return "hy"
	}
	return ""
}
