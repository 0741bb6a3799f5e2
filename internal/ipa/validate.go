package ipa

import (
	"strings"
	"unicode/utf8"
)

// forbiddenChars never appear in a well-formed transcription; they betray
// leaked markup or quoting from the source data.
const forbiddenChars = `<>&"'()[]{}`

// ipaIndicators is the minimal glyph set whose presence makes a short
// string plausible as IPA: stress marks, non-ASCII vowels, the length
// mark, the rhotic, and the phonemic slash.
const ipaIndicators = "ˈˌəɪɛæɑɔʊʌ/ːɜr"

// Validate gates a finished transcription. It returns ok=false with a
// short reason when the text is empty or under two characters after
// trimming, contains a forbidden character, or contains no IPA indicator
// while being under three characters (short plain-ASCII strings are
// assumed mistranscriptions). The checks are independent; any one rejects.
func Validate(text string) (bool, string) {
	trimmed := strings.TrimSpace(text)

	if utf8.RuneCountInString(trimmed) < 2 {
		return false, "too short"
	}

	if i := strings.IndexAny(trimmed, forbiddenChars); i >= 0 {
		return false, "forbidden character " + string(trimmed[i])
	}

	if !strings.ContainsAny(trimmed, ipaIndicators) && utf8.RuneCountInString(trimmed) < 3 {
		return false, "no IPA indicators"
	}

	return true, ""
}
