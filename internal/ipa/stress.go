// Package ipa repairs and validates IPA transcription strings: stress-mark
// placement, ordered substitution rules, and format validation. Pure
// string-in/string-out functions plus the Engine that chains them.
package ipa

const (
	// PrimaryStress is the primary lexical stress mark ˈ (U+02C8).
	PrimaryStress = 'ˈ'
	// SecondaryStress is the secondary lexical stress mark ˌ (U+02CC).
	SecondaryStress = 'ˌ'
)

// stressVowels are the vowel nuclei the stress resolver recognizes.
var stressVowels = map[rune]bool{
	'a': true, 'e': true, 'i': true, 'o': true, 'u': true,
	'æ': true, // æ
	'ɑ': true, // ɑ
	'ɔ': true, // ɔ
	'ʊ': true, // ʊ
	'ʌ': true, // ʌ
	'ɪ': true, // ɪ
	'ɛ': true, // ɛ
	'ə': true, // ə
	'ɜ': true, // ɜ
}

func isStressMark(r rune) bool {
	return r == PrimaryStress || r == SecondaryStress
}

func isVowel(r rune) bool {
	return stressVowels[r]
}

// ResolveStress normalizes stress-mark count and position:
//
//  1. a run of two or more consecutive stress marks collapses to its
//     left-most mark,
//  2. a mark sitting before two consecutive non-vowels (a consonant
//     cluster instead of a vowel nucleus) is deleted,
//  3. if no mark remains anywhere and the text has at least one vowel, a
//     primary mark is inserted immediately before the first vowel.
//
// The pass is idempotent: its output passes through unchanged.
func ResolveStress(text string) string {
	rs := collapseRuns([]rune(text))
	rs = dropClusterMarks(rs)
	rs = insertLeadingMark(rs)
	return string(rs)
}

// StressPositions returns the rune indexes of all stress marks in text,
// in order.
func StressPositions(text string) []int {
	var pos []int
	for i, r := range []rune(text) {
		if isStressMark(r) {
			pos = append(pos, i)
		}
	}
	return pos
}

// collapseRuns keeps the left-most mark of every stress-mark run. The
// left-most-wins tie-break is deliberate, inherited behavior.
func collapseRuns(rs []rune) []rune {
	out := rs[:0:0]
	for i, r := range rs {
		if isStressMark(r) && i > 0 && isStressMark(rs[i-1]) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// dropClusterMarks deletes a stress mark whose next two runes are both
// non-vowels, i.e. the mark precedes a consonant cluster.
func dropClusterMarks(rs []rune) []rune {
	out := rs[:0:0]
	for i, r := range rs {
		if isStressMark(r) && i+2 < len(rs) && !isVowel(rs[i+1]) && !isVowel(rs[i+2]) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// insertLeadingMark inserts a primary stress mark before the first vowel
// when the text carries no mark at all. Texts without any vowel are left
// alone.
func insertLeadingMark(rs []rune) []rune {
	for _, r := range rs {
		if isStressMark(r) {
			return rs
		}
	}
	for i, r := range rs {
		if isVowel(r) {
			out := make([]rune, 0, len(rs)+1)
			out = append(out, rs[:i]...)
			out = append(out, PrimaryStress)
			out = append(out, rs[i:]...)
			return out
		}
	}
	return rs
}
