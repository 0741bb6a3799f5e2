package arpabet

import "strings"

const (
	primaryStressMark   = "ˈ" // ˈ
	secondaryStressMark = "ˌ" // ˌ
)

// vowelMap maps ARPAbet vowel codes to IPA glyphs, including long vowels
// and diphthongs. ER keeps its American long-central form per the mapping
// rule documents.
var vowelMap = map[string]string{
	"AA": "ɑ",         // ɑ
	"AE": "æ",         // æ
	"AH": "ʌ",         // ʌ (ə when unstressed, see mapToken)
	"AO": "ɔ",         // ɔ
	"AW": "aʊ",        // aʊ
	"AY": "aɪ",        // aɪ
	"EH": "ɛ",         // ɛ
	"ER": "ɜːr",  // ɜːr
	"EY": "eɪ",        // eɪ
	"IH": "ɪ",         // ɪ
	"IY": "iː",        // iː
	"OW": "oʊ",        // oʊ
	"OY": "ɔɪ",   // ɔɪ
	"UH": "ʊ",         // ʊ
	"UW": "uː",        // uː
}

// consonantMap maps ARPAbet consonant codes to IPA glyphs, including
// affricates. The rhotic approximant is rendered as a plain "r".
var consonantMap = map[string]string{
	"P":  "p",
	"B":  "b",
	"T":  "t",
	"D":  "d",
	"K":  "k",
	"G":  "ɡ",   // ɡ
	"CH": "tʃ",  // tʃ
	"JH": "dʒ",  // dʒ
	"F":  "f",
	"V":  "v",
	"TH": "θ",   // θ
	"DH": "ð",   // ð
	"S":  "s",
	"Z":  "z",
	"SH": "ʃ",   // ʃ
	"ZH": "ʒ",   // ʒ
	"HH": "h",
	"M":  "m",
	"N":  "n",
	"NG": "ŋ",   // ŋ
	"L":  "l",
	"R":  "r",
	"W":  "w",
	"Y":  "j",
}

// MapTokens renders tokens as one concatenated IPA string. Vowel segments
// are prefixed with a stress mark when the token carries stress; consonant
// segments never are. Codes found in neither table are dropped silently
// (documented permissive behavior, not an error).
func MapTokens(tokens []PhonemeToken) string {
	var b strings.Builder
	for _, t := range tokens {
		if seg, ok := mapToken(t); ok {
			b.WriteString(seg)
		}
	}
	return b.String()
}

// mapToken maps a single token to its IPA segment. AH is the one
// context-sensitive code: with stress it is the open-mid back vowel ʌ,
// without it the schwa ə. The check runs before the generic lookup so the
// exception stays visible and testable on its own.
func mapToken(t PhonemeToken) (string, bool) {
	if t.Symbol == "AH" && t.Stress == StressNone {
		return "ə", true // ə
	}

	if ipa, ok := vowelMap[t.Symbol]; ok {
		switch t.Stress {
		case StressPrimary:
			return primaryStressMark + ipa, true
		case StressSecondary:
			return secondaryStressMark + ipa, true
		}
		return ipa, true
	}

	if ipa, ok := consonantMap[t.Symbol]; ok {
		return ipa, true
	}

	return "", false
}
