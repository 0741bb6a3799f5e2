// Package arpabet tokenizes ARPAbet-style phoneme code strings and maps
// them to IPA segments. Pure functions: string in, tokens out. No I/O.
package arpabet

// StressLevel is the lexical stress carried by a phoneme token.
type StressLevel int

const (
	StressNone StressLevel = iota
	StressPrimary
	StressSecondary
)

// PhonemeToken is a single uppercase phoneme code with its stress level.
// Tokens are immutable once produced.
type PhonemeToken struct {
	Symbol string
	Stress StressLevel
}

// Tokenize scans a whitespace/comma/slash-delimited phoneme-code string
// (e.g. "AH0 L ER1 T") into ordered tokens. Consecutive uppercase letters
// accumulate into a candidate symbol; a trailing digit closes it with the
// mapped stress level (0 none, 1 primary, 2 secondary); a delimiter or any
// other character closes it unstressed. An open candidate at end of input
// is flushed unstressed. Empty input yields no tokens.
func Tokenize(s string) []PhonemeToken {
	var tokens []PhonemeToken
	start := -1 // index of the open candidate, -1 when closed

	flush := func(end int, level StressLevel) {
		if start == -1 {
			return
		}
		tokens = append(tokens, PhonemeToken{Symbol: s[start:end], Stress: level})
		start = -1
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
			if start == -1 {
				start = i
			}
		case c >= '0' && c <= '2':
			flush(i, stressFromDigit(c))
		default:
			flush(i, StressNone)
		}
	}
	flush(len(s), StressNone)

	return tokens
}

func stressFromDigit(c byte) StressLevel {
	switch c {
	case '1':
		return StressPrimary
	case '2':
		return StressSecondary
	default:
		return StressNone
	}
}
