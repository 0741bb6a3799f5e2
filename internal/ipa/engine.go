package ipa

import (
	"strings"

	"github.com/usalingo/ipanorm/internal/arpabet"
)

// failureMarker may be injected by external rules to force an entry into
// the review stream.
const failureMarker = '�'

// pronunciationSep joins alternative pronunciations within one field.
const pronunciationSep = ", "

// Result is the outcome of normalizing a single pronunciation field.
type Result struct {
	Text    string
	Applied []string
	Valid   bool
	Reason  string
}

// Engine chains tokenization, symbol mapping, stress resolution, the rule
// pipeline, and validation. It holds only the shared read-only rule set,
// so one Engine may serve concurrent workers.
type Engine struct {
	rules *RuleSet
}

// NewEngine creates an Engine over the given rule set.
func NewEngine(rules *RuleSet) *Engine {
	return &Engine{rules: rules}
}

// NormalizeArpabet converts an ARPAbet phoneme-code string into a
// normalized IPA transcription.
func (e *Engine) NormalizeArpabet(code string) Result {
	text := arpabet.MapTokens(arpabet.Tokenize(code))
	return e.repair(text)
}

// RepairIPA normalizes an already-IPA string with inconsistent stress
// marks, duplicated diacritics, or dialect variants. A field holding
// several pronunciations joined by ", " is repaired pronunciation by
// pronunciation and re-joined.
func (e *Engine) RepairIPA(raw string) Result {
	cleaned := preClean(raw)

	parts := strings.Split(cleaned, pronunciationSep)
	repaired := make([]string, 0, len(parts))

	var applied []string
	seen := make(map[string]bool)

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		res := e.repair(part)
		repaired = append(repaired, res.Text)
		for _, id := range res.Applied {
			if !seen[id] {
				seen[id] = true
				applied = append(applied, id)
			}
		}
	}

	text := strings.Join(repaired, pronunciationSep)
	valid, reason := e.classify(text)
	return Result{Text: text, Applied: applied, Valid: valid, Reason: reason}
}

// repair runs one pronunciation through stress resolution, the rule
// pipeline, and validation.
func (e *Engine) repair(text string) Result {
	text = ResolveStress(text)
	text, applied := e.rules.Apply(text)
	valid, reason := e.classify(text)
	return Result{Text: text, Applied: applied, Valid: valid, Reason: reason}
}

func (e *Engine) classify(text string) (bool, string) {
	if strings.ContainsRune(text, failureMarker) {
		return false, "rule produced failure marker"
	}
	return Validate(text)
}

// preClean strips stray bracket characters left by upstream scrapers and
// collapses whitespace runs, mirroring the cleanup the source rule
// documents require before stress repair.
func preClean(raw string) string {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	b.Grow(len(raw))
	prevSpace := false
	for _, r := range raw {
		switch r {
		case '[', ']', '{', '}':
			continue
		}
		if r == ' ' || r == '\t' {
			if prevSpace {
				continue
			}
			prevSpace = true
			b.WriteRune(' ')
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
