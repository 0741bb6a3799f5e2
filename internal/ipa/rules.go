package ipa

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/usalingo/ipanorm/internal/domain"
)

// Rule is one ordered substitution. Rules apply in ascending Priority;
// each rule rewrites all non-overlapping matches before the next rule
// sees the text.
type Rule struct {
	ID       string
	Pattern  *regexp.Regexp
	Replace  string
	Priority int
}

// BuiltinRules returns the always-present American English corrections,
// in their canonical order. External tables are appended after these.
func BuiltinRules() []Rule {
	return []Rule{
		{ID: "rhotic-vowel-merge", Pattern: regexp.MustCompile(`ɝ`), Replace: "ɜːr", Priority: 0},        // ɝ → ɜːr
		{ID: "rhotic-consonant", Pattern: regexp.MustCompile(`ɹ`), Replace: "r", Priority: 1},                      // ɹ → r
		{ID: "affricate-tj", Pattern: regexp.MustCompile(`tj`), Replace: "tʃ", Priority: 2},                        // tj → tʃ
		{ID: "affricate-dj", Pattern: regexp.MustCompile(`dj`), Replace: "dʒ", Priority: 3},                        // dj → dʒ
		{ID: "length-mark-collapse", Pattern: regexp.MustCompile(`ː{2,}`), Replace: "ː", Priority: 4},         // ːː+ → ː
		{ID: "stress-mark-collapse", Pattern: regexp.MustCompile(`([\x{2c8}\x{2cc}])[\x{2c8}\x{2cc}]+`), Replace: "$1", Priority: 5},
	}
}

// RuleSet is an ordered, read-only rule list shared by a whole batch run.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet builds a RuleSet, ordering rules by priority. The sort is
// stable so rules sharing a priority keep their declared order.
func NewRuleSet(rules []Rule) *RuleSet {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })
	return &RuleSet{rules: sorted}
}

// Rules returns the rules in application order.
func (rs *RuleSet) Rules() []Rule {
	return rs.rules
}

// Apply runs every rule, in order, against the accumulated text. A rule is
// recorded as applied when the text differs before and after it.
func (rs *RuleSet) Apply(text string) (string, []string) {
	var applied []string
	for _, r := range rs.rules {
		next := r.Pattern.ReplaceAllString(text, r.Replace)
		if next != text {
			applied = append(applied, r.ID)
			text = next
		}
	}
	return text, applied
}

// LoadRules builds the batch rule set: the built-ins followed by the
// external table at path, if any. Pass an empty path to use built-ins only.
func LoadRules(path string, log *slog.Logger) (*RuleSet, error) {
	rules := BuiltinRules()

	if path != "" {
		ext, err := loadRuleTable(path, len(rules), log)
		if err != nil {
			return nil, err
		}
		rules = append(rules, ext...)
	}

	return NewRuleSet(rules), nil
}

// loadRuleTable reads an external rule table: UTF-8 text, one
// pattern<TAB>replacement per line, blank lines and #-comments ignored.
// Malformed lines (wrong field count, pattern fails to compile) are
// skipped with a warning, never fatal. Priorities continue from nextPriority.
func loadRuleTable(path string, nextPriority int, log *slog.Logger) ([]Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rule table %s: %w", path, err)
	}
	defer f.Close()

	var rules []Rule
	lineNo := 0

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rule, err := parseRuleLine(line, lineNo, nextPriority)
		if err != nil {
			log.Warn("skipping rule",
				slog.String("path", path), slog.Int("line", lineNo), slog.String("error", err.Error()))
			continue
		}

		rules = append(rules, rule)
		nextPriority++
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read rule table %s: %w", path, err)
	}

	return rules, nil
}

// parseRuleLine parses one pattern<TAB>replacement table line. Errors wrap
// domain.ErrMalformedRule so callers can classify them.
func parseRuleLine(line string, lineNo, priority int) (Rule, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 2 {
		return Rule{}, fmt.Errorf("%w: want pattern<TAB>replacement, got %d fields", domain.ErrMalformedRule, len(fields))
	}

	pattern, err := regexp.Compile(fields[0])
	if err != nil {
		return Rule{}, fmt.Errorf("%w: pattern does not compile: %v", domain.ErrMalformedRule, err)
	}

	return Rule{
		ID:       fmt.Sprintf("external:%d", lineNo),
		Pattern:  pattern,
		Replace:  fields[1],
		Priority: priority,
	}, nil
}
