package ipa

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/usalingo/ipanorm/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func TestBuiltinRules(t *testing.T) {
	rs := NewRuleSet(BuiltinRules())

	tests := []struct {
		name        string
		input       string
		want        string
		wantApplied []string
	}{
		{"rhotic vowel merge", "kɝt", "kɜːrt", []string{"rhotic-vowel-merge"}},
		{"rhotic consonant unification", "ɹʊn", "rʊn", []string{"rhotic-consonant"}},
		{"affricate dj", "ædjʊl", "ædʒʊl", []string{"affricate-dj"}},
		{"affricate coalescing both", "tjɑdjɑ", "tʃɑdʒɑ", []string{"affricate-tj", "affricate-dj"}},
		{"length mark collapse", "iːːː", "iː", []string{"length-mark-collapse"}},
		{"stress mark collapse keeps first", "ˌˈbæt", "ˌbæt", []string{"stress-mark-collapse"}},
		{"no trigger", "əbˈɔrʃən", "əbˈɔrʃən", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, applied := rs.Apply(tt.input)
			if got != tt.want {
				t.Errorf("Apply(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if len(applied) != len(tt.wantApplied) {
				t.Fatalf("Apply(%q) applied %v, want %v", tt.input, applied, tt.wantApplied)
			}
			for i := range applied {
				if applied[i] != tt.wantApplied[i] {
					t.Errorf("Apply(%q) applied[%d] = %q, want %q", tt.input, i, applied[i], tt.wantApplied[i])
				}
			}
		})
	}
}

func TestRulesApplySequentially(t *testing.T) {
	// Later rules must see the output of earlier ones: ɝ expands to ɜːr,
	// and an external rule matching the produced r must then fire.
	rules := append(BuiltinRules(), Rule{
		ID:       "external:1",
		Pattern:  regexp.MustCompile("ːr"),
		Replace:  "ːɹ",
		Priority: 100,
	})
	rs := NewRuleSet(rules)

	got, applied := rs.Apply("kɝt")
	if got != "kɜːɹt" {
		t.Errorf("Apply = %q, want %q", got, "kɜːɹt")
	}
	if len(applied) != 2 || applied[0] != "rhotic-vowel-merge" || applied[1] != "external:1" {
		t.Errorf("applied = %v, want [rhotic-vowel-merge external:1]", applied)
	}
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.tsv")
	content := "# dialect fixes\n" +
		"ɒ\tɑ\n" +
		"\n" +
		"broken(pattern\tx\n" +
		"too\tmany\tfields\n" +
		"ɪtː\tɪt\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rs, err := LoadRules(path, discardLogger())
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}

	builtins := len(BuiltinRules())
	rules := rs.Rules()
	if len(rules) != builtins+2 {
		t.Fatalf("loaded %d rules, want %d builtins + 2 external", len(rules), builtins)
	}

	ext := rules[builtins:]
	if ext[0].ID != "external:2" || ext[1].ID != "external:6" {
		t.Errorf("external rule IDs = %q, %q; want external:2, external:6", ext[0].ID, ext[1].ID)
	}
	if ext[0].Priority >= ext[1].Priority {
		t.Errorf("external priorities not increasing: %d, %d", ext[0].Priority, ext[1].Priority)
	}

	got, _ := rs.Apply("ɒ")
	if got != "ɑ" {
		t.Errorf("external rule did not fire: got %q", got)
	}
}

func TestParseRuleLine(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"one field", "nolonetab"},
		{"three fields", "a\tb\tc"},
		{"bad pattern", "broken(pattern\tx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseRuleLine(tt.line, 1, 10)
			if !errors.Is(err, domain.ErrMalformedRule) {
				t.Errorf("parseRuleLine(%q) = %v, want ErrMalformedRule", tt.line, err)
			}
		})
	}

	rule, err := parseRuleLine("ɒ\tɑ", 3, 10)
	if err != nil {
		t.Fatalf("parseRuleLine: %v", err)
	}
	if rule.ID != "external:3" || rule.Replace != "ɑ" || rule.Priority != 10 {
		t.Errorf("rule = %+v", rule)
	}
}

func TestLoadRulesMissingFile(t *testing.T) {
	if _, err := LoadRules(filepath.Join(t.TempDir(), "absent.tsv"), discardLogger()); err == nil {
		t.Fatal("LoadRules should fail on an unreadable table")
	}
}

func TestLoadRulesEmptyPath(t *testing.T) {
	rs, err := LoadRules("", discardLogger())
	if err != nil {
		t.Fatalf("LoadRules(\"\"): %v", err)
	}
	if len(rs.Rules()) != len(BuiltinRules()) {
		t.Errorf("empty path should yield built-ins only, got %d rules", len(rs.Rules()))
	}
}
