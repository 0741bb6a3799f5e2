package domain

import (
	"strings"

	"github.com/google/uuid"
)

// PronunciationRecord is one word-list entry after it has been through the
// normalization pipeline. It is created per input row and never mutated
// once the pipeline finishes with it.
type PronunciationRecord struct {
	ID           uuid.UUID
	Word         string
	SourceCode   string // raw ARPAbet code or raw IPA, as read
	Source       string
	OriginalIPA  string
	IPA          string // final normalized transcription; empty when skipped
	AppliedRules []string
	Valid        bool
	Reason       string // rejection reason when Valid is false
}

// ChangesCount is the number of rules that fired for this record.
func (r PronunciationRecord) ChangesCount() int {
	return len(r.AppliedRules)
}

// ChangesDetail joins the fired-rule identifiers for the audit stream.
func (r PronunciationRecord) ChangesDetail() string {
	return strings.Join(r.AppliedRules, ";")
}
