// Package normalizer orchestrates the batch pronunciation-normalization
// pipeline: it reads a word list, runs every row through the IPA engine,
// splits the output into accepted and review streams, and optionally
// persists accepted records.
package normalizer

import (
	"context"

	"github.com/usalingo/ipanorm/internal/domain"
)

// PronunciationSink defines the persistence contract consumed by the
// pipeline. All methods use only domain types — no adapter imports.
// Implemented by pronunciation.Repo.
type PronunciationSink interface {
	// BulkInsert inserts records with ON CONFLICT DO NOTHING and returns
	// the number of rows actually written.
	BulkInsert(ctx context.Context, recs []domain.PronunciationRecord) (int, error)
}
