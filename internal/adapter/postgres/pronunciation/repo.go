// Package pronunciation implements the normalized-pronunciation repository
// backed by PostgreSQL. Bulk writes use pgx.Batch inside a transaction; read
// queries are built with squirrel.
package pronunciation

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/usalingo/ipanorm/internal/adapter/postgres"
	"github.com/usalingo/ipanorm/internal/domain"
)

// qb builds queries with PostgreSQL $n placeholders.
var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides pronunciation persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	txm  *postgres.TxManager
}

// New creates a new pronunciation repository.
func New(pool *pgxpool.Pool, txm *postgres.TxManager) *Repo {
	return &Repo{pool: pool, txm: txm}
}

// BulkInsert inserts records in one transaction using pgx.Batch.
// Re-running the same batch is not an error: rows already present under the
// (word, ipa, source) unique constraint are skipped via ON CONFLICT DO NOTHING.
// Returns the number of rows actually written.
func (r *Repo) BulkInsert(ctx context.Context, recs []domain.PronunciationRecord) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, rec := range recs {
		batch.Queue(
			`INSERT INTO pronunciations (id, word, ipa, source, original_ipa, created_at)
			 VALUES ($1, $2, $3, $4, $5, now())
			 ON CONFLICT (word, ipa, source) DO NOTHING`,
			rec.ID, rec.Word, rec.IPA, rec.Source, rec.OriginalIPA,
		)
	}

	var inserted int
	err := r.txm.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		inserted, err = r.sendBatchExec(ctx, batch)
		return err
	})
	if err != nil {
		return 0, postgres.MapError(err, "pronunciation", "bulk")
	}

	return inserted, nil
}

// GetByWord returns all stored pronunciations of a word.
// Returns an empty slice (not nil) when the word is unknown.
func (r *Repo) GetByWord(ctx context.Context, word string) ([]domain.PronunciationRecord, error) {
	sql, args, err := qb.
		Select("id", "word", "ipa", "source", "original_ipa").
		From("pronunciations").
		Where(sq.Eq{"word": word}).
		OrderBy("source", "ipa").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "pronunciation", word)
	}
	defer rows.Close()

	result, err := scanRecords(rows)
	if err != nil {
		return nil, postgres.MapError(err, "pronunciation", word)
	}
	return result, nil
}

// GetByWords returns stored pronunciations for multiple words, grouped by word.
// Words without rows are absent from the map.
func (r *Repo) GetByWords(ctx context.Context, words []string) (map[string][]domain.PronunciationRecord, error) {
	if len(words) == 0 {
		return map[string][]domain.PronunciationRecord{}, nil
	}

	sql, args, err := qb.
		Select("id", "word", "ipa", "source", "original_ipa").
		From("pronunciations").
		Where(sq.Eq{"word": words}).
		OrderBy("word", "source", "ipa").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "pronunciation", "batch")
	}
	defer rows.Close()

	recs, err := scanRecords(rows)
	if err != nil {
		return nil, postgres.MapError(err, "pronunciation", "batch")
	}

	grouped := make(map[string][]domain.PronunciationRecord, len(words))
	for _, rec := range recs {
		grouped[rec.Word] = append(grouped[rec.Word], rec)
	}
	return grouped, nil
}

// CountBySource returns row counts grouped by source slug.
func (r *Repo) CountBySource(ctx context.Context) (map[string]int, error) {
	sql, args, err := qb.
		Select("source", "COUNT(*)").
		From("pronunciations").
		GroupBy("source").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "pronunciation", "count")
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var source string
		var n int
		if err := rows.Scan(&source, &n); err != nil {
			return nil, fmt.Errorf("scan count row: %w", err)
		}
		counts[source] = n
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "pronunciation", "count")
	}
	return counts, nil
}

func (r *Repo) sendBatchExec(ctx context.Context, batch *pgx.Batch) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	results := q.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int
	for range batch.Len() {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("batch exec: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, nil
}

func scanRecords(rows pgx.Rows) ([]domain.PronunciationRecord, error) {
	result := []domain.PronunciationRecord{}
	for rows.Next() {
		var rec domain.PronunciationRecord
		if err := rows.Scan(&rec.ID, &rec.Word, &rec.IPA, &rec.Source, &rec.OriginalIPA); err != nil {
			return nil, fmt.Errorf("scan pronunciation row: %w", err)
		}
		rec.Valid = true
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pronunciation rows: %w", err)
	}
	return result, nil
}
