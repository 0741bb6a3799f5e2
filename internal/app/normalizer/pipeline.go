package normalizer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/usalingo/ipanorm/internal/domain"
	"github.com/usalingo/ipanorm/internal/ipa"
	"github.com/usalingo/ipanorm/internal/wordlist"
)

// Stats holds the outcome counters of a pipeline run.
type Stats struct {
	Total    int
	Valid    int
	Invalid  int
	Skipped  int
	Changed  int
	Stored   int
	Duration time.Duration
}

// Coverage is the share of input rows that produced an accepted
// transcription, in percent.
func (s Stats) Coverage() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Valid) / float64(s.Total) * 100
}

// Pipeline runs the read→normalize→partition→write sequence.
type Pipeline struct {
	log    *slog.Logger
	engine *ipa.Engine
	sink   PronunciationSink // nil unless storing is enabled
	cfg    Config
	stats  Stats
}

// NewPipeline creates a Pipeline. sink may be nil; it is only consulted
// when cfg.Store is set.
func NewPipeline(log *slog.Logger, engine *ipa.Engine, sink PronunciationSink, cfg Config) *Pipeline {
	return &Pipeline{
		log:    log,
		engine: engine,
		sink:   sink,
		cfg:    cfg,
	}
}

// Stats returns run counters after Run completes.
func (p *Pipeline) Stats() Stats {
	return p.stats
}

// outcome is one processed row. skip marks malformed rows that belong in
// neither output stream.
type outcome struct {
	rec  domain.PronunciationRecord
	skip bool
}

// Run executes the pipeline: read the word list, normalize every row
// with a worker pool, write the accepted and review streams, and store
// accepted records when configured.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()

	rows, err := wordlist.ReadAll(p.cfg.InputPath)
	if err != nil {
		return err
	}
	p.log.Info("word list read",
		slog.String("path", p.cfg.InputPath),
		slog.Int("rows", len(rows)),
	)

	outcomes := p.process(ctx, rows)

	var accepted, rejected []domain.PronunciationRecord
	for i, o := range outcomes {
		if o.skip {
			p.stats.Skipped++
			p.log.Warn("skipping row",
				slog.Int("row", i+1),
				slog.String("word", rows[i].Word),
				slog.String("error", domain.ErrMalformedRecord.Error()),
			)
			continue
		}
		if o.rec.ChangesCount() > 0 {
			p.stats.Changed++
		}
		if o.rec.Valid {
			p.stats.Valid++
			accepted = append(accepted, o.rec)
		} else {
			p.stats.Invalid++
			rejected = append(rejected, o.rec)
		}
	}
	p.stats.Total = len(rows)

	if p.cfg.DryRun {
		p.stats.Duration = time.Since(start)
		p.logSummary()
		return nil
	}

	if err := wordlist.WriteResults(p.cfg.OutputPath, accepted); err != nil {
		return err
	}
	if p.cfg.ReviewPath != "" {
		if err := wordlist.WriteReview(p.cfg.ReviewPath, rejected); err != nil {
			return err
		}
	}

	if p.cfg.Store && p.sink != nil {
		stored, err := batchProcess(accepted, p.cfg.BatchSize, func(batch []domain.PronunciationRecord) (int, error) {
			return p.sink.BulkInsert(ctx, batch)
		})
		if err != nil {
			return fmt.Errorf("store pronunciations: %w", err)
		}
		p.stats.Stored = stored
	}

	p.stats.Duration = time.Since(start)
	p.logSummary()
	return nil
}

// process normalizes rows with cfg.Workers goroutines. Output order
// matches input order: workers write by row index.
func (p *Pipeline) process(ctx context.Context, rows []wordlist.Row) []outcome {
	workers := p.cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	outcomes := make([]outcome, len(rows))
	indexes := make(chan int)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				outcomes[i] = p.processRow(rows[i])
			}
		}()
	}

	for i := range rows {
		select {
		case <-ctx.Done():
			close(indexes)
			wg.Wait()
			return outcomes
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()

	return outcomes
}

// processRow normalizes a single input row according to the configured
// mode. Rows with no word or no usable transcription column are skipped.
func (p *Pipeline) processRow(row wordlist.Row) outcome {
	word := domain.NormalizeWord(row.Word)
	if word == "" {
		return outcome{skip: true}
	}

	var source string
	var res ipa.Result

	switch p.cfg.Mode {
	case "arpabet":
		source = row.ArpabetCode
		if source == "" {
			return outcome{skip: true}
		}
		res = p.engine.NormalizeArpabet(source)
	case "ipa":
		source = row.IPA
		if source == "" {
			return outcome{skip: true}
		}
		res = p.engine.RepairIPA(source)
	default: // auto
		if row.ArpabetCode != "" {
			source = row.ArpabetCode
			res = p.engine.NormalizeArpabet(source)
		} else if row.IPA != "" {
			source = row.IPA
			res = p.engine.RepairIPA(source)
		} else {
			return outcome{skip: true}
		}
	}

	return outcome{rec: domain.PronunciationRecord{
		ID:           uuid.New(),
		Word:         word,
		SourceCode:   source,
		Source:       row.Source,
		OriginalIPA:  row.IPA,
		IPA:          res.Text,
		AppliedRules: res.Applied,
		Valid:        res.Valid,
		Reason:       res.Reason,
	}}
}

func (p *Pipeline) logSummary() {
	p.log.Info("pipeline completed",
		slog.Int("total", p.stats.Total),
		slog.Int("valid", p.stats.Valid),
		slog.Int("invalid", p.stats.Invalid),
		slog.Int("skipped", p.stats.Skipped),
		slog.Int("changed", p.stats.Changed),
		slog.Int("stored", p.stats.Stored),
		slog.String("coverage", fmt.Sprintf("%.1f%%", p.stats.Coverage())),
		slog.Duration("duration", p.stats.Duration),
		slog.Bool("dry_run", p.cfg.DryRun),
	)
}

// batchProcess splits items into batches and processes each via fn.
func batchProcess[T any](items []T, batchSize int, fn func([]T) (int, error)) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = 500
	}

	total := 0
	for i := 0; i < len(items); i += batchSize {
		end := min(i+batchSize, len(items))
		n, err := fn(items[i:end])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
