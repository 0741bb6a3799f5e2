// Command normalizer converts a word list of ARPAbet codes or raw IPA
// strings into normalized IPA transcriptions. Accepted records go to the
// output stream; rejected ones go to the review stream for human
// inspection. It is intended to be run offline as a batch job.
//
// Flags:
//
//	--input              path to the input word list (csv/tsv)
//	--output             path for accepted records
//	--review             path for rejected records
//	--rules              optional tab-separated external rule table
//	--mode               auto | arpabet | ipa
//	--workers            number of normalization workers
//	--dry-run            process and report without writing any output
//	--store              also persist accepted records to PostgreSQL
//	--normalizer-config  path to normalizer YAML config file
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/usalingo/ipanorm/internal/adapter/postgres"
	"github.com/usalingo/ipanorm/internal/adapter/postgres/pronunciation"
	"github.com/usalingo/ipanorm/internal/app"
	"github.com/usalingo/ipanorm/internal/app/normalizer"
	"github.com/usalingo/ipanorm/internal/config"
	"github.com/usalingo/ipanorm/internal/ipa"
)

// Compile-time interface assertion.
var _ normalizer.PronunciationSink = (*pronunciation.Repo)(nil)

func main() {
	inputFlag := flag.String("input", "", "path to the input word list")
	outputFlag := flag.String("output", "", "path for accepted records")
	reviewFlag := flag.String("review", "", "path for rejected records")
	rulesFlag := flag.String("rules", "", "path to an external rule table")
	modeFlag := flag.String("mode", "", "auto | arpabet | ipa")
	workersFlag := flag.Int("workers", 0, "number of normalization workers")
	dryRunFlag := flag.Bool("dry-run", false, "process and report without writing output")
	storeFlag := flag.Bool("store", false, "persist accepted records to PostgreSQL")
	normalizerConfigFlag := flag.String("normalizer-config", "", "path to normalizer YAML config file")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		log.Println(app.BuildVersion())
		return
	}

	// Load app config (for DB connection and logging).
	appCfg, err := config.Load()
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}

	logger := app.NewLogger(appCfg.Log)

	// Load normalizer config.
	cfg, err := normalizer.LoadConfig(*normalizerConfigFlag)
	if err != nil {
		logger.Error("load normalizer config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// CLI flags override config.
	if *inputFlag != "" {
		cfg.InputPath = *inputFlag
	}
	if *outputFlag != "" {
		cfg.OutputPath = *outputFlag
	}
	if *reviewFlag != "" {
		cfg.ReviewPath = *reviewFlag
	}
	if *rulesFlag != "" {
		cfg.RulesPath = *rulesFlag
	}
	if *modeFlag != "" {
		cfg.Mode = *modeFlag
	}
	if *workersFlag > 0 {
		cfg.Workers = *workersFlag
	}
	if *dryRunFlag {
		cfg.DryRun = true
	}
	if *storeFlag {
		cfg.Store = true
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rules, err := ipa.LoadRules(cfg.RulesPath, logger)
	if err != nil {
		logger.Error("load rules", slog.String("error", err.Error()))
		os.Exit(1)
	}
	engine := ipa.NewEngine(rules)

	// 30-minute context timeout.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	// Connect to DB only when storing.
	var sink normalizer.PronunciationSink
	if cfg.Store {
		pool, err := postgres.NewPool(ctx, appCfg.Database)
		if err != nil {
			logger.Error("connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()

		sink = pronunciation.New(pool, postgres.NewTxManager(pool))
	}

	// Run pipeline.
	pipeline := normalizer.NewPipeline(logger, engine, sink, *cfg)
	if err := pipeline.Run(ctx); err != nil {
		logger.Error("pipeline failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("pipeline completed successfully")
}
