//go:build integration

package normalizer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usalingo/ipanorm/internal/adapter/postgres"
	"github.com/usalingo/ipanorm/internal/adapter/postgres/pronunciation"
	"github.com/usalingo/ipanorm/internal/adapter/postgres/testhelper"
	"github.com/usalingo/ipanorm/internal/ipa"
)

func TestIntegration_PipelineStoresAcceptedRecords(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := pronunciation.New(pool, postgres.NewTxManager(pool))
	ctx := context.Background()

	dir := t.TempDir()
	input := filepath.Join(dir, "input.csv")
	require.NoError(t, os.WriteFile(input, []byte(
		"word,arpabet_code,source\n"+
			"abortion,AH0 B AO1 R SH AH0 N,cmu\n"+
			"cat,K AE1 T,cmu\n"+
			"x,,cmu\n"), 0o644)) // no code, skipped

	cfg := Config{
		InputPath:  input,
		OutputPath: filepath.Join(dir, "output.csv"),
		ReviewPath: filepath.Join(dir, "review.csv"),
		Mode:       "arpabet",
		Workers:    2,
		BatchSize:  100,
		Store:      true,
	}

	engine := ipa.NewEngine(ipa.NewRuleSet(ipa.BuiltinRules()))
	p := NewPipeline(testLogger(), engine, repo, cfg)
	require.NoError(t, p.Run(ctx))

	stats := p.Stats()
	assert.Equal(t, 2, stats.Valid)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 2, stats.Stored)

	got, err := repo.GetByWord(ctx, "abortion")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "əbˈɔrʃən", got[0].IPA)
	assert.Equal(t, "cmu", got[0].Source)

	// Re-running the same input must not duplicate rows.
	p2 := NewPipeline(testLogger(), engine, repo, cfg)
	require.NoError(t, p2.Run(ctx))
	assert.Equal(t, 0, p2.Stats().Stored)
}
