package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"boolsearch/pkg/config"
	"boolsearch/pkg/index"
)

func recordSGML(id int, title, body string) string {
	return fmt.Sprintf(`<REUTERS NEWID="%d">
<TEXT>
<TITLE>%s</TITLE>
<BODY>%s</BODY></TEXT>
</REUTERS>
`, id, title, body)
}

func fixtureConfig(t *testing.T, stem bool) *config.Config {
	t.Helper()
	corpusDir := t.TempDir()

	f1 := recordSGML(1, "COCOA REVIEW", "Showers in the cocoa zone.") +
		recordSGML(2, "OIL PRICES RISE", "Crude oil prices rose.")
	f2 := recordSGML(3, "COCOA EXPORT", "Cocoa exports grew.") +
		recordSGML(4, "MONEY MARKET", "Money market rates held.")
	require.NoError(t, os.WriteFile(filepath.Join(corpusDir, "reut2-000.sgm"), []byte(f1), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(corpusDir, "reut2-001.sgm"), []byte(f2), 0644))

	cfg := config.Default()
	cfg.Corpus.Dir = corpusDir
	cfg.Index.OutputDir = t.TempDir()
	cfg.Index.BatchDocs = 2
	cfg.Index.Stem = stem
	cfg.Engine.CacheSize = 16
	cfg.Engine.Readers = 2
	return cfg
}

func newTestEngine(t *testing.T, stem bool) *Engine {
	t.Helper()
	cfg := fixtureConfig(t, stem)

	_, err := index.Build(cfg)
	require.NoError(t, err)

	eg, err := NewEngine(cfg.Index.OutputDir, cfg.Engine)
	require.NoError(t, err)
	t.Cleanup(eg.Close)
	return eg
}

func TestProcessConjunctive(t *testing.T) {
	eg := newTestEngine(t, false)

	docs, err := eg.Process(QueryConjunctive, "cocoa AND zone")
	require.NoError(t, err)
	require.Equal(t, []int{1}, docs)

	docs, err = eg.Process(QueryConjunctive, "cocoa")
	require.NoError(t, err)
	require.Equal(t, []int{1, 3}, docs)

	docs, err = eg.Process(QueryConjunctive, "cocoa AND money")
	require.NoError(t, err)
	require.Equal(t, []int{}, docs)

	docs, err = eg.Process(QueryConjunctive, "cocoa AND notaword")
	require.NoError(t, err)
	require.Equal(t, []int{}, docs)

	docs, err = eg.Process(QueryConjunctive, "")
	require.NoError(t, err)
	require.Equal(t, []int{}, docs)
}

func TestProcessDisjunctive(t *testing.T) {
	eg := newTestEngine(t, false)

	docs, err := eg.Process(QueryDisjunctive, "zone OR money")
	require.NoError(t, err)
	require.Equal(t, []int{1, 4}, docs)

	docs, err = eg.Process(QueryDisjunctive, "oil")
	require.NoError(t, err)
	require.Equal(t, []int{2}, docs)

	docs, err = eg.Process(QueryDisjunctive, "notaword OR nothing")
	require.NoError(t, err)
	require.Equal(t, []int{}, docs)
}

func TestProcessWildcard(t *testing.T) {
	eg := newTestEngine(t, false)

	docs, err := eg.Process(QueryWildcard, "mon*")
	require.NoError(t, err)
	require.Equal(t, []int{4}, docs)

	docs, err = eg.Process(QueryWildcard, "*ocoa")
	require.NoError(t, err)
	require.Equal(t, []int{1, 3}, docs)

	docs, err = eg.Process(QueryWildcard, "c*a")
	require.NoError(t, err)
	require.Equal(t, []int{1, 3}, docs)

	// "$r" also pulls in "review" and "rates"; the affix filter must
	// drop them.
	docs, err = eg.Process(QueryWildcard, "r*se")
	require.NoError(t, err)
	require.Equal(t, []int{2}, docs)

	docs, err = eg.Process(QueryWildcard, "xyz*")
	require.NoError(t, err)
	require.Equal(t, []int{}, docs)

	// No star at all: falls back to a keyword union.
	docs, err = eg.Process(QueryWildcard, "cocoa money")
	require.NoError(t, err)
	require.Equal(t, []int{1, 3, 4}, docs)

	_, err = eg.Process(QueryWildcard, "m*n*y")
	require.ErrorIs(t, err, ErrMalformedWildcard)
}

func TestProcessNormalizesQuery(t *testing.T) {
	eg := newTestEngine(t, false)

	docs, err := eg.Process(QueryConjunctive, "  COCOA and ZONE ")
	require.NoError(t, err)
	require.Equal(t, []int{1}, docs)
}

func TestProcessUnknownType(t *testing.T) {
	eg := newTestEngine(t, false)

	_, err := eg.Process(QueryType(9), "cocoa")
	require.ErrorIs(t, err, ErrUnknownQueryType)
}

func TestProcessStemmed(t *testing.T) {
	eg := newTestEngine(t, true)
	require.True(t, eg.Stats().Stemmed)

	// Query keywords get stemmed to match the stemmed dictionary.
	docs, err := eg.Process(QueryConjunctive, "prices")
	require.NoError(t, err)
	require.Equal(t, []int{2}, docs)
}

func TestEngineStats(t *testing.T) {
	eg := newTestEngine(t, false)

	stats := eg.Stats()
	require.Equal(t, 4, stats.Docs)
	require.Positive(t, stats.Terms)
	require.Positive(t, stats.Bigrams)
}

func TestEngineClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := fixtureConfig(t, false)
	_, err := index.Build(cfg)
	require.NoError(t, err)

	eg, err := NewEngine(cfg.Index.OutputDir, cfg.Engine)
	require.NoError(t, err)

	docs, err := eg.Process(QueryConjunctive, "cocoa")
	require.NoError(t, err)
	require.Equal(t, []int{1, 3}, docs)

	eg.Close()
	eg.Close() // idempotent
}

func TestNewEngineMissingArtifacts(t *testing.T) {
	_, err := NewEngine(t.TempDir(), config.Default().Engine)
	require.ErrorIs(t, err, index.ErrArtifactNotFound)
}
