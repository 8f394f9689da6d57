package index

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"boolsearch/pkg/config"
)

func recordSGML(id int, title, body string) string {
	return fmt.Sprintf(`<REUTERS NEWID="%d">
<TEXT>
<TITLE>%s</TITLE>
<BODY>%s</BODY></TEXT>
</REUTERS>
`, id, title, body)
}

func fixtureConfig(t *testing.T) *config.Config {
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
	// Force several partials even on a tiny corpus.
	cfg.Index.BatchDocs = 2
	return cfg
}

func TestBuild(t *testing.T) {
	cfg := fixtureConfig(t)

	stats, err := Build(cfg)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Files)
	require.Equal(t, 4, stats.Docs)
	require.Positive(t, stats.Terms)
	require.Positive(t, stats.Bigrams)

	idx, err := OpenArtifact(filepath.Join(cfg.Index.OutputDir, IndexArtifact), KindIndex)
	require.NoError(t, err)
	require.Equal(t, stats.Terms, idx.Entries)
	require.NotNil(t, idx.Stats)
	require.Equal(t, 4, idx.Stats.Docs)

	bg, err := OpenArtifact(filepath.Join(cfg.Index.OutputDir, BigramArtifact), KindBigram)
	require.NoError(t, err)
	require.Equal(t, stats.Bigrams, bg.Entries)

	f, err := idx.Open()
	require.NoError(t, err)
	defer f.Close()

	off, ok := idx.Dict["cocoa"]
	require.True(t, ok)
	tp, err := idx.PostingsAt(f, off)
	require.NoError(t, err)
	require.Equal(t, []int{1, 3}, tp.DocIDs)

	bf, err := bg.Open()
	require.NoError(t, err)
	defer bf.Close()

	boff, ok := bg.Dict["$c"]
	require.True(t, ok)
	tl, err := bg.TermListAt(bf, boff)
	require.NoError(t, err)
	require.Contains(t, tl.Terms, "cocoa")
	require.Contains(t, tl.Terms, "crude")

	// The partial spill dir is gone when the build finishes.
	_, err = os.Stat(filepath.Join(cfg.Index.OutputDir, ".partials"))
	require.True(t, os.IsNotExist(err))
}

func TestBuildIdempotent(t *testing.T) {
	cfg := fixtureConfig(t)

	first, err := Build(cfg)
	require.NoError(t, err)
	second, err := Build(cfg)
	require.NoError(t, err)

	require.Equal(t, first.Docs, second.Docs)
	require.Equal(t, first.Terms, second.Terms)
	require.Equal(t, first.Postings, second.Postings)
	require.Equal(t, first.Bigrams, second.Bigrams)

	idx, err := OpenArtifact(filepath.Join(cfg.Index.OutputDir, IndexArtifact), KindIndex)
	require.NoError(t, err)
	require.Equal(t, second.Terms, idx.Entries)
}

func TestBuildEmptyCorpus(t *testing.T) {
	cfg := config.Default()
	cfg.Corpus.Dir = t.TempDir()
	cfg.Index.OutputDir = t.TempDir()

	_, err := Build(cfg)
	require.ErrorContains(t, err, "no corpus files")
}

func TestBuildStemmed(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Index.Stem = true

	stats, err := Build(cfg)
	require.NoError(t, err)
	require.True(t, stats.Stemmed)

	idx, err := OpenArtifact(filepath.Join(cfg.Index.OutputDir, IndexArtifact), KindIndex)
	require.NoError(t, err)
	require.True(t, idx.Stats.Stemmed)
	_, ok := idx.Dict["price"]
	require.True(t, ok)
	_, ok = idx.Dict["prices"]
	require.False(t, ok)
}
