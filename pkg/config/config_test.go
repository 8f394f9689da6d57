package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "./reuters21578", cfg.Corpus.Dir)
	require.Equal(t, []string{"reut2-*.sgm"}, cfg.Corpus.Include)
	require.Equal(t, "./output", cfg.Index.OutputDir)
	require.Equal(t, 2000, cfg.Index.BatchDocs)
	require.False(t, cfg.Index.Stem)
	require.Equal(t, 256, cfg.Engine.CacheSize)
	require.Equal(t, 4, cfg.Engine.Readers)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boolsearch.yaml")
	data := []byte(`
corpus:
  dir: /data/reuters
  include: ["*.sgm", "*.sgml"]
index:
  outputDir: /data/out
  batchDocs: 500
  stem: true
engine:
  cacheSize: 64
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/data/reuters", cfg.Corpus.Dir)
	require.Equal(t, []string{"*.sgm", "*.sgml"}, cfg.Corpus.Include)
	require.Equal(t, "/data/out", cfg.Index.OutputDir)
	require.Equal(t, 500, cfg.Index.BatchDocs)
	require.True(t, cfg.Index.Stem)
	require.Equal(t, 64, cfg.Engine.CacheSize)
	// Unset keys keep their defaults.
	require.Equal(t, 4, cfg.Engine.Readers)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BS_CORPUS_DIR", "/env/corpus")
	t.Setenv("BS_OUTPUT_DIR", "/env/out")
	t.Setenv("BS_BATCH_DOCS", "123")
	t.Setenv("BS_DEDUP", "true")
	t.Setenv("BS_READERS", "9")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "/env/corpus", cfg.Corpus.Dir)
	require.Equal(t, "/env/out", cfg.Index.OutputDir)
	require.Equal(t, 123, cfg.Index.BatchDocs)
	require.True(t, cfg.Index.Dedup)
	require.Equal(t, 9, cfg.Engine.Readers)
}

func TestValidate(t *testing.T) {
	t.Setenv("BS_BATCH_DOCS", "0")
	_, err := Load("")
	require.Error(t, err)
}
