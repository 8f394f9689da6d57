// Package config loads tool settings from an optional YAML file with
// BS_* environment overrides on top.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultPath is consulted when no explicit config path is given.
const DefaultPath = "boolsearch.yaml"

type Config struct {
	Corpus CorpusConfig `yaml:"corpus"`
	Index  IndexConfig  `yaml:"index"`
	Engine EngineConfig `yaml:"engine"`
}

type CorpusConfig struct {
	// Dir holds the SGML corpus files.
	Dir string `yaml:"dir"`
	// Include filters corpus files by glob pattern. Empty means every
	// regular file in Dir.
	Include []string `yaml:"include"`
	// StopwordsFile overrides the built-in stopword list when set.
	StopwordsFile string `yaml:"stopwordsFile"`
}

type IndexConfig struct {
	OutputDir string `yaml:"outputDir"`
	// BatchDocs is the number of documents accumulated per partial
	// index before it is spilled to disk.
	BatchDocs int `yaml:"batchDocs"`
	// Workers caps parse parallelism. Zero or negative means one
	// worker per CPU.
	Workers int  `yaml:"workers"`
	Dedup   bool `yaml:"dedup"`
	Stem    bool `yaml:"stem"`
}

type EngineConfig struct {
	CacheSize int `yaml:"cacheSize"`
	// Readers is the number of file handles held open per artifact.
	Readers int `yaml:"readers"`
}

func Default() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Dir:     "./reuters21578",
			Include: []string{"reut2-*.sgm"},
		},
		Index: IndexConfig{
			OutputDir: "./output",
			BatchDocs: 2000,
		},
		Engine: EngineConfig{
			CacheSize: 256,
			Readers:   4,
		},
	}
}

// Load reads the config at path. An empty path falls back to DefaultPath
// if that file exists, otherwise the defaults are used as-is. Environment
// overrides apply in every case.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultPath); err == nil {
			path = DefaultPath
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Index.BatchDocs <= 0 {
		return fmt.Errorf("config: batchDocs must be positive, got %d", c.Index.BatchDocs)
	}
	if c.Engine.CacheSize <= 0 {
		return fmt.Errorf("config: cacheSize must be positive, got %d", c.Engine.CacheSize)
	}
	if c.Engine.Readers <= 0 {
		return fmt.Errorf("config: readers must be positive, got %d", c.Engine.Readers)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.Corpus.Dir, "BS_CORPUS_DIR")
	setString(&cfg.Corpus.StopwordsFile, "BS_STOPWORDS_FILE")
	setString(&cfg.Index.OutputDir, "BS_OUTPUT_DIR")
	setInt(&cfg.Index.BatchDocs, "BS_BATCH_DOCS")
	setInt(&cfg.Index.Workers, "BS_WORKERS")
	setBool(&cfg.Index.Dedup, "BS_DEDUP")
	setBool(&cfg.Index.Stem, "BS_STEM")
	setInt(&cfg.Engine.CacheSize, "BS_CACHE_SIZE")
	setInt(&cfg.Engine.Readers, "BS_READERS")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
