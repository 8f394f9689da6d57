package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"boolsearch/pkg/config"
	"boolsearch/pkg/index"
	"boolsearch/pkg/utils/units"
)

// run builds both artifacts and prints the build answers.
func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log.Println("Index build started...")
	stats, err := index.Build(cfg)
	if err != nil {
		return err
	}

	log.Printf("Corpus files: %d. Records: %d. Docs: %d. Duplicates dropped: %d.\n",
		stats.Files, stats.Records, stats.Docs, stats.Duplicates)
	log.Printf("Unique terms: %d. Postings: %d. Bigram keys: %d.\n",
		stats.Terms, stats.Postings, stats.Bigrams)
	for _, name := range []string{index.IndexArtifact, index.BigramArtifact} {
		path := filepath.Join(cfg.Index.OutputDir, name)
		fi, err := os.Stat(path)
		if err != nil {
			return err
		}
		log.Printf("Artifact %s: %.2f MB.\n", path, float64(fi.Size())/units.MB)
	}

	return nil
}

func main() {
	configPath := flag.String("config", "", "config file path")
	flag.Parse()
	if flag.NArg() > 0 {
		log.Fatalf("indexer takes no positional arguments, got %d", flag.NArg())
	}

	if err := run(*configPath); err != nil {
		log.Fatal(err)
	}
}
