package index

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"boolsearch/pkg/config"
	"boolsearch/pkg/corpus"
	"boolsearch/pkg/utils/stream"
	"boolsearch/pkg/utils/sys"
)

// Build runs the full pipeline: parse the corpus, spill partial indexes,
// k-way merge them into the index artifact, derive the bigram artifact.
// Rebuilding over an existing output directory replaces both artifacts.
func Build(cfg *config.Config) (*BuildStats, error) {
	start := time.Now()

	var stopwords []string
	if cfg.Corpus.StopwordsFile != "" {
		words, err := corpus.LoadStopwords(cfg.Corpus.StopwordsFile)
		if err != nil {
			return nil, fmt.Errorf("load stopwords: %w", err)
		}
		stopwords = words
	}
	tok := corpus.NewTokenizer(stopwords, cfg.Index.Stem)

	files, err := corpus.ListFiles(cfg.Corpus.Dir, cfg.Corpus.Include)
	if err != nil {
		return nil, fmt.Errorf("list corpus files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no corpus files in %s", cfg.Corpus.Dir)
	}

	if err := sys.EnsureDir(cfg.Index.OutputDir); err != nil {
		return nil, err
	}
	tempDir := filepath.Join(cfg.Index.OutputDir, ".partials")
	if err := sys.CreateDir(tempDir); err != nil {
		return nil, err
	}
	defer os.RemoveAll(tempDir)

	docCh := make(chan corpus.Doc, 64)
	var (
		parseStats corpus.ParseStats
		parseErr   error
	)
	go func() {
		defer close(docCh)
		parseStats, parseErr = corpus.ParseFiles(files, tok, corpus.ParseOptions{
			Workers: cfg.Index.Workers,
			Dedup:   cfg.Index.Dedup,
		}, stream.NewChannelConsumer(docCh))
	}()

	indexCh := make(chan PartialIndex)
	go func() {
		defer close(indexCh)
		BuildPartialIndexes(cfg.Index.BatchDocs, stream.NewChannelProducer(docCh), stream.NewChannelConsumer(indexCh))
	}()

	partialFiles := []string{}
	for partial := range indexCh {
		name, err := SavePartialIndex(tempDir, partial)
		if err != nil {
			return nil, err
		}
		partialFiles = append(partialFiles, name)
	}
	if parseErr != nil {
		return nil, parseErr
	}
	log.Printf("Partial indexes saved: %d. Time: %v.\n", len(partialFiles), time.Since(start))
	sys.LogMemoryUsage()

	indexIters := make([]PartialIndexIter, 0, len(partialFiles))
	for _, file := range partialFiles {
		indexIter, err := FilePartialIndexIterator(file)
		if err != nil {
			return nil, err
		}
		indexIters = append(indexIters, indexIter)
	}

	indexW, err := NewArtifactWriter(cfg.Index.OutputDir, IndexArtifact, KindIndex)
	if err != nil {
		return nil, err
	}
	defer indexW.Abort()

	mergeStart := time.Now()
	outIter := KwayMergeReader(indexIters)
	defer outIter.Stop()

	terms := []string{}
	postingCount := 0
	for {
		_, tp, ok := outIter.Next()
		if !ok {
			break
		}
		if err := indexW.AppendPostings(tp); err != nil {
			return nil, err
		}
		terms = append(terms, tp.Term)
		postingCount += len(tp.DocIDs)
	}
	if err := outIter.Err(); err != nil {
		return nil, err
	}

	bigrams := BuildBigramIndex(terms)
	bigramW, err := NewArtifactWriter(cfg.Index.OutputDir, BigramArtifact, KindBigram)
	if err != nil {
		return nil, err
	}
	defer bigramW.Abort()
	for _, tl := range bigrams.SortedList() {
		if err := bigramW.AppendTermList(tl); err != nil {
			return nil, err
		}
	}
	if err := bigramW.Finish(nil); err != nil {
		return nil, err
	}

	stats := &BuildStats{
		Files:      parseStats.Files,
		Records:    parseStats.Records,
		Docs:       parseStats.Docs,
		Duplicates: parseStats.Duplicates,
		Terms:      len(terms),
		Postings:   postingCount,
		Bigrams:    len(bigrams),
		Stemmed:    cfg.Index.Stem,
		Deduped:    cfg.Index.Dedup,
		BuiltAt:    time.Now(),
	}
	if err := indexW.Finish(stats); err != nil {
		return nil, err
	}

	log.Printf("Terms: %d. Postings: %d. Bigram keys: %d. Merge time: %v. Total time: %v\n",
		stats.Terms, stats.Postings, stats.Bigrams, time.Since(mergeStart), time.Since(start))

	return stats, nil
}
