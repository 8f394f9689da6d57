package corpus

import (
	"log"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/mfonda/simhash"
	"golang.org/x/sync/errgroup"

	"boolsearch/pkg/utils/stream"
)

// Doc is a parsed, tokenized document ready for indexing. ID is the
// record's NEWID.
type Doc struct {
	ID     int
	Tokens []string
}

type ParseOptions struct {
	// Workers caps file-level parallelism. Zero means one per CPU.
	Workers int
	// Dedup drops near-duplicate documents by simhash.
	Dedup bool
}

type ParseStats struct {
	Files      int
	Records    int
	Docs       int
	Duplicates int
	Elapsed    time.Duration
}

// ParseFiles parses and tokenizes every record of the given files and
// hands the resulting docs to consumer. Docs arrive in no particular
// order; the consumer must be safe for concurrent use.
func ParseFiles(files []string, tok *Tokenizer, opts ParseOptions, consumer stream.Consumer[Doc]) (ParseStats, error) {
	workerNum := opts.Workers
	if workerNum <= 0 {
		workerNum = runtime.NumCPU()
	}

	var (
		mu     sync.Mutex
		stats  ParseStats
		dupMap sync.Map
	)
	stats.Files = len(files)
	start := time.Now()

	g := new(errgroup.Group)
	g.SetLimit(workerNum)
	for _, file := range files {
		g.Go(func() error {
			records, err := ParseFile(file)
			if err != nil {
				return err
			}

			var docs, dups int
			for _, rec := range records {
				tokens := tok.Tokenize(rec.Text())
				// Empty docs are kept and never deduped against each other.
				if opts.Dedup && len(tokens) > 0 {
					hash := simhash.Simhash(simhash.NewWordFeatureSet([]byte(strings.Join(tokens, " "))))
					if _, loaded := dupMap.LoadOrStore(hash, struct{}{}); loaded {
						dups++
						continue
					}
				}
				consumer.Consume(Doc{ID: rec.NewID, Tokens: tokens})
				docs++
			}

			mu.Lock()
			stats.Records += docs + dups
			stats.Docs += docs
			stats.Duplicates += dups
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}
	stats.Elapsed = time.Since(start)

	log.Printf("Parse workers: %d. Files: %d. Records: %d. Docs: %d. Duplicates: %d. Using %v\n",
		workerNum, stats.Files, stats.Records, stats.Docs, stats.Duplicates, stats.Elapsed)

	return stats, nil
}
