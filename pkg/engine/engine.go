package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"boolsearch/pkg/config"
	"boolsearch/pkg/index"
)

// Engine answers boolean and wildcard queries from the two artifacts
// under one output directory. It holds no other state, so every run
// sees exactly what the last index build wrote.
type Engine struct {
	stats    index.BuildStats
	postings Cache[[]int]
	terms    Cache[[]string]

	postingsDisk *DiskCache[[]int]
	termsDisk    *DiskCache[[]string]
}

// NewEngine opens and verifies both artifacts under srcDir.
func NewEngine(srcDir string, cfg config.EngineConfig) (*Engine, error) {
	idx, err := index.OpenArtifact(filepath.Join(srcDir, index.IndexArtifact), index.KindIndex)
	if err != nil {
		return nil, err
	}
	if idx.Stats == nil {
		return nil, fmt.Errorf("%w: %s: no stats section", index.ErrCorruptArtifact, idx.Path)
	}
	bg, err := index.OpenArtifact(filepath.Join(srcDir, index.BigramArtifact), index.KindBigram)
	if err != nil {
		return nil, err
	}

	postingsDisk, err := NewDiskCache(idx.Path, cfg.Readers, idx.Dict,
		func(f *os.File, off int64) ([]int, error) {
			tp, err := idx.PostingsAt(f, off)
			if err != nil {
				return nil, err
			}
			return tp.DocIDs, nil
		})
	if err != nil {
		return nil, err
	}

	termsDisk, err := NewDiskCache(bg.Path, cfg.Readers, bg.Dict,
		func(f *os.File, off int64) ([]string, error) {
			tl, err := bg.TermListAt(f, off)
			if err != nil {
				return nil, err
			}
			return tl.Terms, nil
		})
	if err != nil {
		postingsDisk.Close()
		return nil, err
	}

	return &Engine{
		stats:        *idx.Stats,
		postings:     NewMemoryCache[[]int](cfg.CacheSize, postingsDisk),
		terms:        NewMemoryCache[[]string](cfg.CacheSize, termsDisk),
		postingsDisk: postingsDisk,
		termsDisk:    termsDisk,
	}, nil
}

// Stats reports the build metadata carried by the index artifact.
func (eg *Engine) Stats() index.BuildStats {
	return eg.stats
}

// Close releases the disk reader handles.
func (eg *Engine) Close() {
	eg.postingsDisk.Close()
	eg.termsDisk.Close()
}

// Process evaluates one query and returns the matching docIDs in
// ascending order. Unknown terms contribute empty sets, not errors.
func (eg *Engine) Process(qt QueryType, query string) ([]int, error) {
	query = Normalize(query)

	switch qt {
	case QueryConjunctive:
		return eg.evalConjunctive(Keywords(query))
	case QueryDisjunctive:
		return eg.evalDisjunctive(Keywords(query))
	case QueryWildcard:
		return eg.evalWildcard(query)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownQueryType, int(qt))
	}
}
