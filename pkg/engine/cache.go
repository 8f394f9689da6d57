package engine

import (
	"errors"
	"os"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

var ErrCacheEntryNotFound = errors.New("cache entry not found")

// Cache is the lookup surface shared by the memory and disk tiers. Both
// artifact kinds go through it: docID lists keyed by term, term lists
// keyed by bigram.
type Cache[V any] interface {
	Get(key string) (V, error)
}

// CacheFunc adapts a lookup function to the Cache interface.
type CacheFunc[V any] func(key string) (V, error)

func (f CacheFunc[V]) Get(key string) (V, error) {
	return f(key)
}

var _ Cache[[]int] = (*MemoryCache[[]int])(nil)
var _ Cache[[]int] = (*DiskCache[[]int])(nil)

// MemoryCache is an LRU in front of src. Concurrent misses on one key
// collapse into a single src read.
type MemoryCache[V any] struct {
	cache *lru.Cache[string, V]
	src   Cache[V]
	group singleflight.Group
}

func NewMemoryCache[V any](size int, src Cache[V]) *MemoryCache[V] {
	cache, _ := lru.New[string, V](size)
	return &MemoryCache[V]{
		cache: cache,
		src:   src,
	}
}

func (mc *MemoryCache[V]) Get(key string) (V, error) {
	if v, ok := mc.cache.Get(key); ok {
		return v, nil
	}

	v, err, _ := mc.group.Do(key, func() (any, error) {
		if v, ok := mc.cache.Get(key); ok {
			return v, nil
		}
		v, err := mc.src.Get(key)
		if err != nil {
			return nil, err
		}
		mc.cache.Add(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// DiskCache serves point lookups from an artifact's entries section.
// Each worker owns its file handle, so reads never share a seek offset.
type DiskCache[V any] struct {
	requestCh chan diskRequest[V]
	dict      map[string]int64
	wg        sync.WaitGroup
	closeOnce sync.Once
}

type diskRequest[V any] struct {
	off      int64
	resultCh chan<- diskResult[V]
}

type diskResult[V any] struct {
	value V
	err   error
}

// NewDiskCache opens one handle on path per worker. dict maps keys to
// entry offsets; read decodes the entry at an offset.
func NewDiskCache[V any](path string, workers int, dict map[string]int64, read func(f *os.File, off int64) (V, error)) (*DiskCache[V], error) {
	dc := &DiskCache[V]{
		requestCh: make(chan diskRequest[V], workers),
		dict:      dict,
	}

	files := make([]*os.File, 0, workers)
	for range workers {
		f, err := os.Open(path)
		if err != nil {
			for _, open := range files {
				open.Close()
			}
			return nil, err
		}
		files = append(files, f)
	}

	dc.wg.Add(len(files))
	for _, f := range files {
		go func() {
			defer dc.wg.Done()
			defer f.Close()
			for req := range dc.requestCh {
				v, err := read(f, req.off)
				req.resultCh <- diskResult[V]{value: v, err: err}
			}
		}()
	}

	return dc, nil
}

func (dc *DiskCache[V]) Get(key string) (V, error) {
	off, ok := dc.dict[key]
	if !ok {
		var zero V
		return zero, ErrCacheEntryNotFound
	}

	resultCh := make(chan diskResult[V], 1)
	dc.requestCh <- diskRequest[V]{
		off:      off,
		resultCh: resultCh,
	}

	resp := <-resultCh
	return resp.value, resp.err
}

// Close stops the workers and closes their handles. Get must not be
// called after Close.
func (dc *DiskCache[V]) Close() {
	dc.closeOnce.Do(func() {
		close(dc.requestCh)
		dc.wg.Wait()
	})
}
