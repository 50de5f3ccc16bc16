package rank

import (
	"bytes"
	"encoding/gob"
	"errors"
	"sync"

	"github.com/peterbourgon/diskv"
)

// CacheMissError is returned when a ranking is not in a cache.
var CacheMissError = errors.New("cache miss error")

// BlockTransform determines how diskv should partition folders.
func BlockTransform(blockSize int) func(string) []string {
	return func(s string) []string {
		var (
			sliceSize = len(s) / blockSize
			pathSlice = make([]string, sliceSize)
		)
		for i := 0; i < sliceSize; i++ {
			from, to := i*blockSize, (i*blockSize)+blockSize
			pathSlice[i] = s[from:to]
		}
		return pathSlice
	}
}

// RankingCacher models a way to cache (either persistent or not) candidate rankings.
type RankingCacher interface {
	Get(key string) (ScoredDocuments, error)
	Set(key string, docs ScoredDocuments) error
}

type mapRankingCache struct {
	mu sync.RWMutex
	m  map[string]ScoredDocuments
}

func (m *mapRankingCache) Get(key string) (ScoredDocuments, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.m[key]; ok {
		return d, nil
	}
	return nil, CacheMissError
}

func (m *mapRankingCache) Set(key string, docs ScoredDocuments) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.m[key] = docs
	return nil
}

// NewMapRankingCache creates a ranking cache out of a regular go map.
func NewMapRankingCache() RankingCacher {
	return &mapRankingCache{m: make(map[string]ScoredDocuments)}
}

type diskvRankingCache struct {
	*diskv.Diskv
}

func (d diskvRankingCache) Get(key string) (ScoredDocuments, error) {
	b, err := d.Read(key)
	if err != nil {
		return nil, CacheMissError
	}
	var docs ScoredDocuments
	err = gob.NewDecoder(bytes.NewReader(b)).Decode(&docs)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (d diskvRankingCache) Set(key string, docs ScoredDocuments) error {
	var buff bytes.Buffer
	err := gob.NewEncoder(&buff).Encode(docs)
	if err != nil {
		return err
	}
	return d.Write(key, buff.Bytes())
}

// NewDiskvRankingCache creates a new on-disk cache with the specified diskv parameters.
func NewDiskvRankingCache(dv *diskv.Diskv) RankingCacher {
	return diskvRankingCache{dv}
}

// NewFileRankingCache creates an on-disk, gzip compressed cache rooted at dir.
func NewFileRankingCache(dir string) RankingCacher {
	return NewDiskvRankingCache(diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    BlockTransform(8),
		CacheSizeMax: 4096 * 1024,
		Compression:  diskv.NewGzipCompression(),
	}))
}
